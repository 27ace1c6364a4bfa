package domain

import "time"

// SearchMode determines the search strategy
type SearchMode string

const (
	SearchModeDense   SearchMode = "dense"   // vector NN only
	SearchModeSparse  SearchMode = "sparse"  // BM25 only
	SearchModeHybrid  SearchMode = "hybrid"  // dense + sparse fused (default)
	SearchModeVisual  SearchMode = "visual"  // VDR page MaxSim only
	SearchModeBlended SearchMode = "blended" // text hybrid + VDR pages, blended per document
)

// IsValid returns true if this is a known search mode
func (m SearchMode) IsValid() bool {
	switch m {
	case SearchModeDense, SearchModeSparse, SearchModeHybrid, SearchModeVisual, SearchModeBlended:
		return true
	default:
		return false
	}
}

// RequiresEmbedding returns true if the given search mode needs the query embedded
func (m SearchMode) RequiresEmbedding() bool {
	return m == SearchModeDense || m == SearchModeHybrid || m == SearchModeBlended
}

// SearchRequest configures a hybrid search call
type SearchRequest struct {
	Query        string     `json:"query"`
	DocumentIDs  []string   `json:"document_ids"`
	TopK         int        `json:"top_k"`
	Mode         SearchMode `json:"search_mode"`
	DenseWeight  float64    `json:"dense_weight"`
	SparseWeight float64    `json:"sparse_weight"`
	UseRRF       bool       `json:"use_rrf"`

	// Blended mode only: relative weight of text vs page scores per document
	TextWeight   float64 `json:"text_weight,omitempty"`
	VisualWeight float64 `json:"visual_weight,omitempty"`
}

// ApplyDefaults fills zero-valued fields with sensible defaults
func (r *SearchRequest) ApplyDefaults() {
	if r.Mode == "" {
		r.Mode = SearchModeHybrid
	}
	if r.TopK <= 0 {
		r.TopK = 10
	}
	if r.DenseWeight == 0 && r.SparseWeight == 0 {
		r.DenseWeight = 0.7
		r.SparseWeight = 0.3
	}
	if r.TextWeight == 0 && r.VisualWeight == 0 {
		r.TextWeight = 0.5
		r.VisualWeight = 0.5
	}
}

// ResultType tags which kind of unit a search hit refers to
type ResultType string

const (
	ResultTypeTextChunk ResultType = "text-chunk"
	ResultTypeVDRPage   ResultType = "vdr-page"
)

// PageHit identifies a rasterized page returned from a visual search
type PageHit struct {
	DocumentID string `json:"document_id"`
	PageNum    int    `json:"page_num"`
}

// SearchHit is one retrieval result. Exactly one of Chunk or Page is set,
// indicated by Type.
type SearchHit struct {
	Type  ResultType `json:"type"`
	Score float64    `json:"score"`
	Chunk *Chunk     `json:"chunk,omitempty"`
	Page  *PageHit   `json:"page,omitempty"`
}

// SearchResult represents the outcome of a search query. AccessDenied lists
// requested document IDs the caller may not see; they are reported, never
// silently dropped.
type SearchResult struct {
	Results      []SearchHit   `json:"results"`
	TotalResults int           `json:"total_results"`
	Mode         SearchMode    `json:"search_mode"`
	AccessDenied []string      `json:"access_denied,omitempty"`
	Took         time.Duration `json:"took" swaggertype:"integer" example:"1500000"`
}

// RankedChunk pairs a chunk with its retrieval score. The dual-retrieval
// endpoint returns these in block order: primary-column hits first, then
// QA-column hits, neither deduplicated across blocks.
type RankedChunk struct {
	Chunk
	Score float64 `json:"score"`
}
