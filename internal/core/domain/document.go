package domain

import (
	"strings"
	"time"
)

// PipelineType selects how a document is indexed.
type PipelineType string

const (
	// PipelineText indexes extracted text as sentence chunks
	PipelineText PipelineType = "text"
	// PipelineVDR indexes rasterized page images as multi-vector embeddings
	PipelineVDR PipelineType = "vdr"
)

// DocumentStatus represents the ingestion state of a document
type DocumentStatus string

const (
	DocumentStatusRegistered DocumentStatus = "registered"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusIndexed    DocumentStatus = "indexed"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// Document represents an uploaded source file registered for indexing.
// Re-uploading the same bucket/key supersedes the previous registration;
// chunks and pages are replaced on the next processing run.
type Document struct {
	ID           string            `json:"id"`
	Bucket       string            `json:"bucket"`
	Key          string            `json:"key"`
	UserID       string            `json:"user_id"`
	PipelineType PipelineType      `json:"pipeline_type"`
	MimeType     string            `json:"mime_type"`
	Tags         []string          `json:"tags,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Status       DocumentStatus    `json:"status"`
	StatusDetail string            `json:"status_detail,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ObjectID returns the normalized key under which embedding progress for
// this document is tracked.
func (d *Document) ObjectID() string {
	return NormalizeObjectID(d.Bucket + "/" + d.Key)
}

// NormalizeObjectID canonicalizes a storage reference for progress tracking.
// Scheme prefixes are stripped and duplicate slashes collapsed so that
// "s3://bucket//a/b.pdf" and "bucket/a/b.pdf" resolve to the same record.
func NormalizeObjectID(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	for strings.Contains(s, "//") {
		s = strings.ReplaceAll(s, "//", "/")
	}
	return strings.Trim(s, "/")
}

// Location points at where a piece of content came from in the source file.
// Exactly which fields are set depends on the format handler that produced it.
type Location struct {
	Page    int    `json:"page,omitempty"`
	Sheet   string `json:"sheet,omitempty"`
	Section string `json:"section,omitempty"`
}

// ContentItem is one extracted unit of a document: a run of text plus where
// it came from. Items are ephemeral, produced per extraction run and staged
// between the extract and chunk consumers.
type ContentItem struct {
	Text       string   `json:"text"`
	Location   Location `json:"location"`
	CanSplit   bool     `json:"can_split"`
	TokenCount int      `json:"token_count"`
}

// EstimateTokens approximates the token count of a text span.
// Replaced by provider-reported usage once an embedding call returns.
func EstimateTokens(text string) int {
	n := len(text) / 4
	if n == 0 && len(text) > 0 {
		n = 1
	}
	return n
}

// Chunk is the atomic retrievable unit: a bounded span of sentence text with
// the provenance needed to trace it back to the source document. Keyed by
// (Src, ID) where ID is the chunk's ordinal within the document, so
// reprocessing overwrites rather than appends.
type Chunk struct {
	ID          int        `json:"id"`
	Src         string     `json:"src"`
	Content     string     `json:"content"`
	Locations   []Location `json:"locations"`
	OrigIndexes []int      `json:"orig_indexes"`
	CharIndex   int        `json:"char_index"`
	TokenCount  int        `json:"token_count"`
	Embedding   []float32  `json:"-"`
	QAEmbedding []float32  `json:"-"`
	CreatedAt   time.Time  `json:"-"`
}

// VDRPage holds the multi-vector embedding of one rasterized document page.
// Upserted idempotently on (DocumentID, PageNum).
type VDRPage struct {
	DocumentID string      `json:"document_id"`
	PageNum    int         `json:"page_num"`
	Vectors    [][]float32 `json:"-"`
	NumVectors int         `json:"num_vectors"`
	CreatedAt  time.Time   `json:"-"`
}
