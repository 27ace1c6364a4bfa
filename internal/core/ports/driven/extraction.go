package driven

import (
	"context"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// ExtractResult is the output of extracting one document
type ExtractResult struct {
	// Items are the extracted content items in document order
	Items []domain.ContentItem

	// OCR carries the scanned-document assessment for PDFs; nil otherwise
	OCR *domain.OCRAssessment
}

// ExtractionHandler extracts structured content from one document format.
// It transforms raw bytes into ordered content items with locations.
type ExtractionHandler interface {
	// Extract transforms raw content into content items.
	Extract(ctx context.Context, data []byte) (*ExtractResult, error)

	// SupportedTypes returns MIME types this handler handles.
	// Can include wildcards like "text/*" or specific types like "application/pdf".
	SupportedTypes() []string

	// Priority returns the handler priority (higher = more specific).
	// Priority ranges:
	//   50-89:  Format-specific (PDF, XLSX, HTML)
	//   10-49:  Generic (basic text processing)
	//   1-9:    Fallback (raw text extraction)
	Priority() int
}

// HandlerRegistry manages extraction handlers.
// When multiple handlers match a MIME type, the highest priority one is used.
type HandlerRegistry interface {
	// Get retrieves the best-matching handler for a MIME type.
	// Returns nil if no handler is registered for the type.
	Get(mimeType string) ExtractionHandler

	// Register registers a handler.
	Register(handler ExtractionHandler)

	// List returns all registered MIME types.
	List() []string
}

// Extractor turns raw document bytes into content items.
// Implementations never propagate extraction failures: a document that
// cannot be parsed yields an empty result so the pipeline keeps moving.
type Extractor interface {
	Extract(ctx context.Context, data []byte, mimeType string) *ExtractResult
}

// Chunker groups extracted content items into retrieval-sized chunks
type Chunker interface {
	// Chunk builds chunks for a source from its content items.
	// Ordinals, character offsets, locations, and origin indexes are
	// assigned here; embeddings are filled in later.
	Chunk(items []domain.ContentItem, src string) []*domain.Chunk
}
