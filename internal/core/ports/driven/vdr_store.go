package driven

import (
	"context"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// VDRStore persists multi-vector page embeddings (PostgreSQL)
type VDRStore interface {
	// SavePages upserts page records, keyed by (document_id, page_num).
	// Re-ingesting a document overwrites pages in place.
	SavePages(ctx context.Context, pages []*domain.VDRPage) error

	// GetPagesByDocuments retrieves all pages for the given document IDs
	GetPagesByDocuments(ctx context.Context, documentIDs []string) ([]*domain.VDRPage, error)

	// CountByDocument returns the number of pages stored for a document
	CountByDocument(ctx context.Context, documentID string) (int, error)

	// DeleteByDocument removes all pages for a document
	DeleteByDocument(ctx context.Context, documentID string) error
}
