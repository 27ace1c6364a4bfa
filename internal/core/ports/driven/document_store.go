package driven

import (
	"context"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// DocumentStore handles document persistence (PostgreSQL)
type DocumentStore interface {
	// Save creates or updates a document
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID
	Get(ctx context.Context, id string) (*domain.Document, error)

	// GetByObjectID retrieves a document by its normalized object ID
	GetByObjectID(ctx context.Context, objectID string) (*domain.Document, error)

	// List retrieves documents with pagination, newest first
	List(ctx context.Context, limit, offset int) ([]*domain.Document, error)

	// ListByStatus retrieves documents in a given status with pagination
	ListByStatus(ctx context.Context, status domain.DocumentStatus, limit, offset int) ([]*domain.Document, error)

	// UpdateStatus updates a document's status and detail message
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, detail string) error

	// Delete deletes a document
	Delete(ctx context.Context, id string) error

	// Count returns total document count
	Count(ctx context.Context) (int, error)
}

// ChunkStore handles chunk persistence and vector search (PostgreSQL + pgvector)
type ChunkStore interface {
	// SaveBatch upserts chunks in a transaction, keyed by (src, ordinal).
	// Re-chunking a document overwrites existing ordinals in place.
	SaveBatch(ctx context.Context, chunks []*domain.Chunk) error

	// DeleteSurplus removes chunks of a source with ordinal >= keep.
	// Used when a re-chunked document produced fewer chunks than before.
	DeleteSurplus(ctx context.Context, src string, keep int) error

	// GetBySrc retrieves all chunks for a source, ordered by ordinal
	GetBySrc(ctx context.Context, src string) ([]*domain.Chunk, error)

	// GetBySrcs retrieves all chunks for the given sources.
	// Embeddings are not loaded; used for sparse scoring over candidates.
	GetBySrcs(ctx context.Context, srcs []string) ([]*domain.Chunk, error)

	// CountBySrc returns the number of chunks stored for a source
	CountBySrc(ctx context.Context, src string) (int, error)

	// SearchDense returns the topK nearest chunks to the query embedding
	// over the chunk content embeddings, restricted to the given sources.
	// Ordered by negated inner product.
	SearchDense(ctx context.Context, embedding []float32, srcs []string, topK int) ([]*domain.RankedChunk, error)

	// SearchQA returns the topK nearest chunks to the query embedding
	// over the question-form embeddings, restricted to the given sources.
	SearchQA(ctx context.Context, embedding []float32, srcs []string, topK int) ([]*domain.RankedChunk, error)

	// DeleteBySrc deletes all chunks for a source
	DeleteBySrc(ctx context.Context, src string) error
}
