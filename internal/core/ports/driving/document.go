package driving

import (
	"context"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// RegisterDocumentRequest describes a document to register for ingestion.
// The blob must already exist in object storage.
type RegisterDocumentRequest struct {
	Bucket       string              `json:"bucket"`
	Key          string              `json:"key"`
	MimeType     string              `json:"mime_type,omitempty"`
	PipelineType domain.PipelineType `json:"pipeline_type,omitempty"`
	Tags         []string            `json:"tags,omitempty"`
	Metadata     map[string]string   `json:"metadata,omitempty"`
}

// DocumentService manages registered documents and their ingestion
type DocumentService interface {
	// Register records a document and queues the first pipeline stage.
	// Registering an already-known object re-queues its pipeline.
	Register(ctx context.Context, userID string, req RegisterDocumentRequest) (*domain.Document, error)

	// Get retrieves a document by ID
	Get(ctx context.Context, id string) (*domain.Document, error)

	// GetByObjectID retrieves a document by its normalized object ID
	GetByObjectID(ctx context.Context, objectID string) (*domain.Document, error)

	// List retrieves documents with pagination, newest first
	List(ctx context.Context, limit, offset int) ([]*domain.Document, error)

	// Count returns the total number of documents
	Count(ctx context.Context) (int, error)

	// Delete removes a document along with its chunks, pages, progress
	// record, and grants
	Delete(ctx context.Context, id string) error

	// Reprocess re-queues a document's pipeline from the start
	Reprocess(ctx context.Context, id string) error
}
