package driving

import (
	"context"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// ProgressService reports and repairs embedding progress
type ProgressService interface {
	// Get retrieves the progress record for a normalized object ID
	Get(ctx context.Context, objectID string) (*domain.EmbeddingProgress, error)

	// CheckCompletion reports which of the given object IDs still have
	// embedding work outstanding. IDs whose status cannot be read are
	// reported as pending rather than failing the whole check.
	CheckCompletion(ctx context.Context, objectIDs []string) (*domain.CompletionReport, error)

	// QueueEmbedding queues embedding for an object that was never
	// submitted. It is idempotent: an object already in flight or
	// terminated is left alone. Returns true if work was queued.
	QueueEmbedding(ctx context.Context, objectID string) (bool, error)

	// SweepStale requeues embedding jobs whose progress records have
	// gone stale. Returns the number of jobs requeued.
	SweepStale(ctx context.Context) (int, error)

	// RequeueAll queues re-embedding for every text-pipeline document.
	// Used after an embedding model change invalidates stored vectors.
	RequeueAll(ctx context.Context) (int, error)
}
