package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// ProgressStore persists embedding progress records (PostgreSQL).
// One record per normalized object ID tracks the lifecycle of that
// document's embedding run.
type ProgressStore interface {
	// Get retrieves the progress record for an object ID.
	// Returns domain.ErrNotFound if no record exists.
	Get(ctx context.Context, objectID string) (*domain.EmbeddingProgress, error)

	// GetBatch retrieves progress records for multiple object IDs.
	// Missing IDs are simply absent from the result map.
	GetBatch(ctx context.Context, objectIDs []string) (map[string]*domain.EmbeddingProgress, error)

	// Save upserts a progress record, refreshing LastUpdated
	Save(ctx context.Context, progress *domain.EmbeddingProgress) error

	// ListStale retrieves in-flight records whose LastUpdated is before cutoff.
	// Terminated records are never returned.
	ListStale(ctx context.Context, cutoff time.Time) ([]*domain.EmbeddingProgress, error)

	// Delete removes a progress record
	Delete(ctx context.Context, objectID string) error
}
