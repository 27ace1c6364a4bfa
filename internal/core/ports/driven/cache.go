package driven

import (
	"context"
	"time"
)

// Cache provides short-lived key/value caching (Redis).
// Used for query embedding reuse across near-duplicate searches.
type Cache interface {
	// Get retrieves a cached value.
	// Returns domain.ErrNotFound if the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with a TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping checks if the cache backend is healthy
	Ping(ctx context.Context) error

	// Close cleans up resources
	Close() error
}
