package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
	"github.com/redis/go-redis/v9"
)

// Verify interface compliance
var _ driven.Cache = (*Cache)(nil)

const cachePrefix = "vectra:cache:"

// Cache implements driven.Cache using Redis with per-key TTLs.
// The retrieval service keeps query embeddings here so near-duplicate
// searches skip the embedding provider round-trip.
type Cache struct {
	client *redis.Client
}

// NewCache creates a new Redis-backed cache.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get retrieves a cached value.
// Returns domain.ErrNotFound if the key is absent or expired.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, cachePrefix+key).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cached value: %w", err)
	}
	return data, nil
}

// Set stores a value under key for the given TTL.
// A non-positive TTL is treated as already expired and not stored.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, cachePrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set cached value: %w", err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, cachePrefix+key).Err(); err != nil {
		return fmt.Errorf("delete cached value: %w", err)
	}
	return nil
}

// Ping checks if the Redis backend is healthy.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close is a no-op; the Redis client is managed by the caller and may
// be shared with the queue and lock adapters.
func (c *Cache) Close() error {
	return nil
}
