package domain

import "sync"

// RuntimeConfig tracks which services are available at runtime.
// This is determined at startup and can be updated dynamically when the AI
// settings change. Thread-safe for concurrent access.
type RuntimeConfig struct {
	mu sync.RWMutex

	// Static (set at startup, read-only)
	QueueBackend string // "redis" or "postgres"

	// Dynamic capability flags (updated when AI services change)
	embeddingAvailable bool
	visualAvailable    bool
}

// NewRuntimeConfig creates a new RuntimeConfig with initial values
func NewRuntimeConfig(queueBackend string) *RuntimeConfig {
	return &RuntimeConfig{
		QueueBackend: queueBackend,
	}
}

// EmbeddingAvailable returns whether the embedding service is available
func (c *RuntimeConfig) EmbeddingAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.embeddingAvailable
}

// VisualAvailable returns whether the visual-retrieval service is available
func (c *RuntimeConfig) VisualAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visualAvailable
}

// SetEmbeddingAvailable updates the embedding availability flag
func (c *RuntimeConfig) SetEmbeddingAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.embeddingAvailable = available
}

// SetVisualAvailable updates the visual service availability flag
func (c *RuntimeConfig) SetVisualAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visualAvailable = available
}

// CanSearch reports whether the given mode is currently serviceable
func (c *RuntimeConfig) CanSearch(mode SearchMode) bool {
	switch mode {
	case SearchModeSparse:
		return true
	case SearchModeVisual:
		return c.VisualAvailable()
	case SearchModeBlended:
		return c.EmbeddingAvailable() && c.VisualAvailable()
	default:
		return c.EmbeddingAvailable()
	}
}

// EffectiveSearchMode returns the best available search mode
func (c *RuntimeConfig) EffectiveSearchMode() SearchMode {
	if c.EmbeddingAvailable() {
		return SearchModeHybrid
	}
	return SearchModeSparse
}
