package driven

import (
	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// AIServiceFactory creates AI services based on configuration
type AIServiceFactory interface {
	// CreateEmbeddingService creates an embedding service from settings
	// Returns nil, nil if settings are not configured
	CreateEmbeddingService(settings *domain.EmbeddingSettings) (EmbeddingService, error)

	// CreateVisualService creates a visual embedding service from settings
	// Returns nil, nil if settings are not configured
	CreateVisualService(settings *domain.VisualSettings) (VisualEmbeddingService, error)
}
