package ai

import (
	"fmt"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Ensure Factory implements AIServiceFactory
var _ driven.AIServiceFactory = (*Factory)(nil)

// Factory creates AI services based on configuration
type Factory struct{}

// NewFactory creates a new AI service factory
func NewFactory() *Factory {
	return &Factory{}
}

// CreateEmbeddingService creates an embedding service from settings
func (f *Factory) CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOpenAI:
		return NewOpenAIEmbedding(settings.APIKey, settings.Model, settings.BaseURL)
	case domain.AIProviderOllama:
		return NewOllamaEmbedding(settings.BaseURL, settings.Model)
	case domain.AIProviderVoyage:
		return NewVoyageEmbedding(settings.APIKey, settings.Model)
	case domain.AIProviderCohere:
		return NewCohereEmbedding(settings.APIKey, settings.Model)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidProvider, settings.Provider)
	}
}

// CreateVisualService creates a visual embedding service from settings
func (f *Factory) CreateVisualService(settings *domain.VisualSettings) (driven.VisualEmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	return NewVisualEmbedding(settings.BaseURL, settings.Model)
}
