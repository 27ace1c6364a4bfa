package driving

import (
	"context"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// SettingsService manages AI service configuration (admin only)
type SettingsService interface {
	// GetAISettings retrieves the current AI configuration
	GetAISettings(ctx context.Context) (*domain.AISettings, error)

	// UpdateAISettings updates AI configuration and hot-reloads services.
	// Returns the updated status and whether each service is now available.
	// Changing the embedding provider or model queues a full re-embed.
	UpdateAISettings(ctx context.Context, updaterID string, req UpdateAISettingsRequest) (*AISettingsStatus, error)

	// GetAIStatus returns the current status of AI services
	GetAIStatus(ctx context.Context) (*AISettingsStatus, error)

	// TestConnection tests the embedding provider connection
	TestConnection(ctx context.Context) error
}

// UpdateAISettingsRequest represents a request to update AI settings
type UpdateAISettingsRequest struct {
	Embedding *EmbeddingSettingsInput `json:"embedding,omitempty"`
	Visual    *VisualSettingsInput    `json:"visual,omitempty"`
}

// EmbeddingSettingsInput is the input for embedding configuration
type EmbeddingSettingsInput struct {
	Provider domain.AIProvider `json:"provider"`
	Model    string            `json:"model"`
	APIKey   string            `json:"api_key"`
	BaseURL  string            `json:"base_url,omitempty"`
}

// VisualSettingsInput is the input for visual embedding configuration
type VisualSettingsInput struct {
	Model   string `json:"model"`
	BaseURL string `json:"base_url"`
}

// AISettingsStatus represents the status of AI services
type AISettingsStatus struct {
	Embedding           AIServiceStatus   `json:"embedding"`
	Visual              AIServiceStatus   `json:"visual"`
	EffectiveSearchMode domain.SearchMode `json:"effective_search_mode"`
}

// AIServiceStatus represents the status of a single AI service
type AIServiceStatus struct {
	Available    bool              `json:"available"`
	Provider     domain.AIProvider `json:"provider,omitempty"`
	Model        string            `json:"model,omitempty"`
	EmbeddingDim int               `json:"embedding_dim,omitempty"` // Only for embedding service
}
