package domain

import "time"

// AIProvider identifies the embedding provider
type AIProvider string

const (
	AIProviderOpenAI AIProvider = "openai"
	AIProviderOllama AIProvider = "ollama"
	AIProviderCohere AIProvider = "cohere"
	AIProviderVoyage AIProvider = "voyage"
)

// RequiresAPIKey returns true if this provider requires an API key
func (p AIProvider) RequiresAPIKey() bool {
	switch p {
	case AIProviderOllama:
		return false // Self-hosted, no API key needed
	default:
		return true
	}
}

// IsValid returns true if this is a known provider
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderOllama, AIProviderCohere, AIProviderVoyage:
		return true
	default:
		return false
	}
}

// AISettings holds AI service configuration (text embedding and visual
// retrieval). Updatable at runtime via the settings API; API keys are
// stored encrypted.
type AISettings struct {
	Embedding EmbeddingSettings `json:"embedding"`
	Visual    VisualSettings    `json:"visual"`
	UpdatedAt time.Time         `json:"updated_at"`
	UpdatedBy string            `json:"updated_by,omitempty"`
}

// EmbeddingSettings configures the text embedding service
type EmbeddingSettings struct {
	Provider AIProvider `json:"provider"`
	Model    string     `json:"model"`
	APIKey   string     `json:"-"` // Never serialize to JSON
	BaseURL  string     `json:"base_url,omitempty"`
}

// IsConfigured returns true if embedding settings are properly configured
func (e *EmbeddingSettings) IsConfigured() bool {
	if e.Provider == "" {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// VisualSettings configures the visual-retrieval inference service.
// The service is self-hosted; only the endpoint and model name vary.
type VisualSettings struct {
	Model   string `json:"model"`
	BaseURL string `json:"base_url,omitempty"`
}

// IsConfigured returns true if a visual endpoint has been set
func (v *VisualSettings) IsConfigured() bool {
	return v.BaseURL != ""
}

// Validate checks if AISettings are valid
func (s *AISettings) Validate() error {
	if s.Embedding.Provider != "" && !s.Embedding.Provider.IsValid() {
		return ErrInvalidProvider
	}
	return nil
}

// EmbeddingConfig holds embedding model configuration
type EmbeddingConfig struct {
	Provider   AIProvider `json:"provider"`
	Model      string     `json:"model"`
	Dimensions int        `json:"dimensions"`
	BatchSize  int        `json:"batch_size"`
}

// DefaultEmbeddingConfig returns default embedding configuration
func DefaultEmbeddingConfig() *EmbeddingConfig {
	return &EmbeddingConfig{
		Provider:   AIProviderOpenAI,
		Model:      "text-embedding-3-small",
		Dimensions: 1536,
		BatchSize:  100,
	}
}
