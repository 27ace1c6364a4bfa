package driven

import (
	"context"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// SettingsStore persists AI service settings
type SettingsStore interface {
	// GetAISettings retrieves the AI settings.
	// Returns empty settings if none have been saved yet.
	GetAISettings(ctx context.Context) (*domain.AISettings, error)

	// SaveAISettings persists AI settings. API keys are encrypted at rest.
	SaveAISettings(ctx context.Context, settings *domain.AISettings) error
}
