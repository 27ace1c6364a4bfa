package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driving"
	"github.com/custodia-labs/vectra-core/internal/runtime"
)

// Ensure settingsService implements SettingsService
var _ driving.SettingsService = (*settingsService)(nil)

// settingsService implements the SettingsService interface
type settingsService struct {
	settingsStore driven.SettingsStore
	aiFactory     driven.AIServiceFactory
	services      *runtime.Services
	taskQueue     driven.TaskQueue
	logger        *slog.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(
	settingsStore driven.SettingsStore,
	aiFactory driven.AIServiceFactory,
	services *runtime.Services,
	taskQueue driven.TaskQueue,
	logger *slog.Logger,
) driving.SettingsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &settingsService{
		settingsStore: settingsStore,
		aiFactory:     aiFactory,
		services:      services,
		taskQueue:     taskQueue,
		logger:        logger,
	}
}

// GetAISettings retrieves the current AI configuration
func (s *settingsService) GetAISettings(ctx context.Context) (*domain.AISettings, error) {
	return s.settingsStore.GetAISettings(ctx)
}

// UpdateAISettings updates AI configuration and hot-reloads services.
// A new service only goes live after its health check passes; on failure
// the saved settings stand but the service reports unavailable. Changing
// the embedding provider or model invalidates every stored vector, so a
// successful swap queues a full re-embed.
func (s *settingsService) UpdateAISettings(ctx context.Context, updaterID string, req driving.UpdateAISettingsRequest) (*driving.AISettingsStatus, error) {
	settings, err := s.settingsStore.GetAISettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	previous := settings.Embedding

	if req.Embedding != nil {
		settings.Embedding = domain.EmbeddingSettings{
			Provider: req.Embedding.Provider,
			Model:    req.Embedding.Model,
			APIKey:   req.Embedding.APIKey,
			BaseURL:  req.Embedding.BaseURL,
		}
	}
	if req.Visual != nil {
		settings.Visual = domain.VisualSettings{
			Model:   req.Visual.Model,
			BaseURL: req.Visual.BaseURL,
		}
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	settings.UpdatedAt = time.Now()
	settings.UpdatedBy = updaterID

	if err := s.settingsStore.SaveAISettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	status := &driving.AISettingsStatus{}

	if req.Embedding != nil {
		status.Embedding = s.reloadEmbedding(ctx, settings)
		if status.Embedding.Available && embeddingChanged(previous, settings.Embedding) {
			if err := s.taskQueue.Enqueue(ctx, domain.NewReembedAllTask()); err != nil {
				return nil, fmt.Errorf("queue re-embed: %w", err)
			}
			s.logger.Info("embedding model changed, queued full re-embed",
				"provider", settings.Embedding.Provider,
				"model", settings.Embedding.Model)
		}
	} else {
		status.Embedding = s.currentEmbeddingStatus(settings)
	}

	if req.Visual != nil {
		status.Visual = s.reloadVisual(ctx, settings)
	} else {
		status.Visual = s.currentVisualStatus(settings)
	}

	status.EffectiveSearchMode = s.services.Config().EffectiveSearchMode()
	return status, nil
}

// reloadEmbedding builds and activates the embedding service from settings
func (s *settingsService) reloadEmbedding(ctx context.Context, settings *domain.AISettings) driving.AIServiceStatus {
	if !settings.Embedding.IsConfigured() {
		s.services.SetEmbeddingService(nil)
		return driving.AIServiceStatus{Available: false}
	}

	svc, err := s.aiFactory.CreateEmbeddingService(&settings.Embedding)
	if err != nil || svc == nil {
		s.logger.Warn("failed to create embedding service",
			"provider", settings.Embedding.Provider,
			"error", err)
		s.services.SetEmbeddingService(nil)
		return driving.AIServiceStatus{Available: false}
	}
	if err := s.services.ValidateAndSetEmbedding(ctx, svc); err != nil {
		s.logger.Warn("embedding service failed health check",
			"provider", settings.Embedding.Provider,
			"error", err)
		return driving.AIServiceStatus{Available: false}
	}

	return driving.AIServiceStatus{
		Available:    true,
		Provider:     settings.Embedding.Provider,
		Model:        settings.Embedding.Model,
		EmbeddingDim: svc.Dimensions(),
	}
}

// reloadVisual builds and activates the visual service from settings
func (s *settingsService) reloadVisual(ctx context.Context, settings *domain.AISettings) driving.AIServiceStatus {
	if !settings.Visual.IsConfigured() {
		s.services.SetVisualService(nil)
		return driving.AIServiceStatus{Available: false}
	}

	svc, err := s.aiFactory.CreateVisualService(&settings.Visual)
	if err != nil || svc == nil {
		s.logger.Warn("failed to create visual service",
			"base_url", settings.Visual.BaseURL,
			"error", err)
		s.services.SetVisualService(nil)
		return driving.AIServiceStatus{Available: false}
	}
	if err := s.services.ValidateAndSetVisual(ctx, svc); err != nil {
		s.logger.Warn("visual service failed health check",
			"base_url", settings.Visual.BaseURL,
			"error", err)
		return driving.AIServiceStatus{Available: false}
	}

	return driving.AIServiceStatus{
		Available: true,
		Model:     settings.Visual.Model,
	}
}

// GetAIStatus returns the current status of AI services
func (s *settingsService) GetAIStatus(ctx context.Context) (*driving.AISettingsStatus, error) {
	settings, err := s.settingsStore.GetAISettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	return &driving.AISettingsStatus{
		Embedding:           s.currentEmbeddingStatus(settings),
		Visual:              s.currentVisualStatus(settings),
		EffectiveSearchMode: s.services.Config().EffectiveSearchMode(),
	}, nil
}

func (s *settingsService) currentEmbeddingStatus(settings *domain.AISettings) driving.AIServiceStatus {
	svc := s.services.EmbeddingService()
	if svc == nil {
		return driving.AIServiceStatus{Available: false}
	}
	return driving.AIServiceStatus{
		Available:    true,
		Provider:     settings.Embedding.Provider,
		Model:        svc.Model(),
		EmbeddingDim: svc.Dimensions(),
	}
}

func (s *settingsService) currentVisualStatus(settings *domain.AISettings) driving.AIServiceStatus {
	svc := s.services.VisualService()
	if svc == nil {
		return driving.AIServiceStatus{Available: false}
	}
	return driving.AIServiceStatus{
		Available: true,
		Model:     svc.Model(),
	}
}

// TestConnection tests the configured AI service connections
func (s *settingsService) TestConnection(ctx context.Context) error {
	embSvc := s.services.EmbeddingService()
	if embSvc != nil {
		if err := embSvc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding: %w", err)
		}
	}

	visualSvc := s.services.VisualService()
	if visualSvc != nil {
		if err := visualSvc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("visual: %w", err)
		}
	}

	return nil
}

// embeddingChanged reports whether the active embedding model differs in a
// way that invalidates stored vectors
func embeddingChanged(prev, next domain.EmbeddingSettings) bool {
	if !prev.IsConfigured() {
		return false
	}
	return prev.Provider != next.Provider || prev.Model != next.Model
}
