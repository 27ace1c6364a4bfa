package ai

import (
	"testing"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

func TestNewFactory(t *testing.T) {
	factory := NewFactory()
	if factory == nil {
		t.Fatal("expected non-nil factory")
	}
}

func TestFactory_CreateEmbeddingService_NilSettings(t *testing.T) {
	factory := NewFactory()

	svc, err := factory.CreateEmbeddingService(nil)
	if err != nil {
		t.Errorf("expected no error for nil settings, got %v", err)
	}
	if svc != nil {
		t.Error("expected nil service for nil settings")
	}
}

func TestFactory_CreateEmbeddingService_NotConfigured(t *testing.T) {
	factory := NewFactory()

	settings := &domain.EmbeddingSettings{
		Provider: "",
		Model:    "",
		APIKey:   "",
	}

	svc, err := factory.CreateEmbeddingService(settings)
	if err != nil {
		t.Errorf("expected no error for unconfigured settings, got %v", err)
	}
	if svc != nil {
		t.Error("expected nil service for unconfigured settings")
	}
}

func TestFactory_CreateEmbeddingService_Providers(t *testing.T) {
	testCases := []struct {
		name     string
		settings *domain.EmbeddingSettings
	}{
		{
			name: "openai",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				Model:    "text-embedding-3-small",
				APIKey:   "sk-test",
			},
		},
		{
			name: "ollama",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				Model:    "nomic-embed-text",
				BaseURL:  "http://localhost:11434",
			},
		},
		{
			name: "voyage",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderVoyage,
				Model:    "voyage-3",
				APIKey:   "test-key",
			},
		},
		{
			name: "cohere",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderCohere,
				Model:    "embed-english-v3.0",
				APIKey:   "test-key",
			},
		},
	}

	factory := NewFactory()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, err := factory.CreateEmbeddingService(tc.settings)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if svc == nil {
				t.Fatal("expected non-nil service")
			}
			if svc.Model() != tc.settings.Model {
				t.Errorf("expected model %s, got %s", tc.settings.Model, svc.Model())
			}
		})
	}
}

func TestFactory_CreateEmbeddingService_MissingAPIKey(t *testing.T) {
	factory := NewFactory()

	// Providers that require an API key are treated as unconfigured without one
	settings := &domain.EmbeddingSettings{
		Provider: domain.AIProviderVoyage,
		Model:    "voyage-3",
	}

	svc, err := factory.CreateEmbeddingService(settings)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if svc != nil {
		t.Error("expected nil service when API key is missing")
	}
}

func TestFactory_CreateEmbeddingService_InvalidProvider(t *testing.T) {
	factory := NewFactory()

	settings := &domain.EmbeddingSettings{
		Provider: "invalid-provider",
		Model:    "some-model",
		APIKey:   "test-key",
	}

	_, err := factory.CreateEmbeddingService(settings)
	if err == nil {
		t.Error("expected error for invalid provider")
	}
}

func TestFactory_CreateVisualService_NilSettings(t *testing.T) {
	factory := NewFactory()

	svc, err := factory.CreateVisualService(nil)
	if err != nil {
		t.Errorf("expected no error for nil settings, got %v", err)
	}
	if svc != nil {
		t.Error("expected nil service for nil settings")
	}
}

func TestFactory_CreateVisualService_NotConfigured(t *testing.T) {
	factory := NewFactory()

	settings := &domain.VisualSettings{
		Model:   "colpali-v1.2",
		BaseURL: "",
	}

	svc, err := factory.CreateVisualService(settings)
	if err != nil {
		t.Errorf("expected no error for unconfigured settings, got %v", err)
	}
	if svc != nil {
		t.Error("expected nil service without a base URL")
	}
}

func TestFactory_CreateVisualService_Configured(t *testing.T) {
	factory := NewFactory()

	settings := &domain.VisualSettings{
		Model:   "colpali-v1.2",
		BaseURL: "http://localhost:8500",
	}

	svc, err := factory.CreateVisualService(settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc == nil {
		t.Fatal("expected non-nil service")
	}
	if svc.Model() != "colpali-v1.2" {
		t.Errorf("expected model colpali-v1.2, got %s", svc.Model())
	}
}
