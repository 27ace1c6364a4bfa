package mocks

import (
	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Ensure MockAIServiceFactory implements AIServiceFactory
var _ driven.AIServiceFactory = (*MockAIServiceFactory)(nil)

// MockAIServiceFactory is a mock implementation of AIServiceFactory for
// testing. Created services are mock services named after the settings.
type MockAIServiceFactory struct {
	// EmbeddingErr / VisualErr make the corresponding Create call fail
	EmbeddingErr error
	VisualErr    error

	// EmbeddingHealthErr / VisualHealthErr seed created services with a
	// failing health check
	EmbeddingHealthErr error
	VisualHealthErr    error

	// LastEmbedding / LastVisual expose the most recently created service
	LastEmbedding *MockEmbeddingService
	LastVisual    *MockVisualEmbeddingService

	CreateEmbeddingCalls int
	CreateVisualCalls    int
}

// NewMockAIServiceFactory creates a new MockAIServiceFactory
func NewMockAIServiceFactory() *MockAIServiceFactory {
	return &MockAIServiceFactory{}
}

func (f *MockAIServiceFactory) CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	f.CreateEmbeddingCalls++
	if f.EmbeddingErr != nil {
		return nil, f.EmbeddingErr
	}
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc := NewMockEmbeddingService()
	if settings.Model != "" {
		svc.model = settings.Model
	}
	svc.healthErr = f.EmbeddingHealthErr
	f.LastEmbedding = svc
	return svc, nil
}

func (f *MockAIServiceFactory) CreateVisualService(settings *domain.VisualSettings) (driven.VisualEmbeddingService, error) {
	f.CreateVisualCalls++
	if f.VisualErr != nil {
		return nil, f.VisualErr
	}
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc := NewMockVisualEmbeddingService()
	if settings.Model != "" {
		svc.model = settings.Model
	}
	svc.healthErr = f.VisualHealthErr
	f.LastVisual = svc
	return svc, nil
}
