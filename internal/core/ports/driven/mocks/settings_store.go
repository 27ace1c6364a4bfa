package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// MockSettingsStore is a mock implementation of SettingsStore for testing
type MockSettingsStore struct {
	mu       sync.RWMutex
	settings *domain.AISettings
	failNext error

	SaveCalls int
}

// NewMockSettingsStore creates a new MockSettingsStore
func NewMockSettingsStore() *MockSettingsStore {
	return &MockSettingsStore{}
}

func (m *MockSettingsStore) GetAISettings(ctx context.Context) (*domain.AISettings, error) {
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settings == nil {
		return &domain.AISettings{}, nil
	}
	settings := *m.settings
	return &settings, nil
}

func (m *MockSettingsStore) SaveAISettings(ctx context.Context, settings *domain.AISettings) error {
	if err := m.takeFailure(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := *settings
	m.settings = &saved
	m.SaveCalls++
	return nil
}

// Helper methods for testing

func (m *MockSettingsStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = nil
	m.failNext = nil
	m.SaveCalls = 0
}

// SetSettings seeds stored settings directly (for test setup)
func (m *MockSettingsStore) SetSettings(settings *domain.AISettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seeded := *settings
	m.settings = &seeded
}

// SetFailNext makes the next store call return the given error
func (m *MockSettingsStore) SetFailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

func (m *MockSettingsStore) takeFailure() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.failNext
	m.failNext = nil
	return err
}
