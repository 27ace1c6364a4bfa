package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// MockProgressStore is a mock implementation of ProgressStore for testing
type MockProgressStore struct {
	mu      sync.RWMutex
	records map[string]*domain.EmbeddingProgress

	// FailFor makes Get and GetBatch fail for specific object IDs,
	// simulating a partially unavailable store.
	FailFor map[string]error

	failNext error
}

// NewMockProgressStore creates a new MockProgressStore
func NewMockProgressStore() *MockProgressStore {
	return &MockProgressStore{
		records: make(map[string]*domain.EmbeddingProgress),
		FailFor: make(map[string]error),
	}
}

func (m *MockProgressStore) Get(ctx context.Context, objectID string) (*domain.EmbeddingProgress, error) {
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err, ok := m.FailFor[objectID]; ok {
		return nil, err
	}
	record, ok := m.records[objectID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *record
	return &copied, nil
}

func (m *MockProgressStore) GetBatch(ctx context.Context, objectIDs []string) (map[string]*domain.EmbeddingProgress, error) {
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string]*domain.EmbeddingProgress)
	for _, id := range objectIDs {
		if err, ok := m.FailFor[id]; ok {
			return nil, err
		}
		if record, ok := m.records[id]; ok {
			copied := *record
			result[id] = &copied
		}
	}
	return result, nil
}

func (m *MockProgressStore) Save(ctx context.Context, progress *domain.EmbeddingProgress) error {
	if err := m.takeFailure(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *progress
	if copied.LastUpdated.IsZero() {
		copied.LastUpdated = time.Now()
	}
	m.records[progress.ObjectID] = &copied
	return nil
}

func (m *MockProgressStore) ListStale(ctx context.Context, cutoff time.Time) ([]*domain.EmbeddingProgress, error) {
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var stale []*domain.EmbeddingProgress
	for _, record := range m.records {
		if record.InFlight() && record.LastUpdated.Before(cutoff) {
			copied := *record
			stale = append(stale, &copied)
		}
	}
	return stale, nil
}

func (m *MockProgressStore) Delete(ctx context.Context, objectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, objectID)
	return nil
}

// Helper methods for testing

func (m *MockProgressStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[string]*domain.EmbeddingProgress)
	m.FailFor = make(map[string]error)
}

// SetRecord seeds a progress record directly (for test setup)
func (m *MockProgressStore) SetRecord(record *domain.EmbeddingProgress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *record
	m.records[record.ObjectID] = &copied
}

// SetFailNext makes the next store call return the given error
func (m *MockProgressStore) SetFailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

func (m *MockProgressStore) takeFailure() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.failNext
	m.failNext = nil
	return err
}
