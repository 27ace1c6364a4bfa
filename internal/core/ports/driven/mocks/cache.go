package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// MockCache is a mock implementation of Cache for testing
type MockCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry

	GetCalls int
	SetCalls int
}

type cacheEntry struct {
	value  []byte
	expiry time.Time
}

// NewMockCache creates a new MockCache
func NewMockCache() *MockCache {
	return &MockCache{
		entries: make(map[string]cacheEntry),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	entry, ok := m.entries[key]
	if !ok || time.Now().After(entry.expiry) {
		return nil, domain.ErrNotFound
	}
	return entry.value, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	m.entries[key] = cacheEntry{value: value, expiry: time.Now().Add(ttl)}
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *MockCache) Ping(ctx context.Context) error {
	return nil
}

func (m *MockCache) Close() error {
	return nil
}

// Helper methods for testing

func (m *MockCache) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]cacheEntry)
	m.GetCalls = 0
	m.SetCalls = 0
}
