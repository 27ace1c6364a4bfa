package mocks

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// MockObjectStore is a mock implementation of ObjectStore for testing
type MockObjectStore struct {
	mu       sync.RWMutex
	objects  map[string][]byte // bucket/key -> data
	failNext error
}

// NewMockObjectStore creates a new MockObjectStore
func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{
		objects: make(map[string][]byte),
	}
}

func (m *MockObjectStore) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MockObjectStore) Put(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	if err := m.takeFailure(); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = data
	return nil
}

func (m *MockObjectStore) Delete(ctx context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, bucket+"/"+key)
	return nil
}

func (m *MockObjectStore) Exists(ctx context.Context, bucket, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[bucket+"/"+key]
	return ok, nil
}

func (m *MockObjectStore) Ping(ctx context.Context) error {
	return nil
}

// Helper methods for testing

func (m *MockObjectStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects = make(map[string][]byte)
}

// SetObject seeds an object directly (for test setup)
func (m *MockObjectStore) SetObject(bucket, key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = data
}

// GetObject returns a stored object's bytes (for test assertions)
func (m *MockObjectStore) GetObject(bucket, key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[bucket+"/"+key]
	return data, ok
}

func (m *MockObjectStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// SetFailNext makes the next store call return the given error
func (m *MockObjectStore) SetFailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

func (m *MockObjectStore) takeFailure() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.failNext
	m.failNext = nil
	return err
}
