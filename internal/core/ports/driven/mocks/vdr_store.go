package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// MockVDRStore is a mock implementation of VDRStore for testing
type MockVDRStore struct {
	mu         sync.RWMutex
	byDocument map[string][]*domain.VDRPage
	failNext   error
}

// NewMockVDRStore creates a new MockVDRStore
func NewMockVDRStore() *MockVDRStore {
	return &MockVDRStore{
		byDocument: make(map[string][]*domain.VDRPage),
	}
}

func (m *MockVDRStore) SavePages(ctx context.Context, pages []*domain.VDRPage) error {
	if err := m.takeFailure(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, page := range pages {
		found := false
		for i, p := range m.byDocument[page.DocumentID] {
			if p.PageNum == page.PageNum {
				m.byDocument[page.DocumentID][i] = page
				found = true
				break
			}
		}
		if !found {
			m.byDocument[page.DocumentID] = append(m.byDocument[page.DocumentID], page)
		}
	}
	return nil
}

func (m *MockVDRStore) GetPagesByDocuments(ctx context.Context, documentIDs []string) ([]*domain.VDRPage, error) {
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var pages []*domain.VDRPage
	for _, id := range documentIDs {
		pages = append(pages, m.byDocument[id]...)
	}
	sort.Slice(pages, func(i, j int) bool {
		if pages[i].DocumentID != pages[j].DocumentID {
			return pages[i].DocumentID < pages[j].DocumentID
		}
		return pages[i].PageNum < pages[j].PageNum
	})
	return pages, nil
}

func (m *MockVDRStore) CountByDocument(ctx context.Context, documentID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byDocument[documentID]), nil
}

func (m *MockVDRStore) DeleteByDocument(ctx context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byDocument, documentID)
	return nil
}

// Helper methods for testing

func (m *MockVDRStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byDocument = make(map[string][]*domain.VDRPage)
}

// SetFailNext makes the next store call return the given error
func (m *MockVDRStore) SetFailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

func (m *MockVDRStore) takeFailure() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.failNext
	m.failNext = nil
	return err
}
