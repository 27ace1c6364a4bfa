package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// MockChunkStore is a mock implementation of ChunkStore for testing.
// Dense searches score stored embeddings with a real inner product so
// retrieval tests can assert ranking behavior.
type MockChunkStore struct {
	mu       sync.RWMutex
	bySrc    map[string][]*domain.Chunk
	failNext error
}

// NewMockChunkStore creates a new MockChunkStore
func NewMockChunkStore() *MockChunkStore {
	return &MockChunkStore{
		bySrc: make(map[string][]*domain.Chunk),
	}
}

func (m *MockChunkStore) SaveBatch(ctx context.Context, chunks []*domain.Chunk) error {
	if err := m.takeFailure(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, chunk := range chunks {
		found := false
		for i, c := range m.bySrc[chunk.Src] {
			if c.ID == chunk.ID {
				m.bySrc[chunk.Src][i] = chunk
				found = true
				break
			}
		}
		if !found {
			m.bySrc[chunk.Src] = append(m.bySrc[chunk.Src], chunk)
		}
	}
	return nil
}

func (m *MockChunkStore) DeleteSurplus(ctx context.Context, src string, keep int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.Chunk
	for _, c := range m.bySrc[src] {
		if c.ID < keep {
			kept = append(kept, c)
		}
	}
	m.bySrc[src] = kept
	return nil
}

func (m *MockChunkStore) GetBySrc(ctx context.Context, src string) ([]*domain.Chunk, error) {
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	chunks := append([]*domain.Chunk(nil), m.bySrc[src]...)
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].ID < chunks[j].ID })
	return chunks, nil
}

func (m *MockChunkStore) GetBySrcs(ctx context.Context, srcs []string) ([]*domain.Chunk, error) {
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var chunks []*domain.Chunk
	for _, src := range srcs {
		chunks = append(chunks, m.bySrc[src]...)
	}
	return chunks, nil
}

func (m *MockChunkStore) CountBySrc(ctx context.Context, src string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bySrc[src]), nil
}

func (m *MockChunkStore) SearchDense(ctx context.Context, embedding []float32, srcs []string, topK int) ([]*domain.RankedChunk, error) {
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	return m.search(embedding, srcs, topK, func(c *domain.Chunk) []float32 { return c.Embedding }), nil
}

func (m *MockChunkStore) SearchQA(ctx context.Context, embedding []float32, srcs []string, topK int) ([]*domain.RankedChunk, error) {
	if err := m.takeFailure(); err != nil {
		return nil, err
	}
	return m.search(embedding, srcs, topK, func(c *domain.Chunk) []float32 { return c.QAEmbedding }), nil
}

func (m *MockChunkStore) search(embedding []float32, srcs []string, topK int, vec func(*domain.Chunk) []float32) []*domain.RankedChunk {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ranked []*domain.RankedChunk
	for _, src := range srcs {
		for _, c := range m.bySrc[src] {
			v := vec(c)
			if v == nil {
				continue
			}
			ranked = append(ranked, &domain.RankedChunk{Chunk: *c, Score: innerProduct(embedding, v)})
		}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

func (m *MockChunkStore) DeleteBySrc(ctx context.Context, src string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bySrc, src)
	return nil
}

func innerProduct(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Helper methods for testing

func (m *MockChunkStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bySrc = make(map[string][]*domain.Chunk)
}

func (m *MockChunkStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, chunks := range m.bySrc {
		n += len(chunks)
	}
	return n
}

// SetFailNext makes the next store call return the given error
func (m *MockChunkStore) SetFailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}

func (m *MockChunkStore) takeFailure() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	err := m.failNext
	m.failNext = nil
	return err
}
