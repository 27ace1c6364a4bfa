package mocks

import (
	"context"
	"hash/fnv"
)

// MockEmbeddingService is a mock implementation of EmbeddingService for testing
type MockEmbeddingService struct {
	dimensions int
	model      string
	failNext   bool
	healthErr  error

	// Call counters for test assertions
	EmbedCalls      int
	EmbedQACalls    int
	EmbedQueryCalls int
}

// NewMockEmbeddingService creates a new MockEmbeddingService
func NewMockEmbeddingService() *MockEmbeddingService {
	return &MockEmbeddingService{
		dimensions: 384,
		model:      "mock-embedding-model",
	}
}

func (m *MockEmbeddingService) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	m.EmbedCalls++
	if m.failNext {
		m.failNext = false
		return nil, context.DeadlineExceeded
	}

	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = m.generateEmbedding(text)
	}
	return result, nil
}

func (m *MockEmbeddingService) EmbedQA(ctx context.Context, texts []string) ([][]float32, error) {
	m.EmbedQACalls++
	if m.failNext {
		m.failNext = false
		return nil, context.DeadlineExceeded
	}

	result := make([][]float32, len(texts))
	for i, text := range texts {
		// Prefix keeps QA vectors distinct from content vectors
		result[i] = m.generateEmbedding("qa:" + text)
	}
	return result, nil
}

func (m *MockEmbeddingService) EmbedQuery(ctx context.Context, query string) ([]float32, int, error) {
	m.EmbedQueryCalls++
	if m.failNext {
		m.failNext = false
		return nil, 0, context.DeadlineExceeded
	}
	return m.generateEmbedding(query), len(query) / 4, nil
}

func (m *MockEmbeddingService) Dimensions() int {
	return m.dimensions
}

func (m *MockEmbeddingService) Model() string {
	return m.model
}

func (m *MockEmbeddingService) HealthCheck(ctx context.Context) error {
	return m.healthErr
}

func (m *MockEmbeddingService) Close() error {
	return nil
}

// generateEmbedding generates a deterministic embedding based on text hash
func (m *MockEmbeddingService) generateEmbedding(text string) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	embedding := make([]float32, m.dimensions)
	for i := range embedding {
		// Generate deterministic pseudo-random values
		seed = seed*1103515245 + 12345
		embedding[i] = float32(seed%1000) / 1000.0
	}
	return embedding
}

// Helper methods for testing

func (m *MockEmbeddingService) SetFailNext(fail bool) {
	m.failNext = fail
}

func (m *MockEmbeddingService) SetDimensions(dim int) {
	m.dimensions = dim
}

// SetHealthError makes HealthCheck return the given error
func (m *MockEmbeddingService) SetHealthError(err error) {
	m.healthErr = err
}

// MockVisualEmbeddingService is a mock implementation of
// VisualEmbeddingService for testing
type MockVisualEmbeddingService struct {
	vectorsPerPage int
	dimensions     int
	model          string
	failNext       bool
	healthErr      error

	// FailPages makes EmbedPages fail for specific page indexes
	FailPages map[int]bool

	EmbedPagesCalls int
}

// NewMockVisualEmbeddingService creates a new MockVisualEmbeddingService
func NewMockVisualEmbeddingService() *MockVisualEmbeddingService {
	return &MockVisualEmbeddingService{
		vectorsPerPage: 4,
		dimensions:     16,
		model:          "mock-visual-model",
	}
}

func (m *MockVisualEmbeddingService) EmbedPages(ctx context.Context, images [][]byte) ([][][]float32, error) {
	m.EmbedPagesCalls++
	if m.failNext {
		m.failNext = false
		return nil, context.DeadlineExceeded
	}

	result := make([][][]float32, len(images))
	for i, img := range images {
		vectors := make([][]float32, m.vectorsPerPage)
		for v := range vectors {
			vectors[v] = m.generateVector(img, v)
		}
		result[i] = vectors
	}
	return result, nil
}

func (m *MockVisualEmbeddingService) EmbedQuery(ctx context.Context, query string) ([][]float32, error) {
	if m.failNext {
		m.failNext = false
		return nil, context.DeadlineExceeded
	}

	vectors := make([][]float32, m.vectorsPerPage)
	for v := range vectors {
		vectors[v] = m.generateVector([]byte(query), v)
	}
	return vectors, nil
}

func (m *MockVisualEmbeddingService) Model() string {
	return m.model
}

func (m *MockVisualEmbeddingService) HealthCheck(ctx context.Context) error {
	return m.healthErr
}

func (m *MockVisualEmbeddingService) Close() error {
	return nil
}

func (m *MockVisualEmbeddingService) generateVector(data []byte, salt int) []float32 {
	h := fnv.New32a()
	h.Write(data)
	h.Write([]byte{byte(salt)})
	seed := h.Sum32()

	vector := make([]float32, m.dimensions)
	for i := range vector {
		seed = seed*1103515245 + 12345
		vector[i] = float32(seed%1000) / 1000.0
	}
	return vector
}

// Helper methods for testing

func (m *MockVisualEmbeddingService) SetFailNext(fail bool) {
	m.failNext = fail
}

// SetHealthError makes HealthCheck return the given error
func (m *MockVisualEmbeddingService) SetHealthError(err error) {
	m.healthErr = err
}
