package driven

import (
	"context"
)

// EmbeddingService generates text embeddings
type EmbeddingService interface {
	// Embed generates content embeddings for multiple texts
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQA generates question-form embeddings for multiple texts.
	// These are stored alongside content embeddings so that a query can be
	// matched against both representations.
	EmbedQA(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a search query, returning the
	// provider-reported token count for the call (0 when the provider does
	// not report usage).
	// May use different model/parameters optimized for queries
	EmbedQuery(ctx context.Context, query string) ([]float32, int, error)

	// Dimensions returns the embedding dimension size
	Dimensions() int

	// Model returns the model name being used
	Model() string

	// HealthCheck verifies the embedding service is available
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the embedding service
	Close() error
}

// VisualEmbeddingService generates multi-vector page embeddings for
// visual document retrieval. Each page image maps to a bag of patch
// vectors; queries map to a bag of token vectors scored with MaxSim.
type VisualEmbeddingService interface {
	// EmbedPages generates one multi-vector embedding per page image (PNG bytes)
	EmbedPages(ctx context.Context, images [][]byte) ([][][]float32, error)

	// EmbedQuery generates the multi-vector embedding for a query string
	EmbedQuery(ctx context.Context, query string) ([][]float32, error)

	// Model returns the model name being used
	Model() string

	// HealthCheck verifies the visual embedding service is available
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the service
	Close() error
}
