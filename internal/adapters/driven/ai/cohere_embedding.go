package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Ensure CohereEmbedding implements EmbeddingService
var _ driven.EmbeddingService = (*CohereEmbedding)(nil)

// CohereEmbedding implements EmbeddingService using Cohere's embed API.
// Like Voyage, Cohere models take an input type, so the question-form
// column uses search_query embeddings of the passage.
type CohereEmbedding struct {
	apiKey     string
	model      string
	baseURL    string
	dimensions int
	client     *http.Client
}

const cohereBaseURL = "https://api.cohere.com/v1"

// Model dimensions for Cohere embedding models
var cohereModelDimensions = map[string]int{
	"embed-english-v3.0":            1024,
	"embed-multilingual-v3.0":       1024,
	"embed-english-light-v3.0":      384,
	"embed-multilingual-light-v3.0": 384,
}

// NewCohereEmbedding creates a new Cohere embedding service
func NewCohereEmbedding(apiKey, model string) (driven.EmbeddingService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Cohere API key is required")
	}

	if model == "" {
		model = "embed-english-v3.0"
	}

	dimensions, ok := cohereModelDimensions[model]
	if !ok {
		// Default to 1024 for unknown models
		dimensions = 1024
	}

	return &CohereEmbedding{
		apiKey:     apiKey,
		model:      model,
		baseURL:    cohereBaseURL,
		dimensions: dimensions,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// cohereEmbedRequest is the request body for the Cohere embed API
type cohereEmbedRequest struct {
	Texts     []string `json:"texts"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type"` // "search_document" or "search_query"
	Truncate  string   `json:"truncate,omitempty"`
}

// cohereEmbedResponse is the response from the Cohere embed API
type cohereEmbedResponse struct {
	ID         string      `json:"id"`
	Embeddings [][]float32 `json:"embeddings"`
	Meta       struct {
		BilledUnits struct {
			InputTokens int `json:"input_tokens"`
		} `json:"billed_units"`
	} `json:"meta"`
	Message string `json:"message,omitempty"` // error message on failure
}

// Embed generates content embeddings for multiple texts
func (e *CohereEmbedding) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return e.embed(ctx, texts, "search_document")
}

// EmbedQA generates question-form embeddings for multiple texts
func (e *CohereEmbedding) EmbedQA(ctx context.Context, texts []string) ([][]float32, error) {
	return e.embed(ctx, texts, "search_query")
}

// EmbedQuery generates an embedding for a search query, returning the
// input token count Cohere billed for it
func (e *CohereEmbedding) EmbedQuery(ctx context.Context, query string) ([]float32, int, error) {
	resp, err := e.doRequest(ctx, cohereEmbedRequest{
		Texts:     []string{query},
		Model:     e.model,
		InputType: "search_query",
		Truncate:  "END",
	})
	if err != nil {
		return nil, 0, err
	}
	if len(resp.Embeddings) == 0 {
		return nil, 0, fmt.Errorf("no embedding returned for query")
	}
	return resp.Embeddings[0], resp.Meta.BilledUnits.InputTokens, nil
}

func (e *CohereEmbedding) embed(ctx context.Context, texts []string, inputType string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.doRequest(ctx, cohereEmbedRequest{
		Texts:     texts,
		Model:     e.model,
		InputType: inputType,
		Truncate:  "END",
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}

	return resp.Embeddings, nil
}

// Dimensions returns the embedding dimension size
func (e *CohereEmbedding) Dimensions() int {
	return e.dimensions
}

// Model returns the model name being used
func (e *CohereEmbedding) Model() string {
	return e.model
}

// HealthCheck verifies the embedding service is available
func (e *CohereEmbedding) HealthCheck(ctx context.Context) error {
	_, _, err := e.EmbedQuery(ctx, "health check")
	return err
}

// Close releases resources held by the embedding service
func (e *CohereEmbedding) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

// doRequest makes a request to the Cohere embed API
func (e *CohereEmbedding) doRequest(ctx context.Context, reqBody cohereEmbedRequest) (*cohereEmbedResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var embResp cohereEmbedResponse
	if err := json.Unmarshal(respBody, &embResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if embResp.Message != "" {
			return nil, fmt.Errorf("Cohere API error: %s", embResp.Message)
		}
		return nil, fmt.Errorf("Cohere API returned status %d", resp.StatusCode)
	}

	return &embResp, nil
}
