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

// Ensure VoyageEmbedding implements EmbeddingService
var _ driven.EmbeddingService = (*VoyageEmbedding)(nil)

// VoyageEmbedding implements EmbeddingService using Voyage AI's embedding
// API. Voyage models take an input type, so the question-form column uses
// query-mode embeddings of the passage rather than a text prefix.
type VoyageEmbedding struct {
	apiKey     string
	model      string
	baseURL    string
	dimensions int
	client     *http.Client
}

const voyageBaseURL = "https://api.voyageai.com/v1"

// Model dimensions for Voyage embedding models
var voyageModelDimensions = map[string]int{
	"voyage-3":       1024,
	"voyage-3-lite":  512,
	"voyage-large-2": 1536,
	"voyage-code-2":  1536,
}

// NewVoyageEmbedding creates a new Voyage embedding service
func NewVoyageEmbedding(apiKey, model string) (driven.EmbeddingService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Voyage API key is required")
	}

	if model == "" {
		model = "voyage-3"
	}

	dimensions, ok := voyageModelDimensions[model]
	if !ok {
		// Default to 1024 for unknown models
		dimensions = 1024
	}

	return &VoyageEmbedding{
		apiKey:     apiKey,
		model:      model,
		baseURL:    voyageBaseURL,
		dimensions: dimensions,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// voyageEmbedRequest is the request body for the Voyage embedding API
type voyageEmbedRequest struct {
	Input     []string `json:"input"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type,omitempty"` // "document" or "query"
}

// voyageEmbedResponse is the response from the Voyage embedding API
type voyageEmbedResponse struct {
	Object string          `json:"object"`
	Data   []embeddingData `json:"data"`
	Model  string          `json:"model"`
	Usage  struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Detail string `json:"detail,omitempty"` // error message on failure
}

// Embed generates content embeddings for multiple texts
func (e *VoyageEmbedding) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return e.embed(ctx, texts, "document")
}

// EmbedQA generates question-form embeddings for multiple texts
func (e *VoyageEmbedding) EmbedQA(ctx context.Context, texts []string) ([][]float32, error) {
	return e.embed(ctx, texts, "query")
}

// EmbedQuery generates an embedding for a search query, returning the
// token count Voyage billed for it
func (e *VoyageEmbedding) EmbedQuery(ctx context.Context, query string) ([]float32, int, error) {
	resp, err := e.doRequest(ctx, voyageEmbedRequest{
		Input:     []string{query},
		Model:     e.model,
		InputType: "query",
	})
	if err != nil {
		return nil, 0, err
	}
	if len(resp.Data) == 0 {
		return nil, 0, fmt.Errorf("no embedding returned for query")
	}
	return resp.Data[0].Embedding, resp.Usage.TotalTokens, nil
}

func (e *VoyageEmbedding) embed(ctx context.Context, texts []string, inputType string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.doRequest(ctx, voyageEmbedRequest{
		Input:     texts,
		Model:     e.model,
		InputType: inputType,
	})
	if err != nil {
		return nil, err
	}

	embeddings := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < len(embeddings) {
			embeddings[d.Index] = d.Embedding
		}
	}

	return embeddings, nil
}

// Dimensions returns the embedding dimension size
func (e *VoyageEmbedding) Dimensions() int {
	return e.dimensions
}

// Model returns the model name being used
func (e *VoyageEmbedding) Model() string {
	return e.model
}

// HealthCheck verifies the embedding service is available
func (e *VoyageEmbedding) HealthCheck(ctx context.Context) error {
	_, _, err := e.EmbedQuery(ctx, "health check")
	return err
}

// Close releases resources held by the embedding service
func (e *VoyageEmbedding) Close() error {
	e.client.CloseIdleConnections()
	return nil
}

// doRequest makes a request to the Voyage embedding API
func (e *VoyageEmbedding) doRequest(ctx context.Context, reqBody voyageEmbedRequest) (*voyageEmbedResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/embeddings", bytes.NewReader(body))
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

	var embResp voyageEmbedResponse
	if err := json.Unmarshal(respBody, &embResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if embResp.Detail != "" {
			return nil, fmt.Errorf("Voyage API error: %s", embResp.Detail)
		}
		return nil, fmt.Errorf("Voyage API returned status %d", resp.StatusCode)
	}

	return &embResp, nil
}
