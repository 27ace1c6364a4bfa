package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Ensure VisualEmbedding implements VisualEmbeddingService
var _ driven.VisualEmbeddingService = (*VisualEmbedding)(nil)

// VisualEmbedding implements VisualEmbeddingService against the
// self-hosted visual-retrieval inference sidecar. Page images go in as
// base64 PNG; each comes back as a bag of patch vectors for late
// interaction scoring.
type VisualEmbedding struct {
	model   string
	baseURL string
	client  *http.Client
}

// NewVisualEmbedding creates a client for the visual inference sidecar
func NewVisualEmbedding(baseURL, model string) (driven.VisualEmbeddingService, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("visual inference base URL is required")
	}

	return &VisualEmbedding{
		model:   model,
		baseURL: baseURL,
		client: &http.Client{
			// Page inference dominates per-document latency
			Timeout: 120 * time.Second,
		},
	}, nil
}

// visualPagesRequest is the request body for the page embedding endpoint
type visualPagesRequest struct {
	Model  string   `json:"model,omitempty"`
	Images []string `json:"images"` // base64-encoded PNG
}

// visualPagesResponse is the response from the page embedding endpoint
type visualPagesResponse struct {
	Embeddings [][][]float32 `json:"embeddings"`
	Error      string        `json:"error,omitempty"`
}

// visualQueryRequest is the request body for the query embedding endpoint
type visualQueryRequest struct {
	Model string `json:"model,omitempty"`
	Query string `json:"query"`
}

// visualQueryResponse is the response from the query embedding endpoint
type visualQueryResponse struct {
	Embedding [][]float32 `json:"embedding"`
	Error     string      `json:"error,omitempty"`
}

// EmbedPages generates one multi-vector embedding per page image
func (v *VisualEmbedding) EmbedPages(ctx context.Context, images [][]byte) ([][][]float32, error) {
	if len(images) == 0 {
		return nil, nil
	}

	encoded := make([]string, len(images))
	for i, img := range images {
		encoded[i] = base64.StdEncoding.EncodeToString(img)
	}

	reqBody := visualPagesRequest{
		Model:  v.model,
		Images: encoded,
	}

	var resp visualPagesResponse
	if err := v.doRequest(ctx, "/embed/pages", reqBody, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("visual inference error: %s", resp.Error)
	}

	if len(resp.Embeddings) != len(images) {
		return nil, fmt.Errorf("expected %d page embeddings, got %d", len(images), len(resp.Embeddings))
	}

	return resp.Embeddings, nil
}

// EmbedQuery generates the multi-vector embedding for a query string
func (v *VisualEmbedding) EmbedQuery(ctx context.Context, query string) ([][]float32, error) {
	reqBody := visualQueryRequest{
		Model: v.model,
		Query: query,
	}

	var resp visualQueryResponse
	if err := v.doRequest(ctx, "/embed/query", reqBody, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("visual inference error: %s", resp.Error)
	}

	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	return resp.Embedding, nil
}

// Model returns the model name being used
func (v *VisualEmbedding) Model() string {
	return v.model
}

// HealthCheck verifies the sidecar is reachable.
// Uses the sidecar's health endpoint rather than a live inference call,
// which would pull the model into memory.
func (v *VisualEmbedding) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", v.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("visual inference unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("visual inference health returned status %d", resp.StatusCode)
	}
	return nil
}

// Close releases resources held by the client
func (v *VisualEmbedding) Close() error {
	v.client.CloseIdleConnections()
	return nil
}

// doRequest posts a JSON body to a sidecar endpoint and decodes the response
func (v *VisualEmbedding) doRequest(ctx context.Context, path string, reqBody, out any) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", v.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("visual inference error: %s", apiErr.Error)
		}
		return fmt.Errorf("visual inference returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
