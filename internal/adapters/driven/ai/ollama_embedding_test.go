package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewOllamaEmbedding_Defaults(t *testing.T) {
	svc, err := NewOllamaEmbedding("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	emb := svc.(*OllamaEmbedding)
	if emb.baseURL != "http://localhost:11434" {
		t.Errorf("expected default base URL, got %s", emb.baseURL)
	}
	if emb.model != "nomic-embed-text" {
		t.Errorf("expected default model nomic-embed-text, got %s", emb.model)
	}
	if svc.Dimensions() != 768 {
		t.Errorf("expected 768 dimensions, got %d", svc.Dimensions())
	}
}

func TestOllamaEmbedding_Dimensions(t *testing.T) {
	testCases := []struct {
		model      string
		dimensions int
	}{
		{"nomic-embed-text", 768},
		{"mxbai-embed-large", 1024},
		{"all-minilm", 384},
		{"unknown-model", 768}, // defaults to 768
	}

	for _, tc := range testCases {
		t.Run(tc.model, func(t *testing.T) {
			svc, err := NewOllamaEmbedding("", tc.model)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if svc.Dimensions() != tc.dimensions {
				t.Errorf("expected dimensions %d, got %d", tc.dimensions, svc.Dimensions())
			}
		})
	}
}

func TestOllamaEmbedding_Embed_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("expected /api/embed, got %s", r.URL.Path)
		}

		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Model != "nomic-embed-text" {
			t.Errorf("expected model nomic-embed-text, got %s", req.Model)
		}

		resp := ollamaEmbedResponse{
			Model:      req.Model,
			Embeddings: [][]float32{{0.1, 0.2}, {0.3, 0.4}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc, err := NewOllamaEmbedding(server.URL, "nomic-embed-text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Embed(context.Background(), []string{"hello", "world"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result) != 2 {
		t.Errorf("expected 2 embeddings, got %d", len(result))
	}
	if result[1][1] != 0.4 {
		t.Error("unexpected embedding values")
	}
}

func TestOllamaEmbedding_Embed_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := ollamaEmbedResponse{
			Embeddings: [][]float32{{0.1}}, // one embedding for two inputs
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc, err := NewOllamaEmbedding(server.URL, "nomic-embed-text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Embed(context.Background(), []string{"hello", "world"})
	if err == nil {
		t.Error("expected error for embedding count mismatch")
	}
}

func TestOllamaEmbedding_EmbedQA_PrefixesTexts(t *testing.T) {
	var gotInputs []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		gotInputs = req.Input

		resp := ollamaEmbedResponse{
			Embeddings: make([][]float32, len(req.Input)),
		}
		for i := range resp.Embeddings {
			resp.Embeddings[i] = []float32{0.1}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc, err := NewOllamaEmbedding(server.URL, "nomic-embed-text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.EmbedQA(context.Background(), []string{"a passage"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gotInputs) != 1 || !strings.HasPrefix(gotInputs[0], qaPrefix) {
		t.Errorf("expected question-prefixed input, got %v", gotInputs)
	}
}

func TestOllamaEmbedding_Embed_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(ollamaEmbedResponse{Error: "model not found"})
	}))
	defer server.Close()

	svc, err := NewOllamaEmbedding(server.URL, "missing-model")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Embed(context.Background(), []string{"test"})
	if err == nil {
		t.Error("expected error for API error response")
	}
}
