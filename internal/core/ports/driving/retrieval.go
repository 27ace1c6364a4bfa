package driving

import (
	"context"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// RetrievalService answers search queries over embedded documents.
// Every search is scoped to the documents the calling user can access;
// denied document IDs are reported, never silently dropped.
type RetrievalService interface {
	// DualRetrieve runs the dual-column nearest-neighbor retrieval: one
	// top-k pass over content embeddings and one over question-form
	// embeddings, concatenated in that order without deduplication.
	//
	// It first waits, bounded by a deadline, for the given documents'
	// embeddings to become ready, queueing any that were never submitted;
	// it returns domain.ErrEmbeddingNotReady if they are not ready in time.
	DualRetrieve(ctx context.Context, userInput string, accessibleIDs []string, limit int) ([]*domain.RankedChunk, error)

	// Search runs a search in the requested mode.
	//
	// For modes that need text embeddings the service first waits,
	// bounded by a deadline, for the requested documents' embeddings to
	// become ready; it returns domain.ErrEmbeddingNotReady if they are
	// not ready in time.
	Search(ctx context.Context, userID string, req *domain.SearchRequest) (*domain.SearchResult, error)
}
