package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driving"
	"github.com/custodia-labs/vectra-core/internal/ranking"
	"github.com/custodia-labs/vectra-core/internal/runtime"
)

const (
	// defaultPollInterval is how often the readiness wait re-checks progress
	defaultPollInterval = 3 * time.Second

	// defaultPollDeadline bounds how long a retrieval call waits for
	// embeddings before giving up with ErrEmbeddingNotReady
	defaultPollDeadline = 120 * time.Second

	// queryEmbeddingTTL is how long a query embedding stays cached
	queryEmbeddingTTL = 10 * time.Minute
)

// Ensure retrievalService implements RetrievalService
var _ driving.RetrievalService = (*retrievalService)(nil)

// retrievalService implements the RetrievalService interface
type retrievalService struct {
	chunkStore driven.ChunkStore
	vdrStore   driven.VDRStore
	progress   driving.ProgressService
	access     driving.AccessService
	services   *runtime.Services // Dynamic AI services
	cache      driven.Cache
	logger     *slog.Logger

	pollInterval time.Duration
	pollDeadline time.Duration
}

// RetrievalConfig wires a retrieval service. Cache is optional; without it
// every search embeds its query fresh.
type RetrievalConfig struct {
	ChunkStore driven.ChunkStore
	VDRStore   driven.VDRStore
	Progress   driving.ProgressService
	Access     driving.AccessService
	Services   *runtime.Services
	Cache      driven.Cache
	Logger     *slog.Logger

	// PollInterval and PollDeadline bound the embedding readiness wait.
	// Zero values use the defaults.
	PollInterval time.Duration
	PollDeadline time.Duration
}

// NewRetrievalService creates a new RetrievalService.
// AI services are accessed dynamically via runtime.Services.
func NewRetrievalService(config RetrievalConfig) driving.RetrievalService {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaultPollInterval
	}
	if config.PollDeadline <= 0 {
		config.PollDeadline = defaultPollDeadline
	}
	return &retrievalService{
		chunkStore:   config.ChunkStore,
		vdrStore:     config.VDRStore,
		progress:     config.Progress,
		access:       config.Access,
		services:     config.Services,
		cache:        config.Cache,
		logger:       config.Logger,
		pollInterval: config.PollInterval,
		pollDeadline: config.PollDeadline,
	}
}

// DualRetrieve runs the two nearest-neighbor passes and concatenates them:
// content-embedding hits first, then question-form hits, no deduplication.
// Callers are expected to have classified access already.
func (s *retrievalService) DualRetrieve(ctx context.Context, userInput string, accessibleIDs []string, limit int) ([]*domain.RankedChunk, error) {
	if userInput == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	ids := normalizeIDs(accessibleIDs)
	if len(ids) == 0 {
		return []*domain.RankedChunk{}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	if err := s.waitForEmbeddings(ctx, ids); err != nil {
		return nil, err
	}

	embedding, err := s.embedQuery(ctx, userInput)
	if err != nil {
		return nil, err
	}

	dense, err := s.chunkStore.SearchDense(ctx, embedding, ids, limit)
	if err != nil {
		return nil, fmt.Errorf("dense search: %w", err)
	}
	qa, err := s.chunkStore.SearchQA(ctx, embedding, ids, limit)
	if err != nil {
		return nil, fmt.Errorf("qa search: %w", err)
	}

	return append(dense, qa...), nil
}

// Search runs a search in the requested mode, degraded to what current
// capabilities can serve
func (s *retrievalService) Search(ctx context.Context, userID string, req *domain.SearchRequest) (*domain.SearchResult, error) {
	start := time.Now()

	if req == nil || req.Query == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	ids := normalizeIDs(req.DocumentIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: document_ids are required", domain.ErrInvalidInput)
	}
	req.ApplyDefaults()
	if !req.Mode.IsValid() {
		return nil, fmt.Errorf("%w: unknown search mode %q", domain.ErrInvalidInput, req.Mode)
	}

	mode, err := s.effectiveMode(req.Mode)
	if err != nil {
		return nil, err
	}

	decision, err := s.access.Classify(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("classify access: %w", err)
	}

	result := &domain.SearchResult{
		Results:      []domain.SearchHit{},
		Mode:         mode,
		AccessDenied: decision.Denied,
	}
	if len(decision.Accessible) == 0 {
		result.Took = time.Since(start)
		return result, nil
	}
	srcs := decision.Accessible

	if mode.RequiresEmbedding() {
		if err := s.waitForEmbeddings(ctx, srcs); err != nil {
			return nil, err
		}
	}

	var hits []domain.SearchHit
	switch mode {
	case domain.SearchModeDense:
		hits, err = s.searchDense(ctx, req.Query, srcs, req.TopK)
	case domain.SearchModeSparse:
		hits, err = s.searchSparse(ctx, req.Query, srcs, req.TopK)
	case domain.SearchModeHybrid:
		hits, err = s.searchHybrid(ctx, req, srcs)
	case domain.SearchModeVisual:
		hits, err = s.searchVisual(ctx, req.Query, srcs, req.TopK)
	case domain.SearchModeBlended:
		hits, err = s.searchBlended(ctx, req, srcs)
	}
	if err != nil {
		return nil, err
	}

	result.Results = hits
	result.TotalResults = len(hits)
	result.Took = time.Since(start)
	return result, nil
}

// effectiveMode degrades the requested mode to what current capabilities can
// serve. Text modes fall back to sparse; blended drops whichever side is
// missing. A visual request cannot degrade: pages are only reachable through
// the visual scorer.
func (s *retrievalService) effectiveMode(requested domain.SearchMode) (domain.SearchMode, error) {
	config := s.services.Config()

	switch requested {
	case domain.SearchModeDense, domain.SearchModeHybrid:
		if !config.EmbeddingAvailable() {
			return domain.SearchModeSparse, nil
		}
	case domain.SearchModeVisual:
		if !config.VisualAvailable() {
			return "", domain.ErrServiceUnavailable
		}
	case domain.SearchModeBlended:
		embedding, visual := config.EmbeddingAvailable(), config.VisualAvailable()
		switch {
		case embedding && visual:
		case embedding:
			return domain.SearchModeHybrid, nil
		case visual:
			return domain.SearchModeVisual, nil
		default:
			return domain.SearchModeSparse, nil
		}
	}
	return requested, nil
}

// waitForEmbeddings polls completion until every id is ready, queueing ids
// that were never submitted. Bounded by the configured deadline, lowered to
// the context deadline when that is sooner.
func (s *retrievalService) waitForEmbeddings(ctx context.Context, ids []string) error {
	deadline := time.Now().Add(s.pollDeadline)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	for {
		report, err := s.progress.CheckCompletion(ctx, ids)
		if err != nil {
			return fmt.Errorf("check completion: %w", err)
		}
		if report.AllComplete {
			return nil
		}

		for _, id := range report.RequiresEmbedding {
			if _, err := s.progress.QueueEmbedding(ctx, id); err != nil {
				s.logger.Warn("failed to queue embedding", "object_id", id, "error", err)
			}
		}

		if !time.Now().Before(deadline) {
			outstanding := len(report.Pending) + len(report.RequiresEmbedding)
			return fmt.Errorf("%w: %d of %d documents still pending", domain.ErrEmbeddingNotReady, outstanding, len(ids))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
}

// embedQuery embeds the query, reusing a cached vector when an identical
// query was embedded recently under the same model. Cache failures fall
// through to a fresh embedding call.
func (s *retrievalService) embedQuery(ctx context.Context, query string) ([]float32, error) {
	embeddingService := s.services.EmbeddingService()
	if embeddingService == nil {
		return nil, domain.ErrServiceUnavailable
	}

	key := queryEmbeddingKey(embeddingService.Model(), query)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var embedding []float32
			if err := json.Unmarshal(data, &embedding); err == nil {
				return embedding, nil
			}
		}
	}

	embedding, tokens, err := embeddingService.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingService, err)
	}
	s.logger.Debug("query embedded", "model", embeddingService.Model(), "tokens", tokens)

	if s.cache != nil {
		if data, err := json.Marshal(embedding); err == nil {
			if err := s.cache.Set(ctx, key, data, queryEmbeddingTTL); err != nil {
				s.logger.Warn("failed to cache query embedding", "error", err)
			}
		}
	}
	return embedding, nil
}

func (s *retrievalService) searchDense(ctx context.Context, query string, srcs []string, topK int) ([]domain.SearchHit, error) {
	embedding, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	ranked, err := s.chunkStore.SearchDense(ctx, embedding, srcs, topK)
	if err != nil {
		return nil, fmt.Errorf("dense search: %w", err)
	}
	return chunkHits(derefChunks(ranked), topK), nil
}

// searchSparse scores candidate chunks in memory. The corpus for IDF
// purposes is the requested documents' chunks, not the whole store.
func (s *retrievalService) searchSparse(ctx context.Context, query string, srcs []string, topK int) ([]domain.SearchHit, error) {
	chunks, err := s.chunkStore.GetBySrcs(ctx, srcs)
	if err != nil {
		return nil, fmt.Errorf("load candidates: %w", err)
	}

	idx := ranking.NewIndex()
	for _, chunk := range chunks {
		idx.Add(chunk)
	}
	return chunkHits(idx.Search(query, topK), topK), nil
}

func (s *retrievalService) searchHybrid(ctx context.Context, req *domain.SearchRequest, srcs []string) ([]domain.SearchHit, error) {
	ranked, err := s.hybridRanked(ctx, req, srcs)
	if err != nil {
		return nil, err
	}
	return chunkHits(ranked, req.TopK), nil
}

// hybridRanked runs the dense and sparse passes in parallel and fuses them
func (s *retrievalService) hybridRanked(ctx context.Context, req *domain.SearchRequest, srcs []string) ([]domain.RankedChunk, error) {
	var (
		wg        sync.WaitGroup
		dense     []domain.RankedChunk
		sparse    []domain.RankedChunk
		denseErr  error
		sparseErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		embedding, err := s.embedQuery(ctx, req.Query)
		if err != nil {
			denseErr = err
			return
		}
		ranked, err := s.chunkStore.SearchDense(ctx, embedding, srcs, req.TopK)
		if err != nil {
			denseErr = fmt.Errorf("dense search: %w", err)
			return
		}
		dense = derefChunks(ranked)
	}()
	go func() {
		defer wg.Done()
		chunks, err := s.chunkStore.GetBySrcs(ctx, srcs)
		if err != nil {
			sparseErr = fmt.Errorf("load candidates: %w", err)
			return
		}
		idx := ranking.NewIndex()
		for _, chunk := range chunks {
			idx.Add(chunk)
		}
		sparse = idx.Search(req.Query, req.TopK)
	}()
	wg.Wait()

	if denseErr != nil {
		return nil, denseErr
	}
	if sparseErr != nil {
		return nil, sparseErr
	}

	if req.UseRRF {
		return ranking.FuseRRF(dense, sparse, 0), nil
	}
	return ranking.FuseWeighted(dense, sparse, req.DenseWeight, req.SparseWeight), nil
}

// searchVisual scores every stored page of the candidate documents against
// the multi-vector query embedding
func (s *retrievalService) searchVisual(ctx context.Context, query string, srcs []string, topK int) ([]domain.SearchHit, error) {
	visual := s.services.VisualService()
	if visual == nil {
		return nil, domain.ErrServiceUnavailable
	}

	queryVectors, err := visual.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingService, err)
	}

	pages, err := s.vdrStore.GetPagesByDocuments(ctx, srcs)
	if err != nil {
		return nil, fmt.Errorf("load pages: %w", err)
	}

	hits := make([]domain.SearchHit, 0, len(pages))
	for _, page := range pages {
		hits = append(hits, domain.SearchHit{
			Type:  domain.ResultTypeVDRPage,
			Score: ranking.MaxSim(queryVectors, page.Vectors),
			Page:  &domain.PageHit{DocumentID: page.DocumentID, PageNum: page.PageNum},
		})
	}
	sortHits(hits)
	return truncateHits(hits, topK), nil
}

// searchBlended runs the text and visual passes, max-normalizes each side,
// scales them by the configured weights, and merges into one ranked list
func (s *retrievalService) searchBlended(ctx context.Context, req *domain.SearchRequest, srcs []string) ([]domain.SearchHit, error) {
	ranked, err := s.hybridRanked(ctx, req, srcs)
	if err != nil {
		return nil, err
	}
	textHits := chunkHits(ranked, 0)

	pageHits, err := s.searchVisual(ctx, req.Query, srcs, 0)
	if err != nil {
		return nil, err
	}

	scaleHits(textHits, req.TextWeight)
	scaleHits(pageHits, req.VisualWeight)

	hits := append(textHits, pageHits...)
	sortHits(hits)
	return truncateHits(hits, req.TopK), nil
}

// queryEmbeddingKey builds the cache key for a query under a model
func queryEmbeddingKey(model, query string) string {
	sum := sha256.Sum256([]byte(query))
	return "query-embedding:" + model + ":" + hex.EncodeToString(sum[:])
}

// chunkHits converts ranked chunks to search hits, truncated to topK
func chunkHits(ranked []domain.RankedChunk, topK int) []domain.SearchHit {
	hits := make([]domain.SearchHit, 0, len(ranked))
	for i := range ranked {
		chunk := ranked[i].Chunk
		hits = append(hits, domain.SearchHit{
			Type:  domain.ResultTypeTextChunk,
			Score: ranked[i].Score,
			Chunk: &chunk,
		})
	}
	return truncateHits(hits, topK)
}

// derefChunks flattens store results for the fusion helpers
func derefChunks(in []*domain.RankedChunk) []domain.RankedChunk {
	out := make([]domain.RankedChunk, 0, len(in))
	for _, rc := range in {
		if rc != nil {
			out = append(out, *rc)
		}
	}
	return out
}

// scaleHits max-normalizes scores in place and scales them by weight.
// A side with no positive scores contributes nothing.
func scaleHits(hits []domain.SearchHit, weight float64) {
	var max float64
	for _, h := range hits {
		if h.Score > max {
			max = h.Score
		}
	}
	if max <= 0 {
		for i := range hits {
			hits[i].Score = 0
		}
		return
	}
	for i := range hits {
		hits[i].Score = weight * (hits[i].Score / max)
	}
}

func sortHits(hits []domain.SearchHit) {
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
}

func truncateHits(hits []domain.SearchHit, topK int) []domain.SearchHit {
	if topK > 0 && len(hits) > topK {
		return hits[:topK]
	}
	return hits
}
