package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driving"
)

// requeuePageSize is how many documents RequeueAll loads per page
const requeuePageSize = 200

// Ensure progressService implements ProgressService
var _ driving.ProgressService = (*progressService)(nil)

// progressService reports embedding progress and repairs jobs that stalled
// or failed. Repair always resets the progress record before enqueueing so
// a record is never in flight without a task behind it.
type progressService struct {
	progressStore driven.ProgressStore
	documentStore driven.DocumentStore
	chunkStore    driven.ChunkStore
	taskQueue     driven.TaskQueue
	logger        *slog.Logger
}

// NewProgressService creates a new ProgressService
func NewProgressService(
	progressStore driven.ProgressStore,
	documentStore driven.DocumentStore,
	chunkStore driven.ChunkStore,
	taskQueue driven.TaskQueue,
	logger *slog.Logger,
) driving.ProgressService {
	if logger == nil {
		logger = slog.Default()
	}
	return &progressService{
		progressStore: progressStore,
		documentStore: documentStore,
		chunkStore:    chunkStore,
		taskQueue:     taskQueue,
		logger:        logger,
	}
}

// Get retrieves the progress record for a normalized object ID.
// Unknown objects report not_submitted rather than an error.
func (s *progressService) Get(ctx context.Context, objectID string) (*domain.EmbeddingProgress, error) {
	id := domain.NormalizeObjectID(objectID)
	record, err := s.progressStore.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.EmbeddingProgress{
			ObjectID: id,
			Status:   domain.ChunkStatusNotSubmitted,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// CheckCompletion reports which object IDs still have embedding work
// outstanding. Failed and stale jobs are requeued as a side effect and
// reported pending. An id whose record cannot be read is reported pending,
// never complete.
func (s *progressService) CheckCompletion(ctx context.Context, objectIDs []string) (*domain.CompletionReport, error) {
	ids := normalizeIDs(objectIDs)
	report := &domain.CompletionReport{}

	records := make(map[string]*domain.EmbeddingProgress, len(ids))
	unreadable := map[string]bool{}
	batch, err := s.progressStore.GetBatch(ctx, ids)
	if err != nil {
		s.logger.Warn("batch progress read failed, falling back to per-id reads", "error", err)
		unreadable = s.readEach(ctx, ids, records)
	} else {
		records = batch
	}

	now := time.Now()
	for _, id := range ids {
		if unreadable[id] {
			report.Pending = append(report.Pending, id)
			continue
		}
		record, ok := records[id]
		if !ok || record.Status == domain.ChunkStatusNotSubmitted {
			report.RequiresEmbedding = append(report.RequiresEmbedding, id)
			continue
		}

		switch {
		case record.Status == domain.ChunkStatusCompleted:
			// Done, nothing to report.
		case record.Status == domain.ChunkStatusFailed || record.IsStale(now):
			if err := s.requeue(ctx, id); err != nil {
				s.logger.Warn("failed to requeue embedding job",
					"object_id", id,
					"status", record.Status,
					"error", err)
			}
			report.Pending = append(report.Pending, id)
		default:
			report.Pending = append(report.Pending, id)
		}
	}

	report.AllComplete = len(report.Pending) == 0 && len(report.RequiresEmbedding) == 0
	return report, nil
}

// QueueEmbedding queues embedding for an object that was never submitted
func (s *progressService) QueueEmbedding(ctx context.Context, objectID string) (bool, error) {
	id := domain.NormalizeObjectID(objectID)

	record, err := s.progressStore.Get(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	if err == nil && (record.InFlight() || record.Terminated) {
		return false, nil
	}

	if err := s.requeue(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

// SweepStale requeues embedding jobs whose progress went quiet
func (s *progressService) SweepStale(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-domain.StaleAfter)
	stale, err := s.progressStore.ListStale(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list stale progress: %w", err)
	}

	requeued := 0
	for _, record := range stale {
		if err := s.requeue(ctx, record.ObjectID); err != nil {
			s.logger.Warn("failed to requeue stale job",
				"object_id", record.ObjectID,
				"error", err)
			continue
		}
		requeued++
	}

	if requeued > 0 {
		s.logger.Info("requeued stale embedding jobs", "count", requeued)
	}
	return requeued, nil
}

// RequeueAll queues re-embedding for every text-pipeline document. Visual
// documents keep their page embeddings; a text model change does not touch
// them.
func (s *progressService) RequeueAll(ctx context.Context) (int, error) {
	requeued := 0
	for offset := 0; ; offset += requeuePageSize {
		docs, err := s.documentStore.List(ctx, requeuePageSize, offset)
		if err != nil {
			return requeued, fmt.Errorf("list documents: %w", err)
		}
		if len(docs) == 0 {
			break
		}

		for _, doc := range docs {
			if doc.PipelineType == domain.PipelineVDR {
				continue
			}
			if err := s.requeue(ctx, doc.ObjectID()); err != nil {
				s.logger.Warn("failed to requeue document",
					"document_id", doc.ID,
					"object_id", doc.ObjectID(),
					"error", err)
				continue
			}
			requeued++
		}

		if len(docs) < requeuePageSize {
			break
		}
	}

	s.logger.Info("queued re-embedding for text documents", "count", requeued)
	return requeued, nil
}

// requeue resets the progress record and enqueues the pipeline stage the
// document needs to restart from. Progress is written first so there is
// no window where a task runs without a record.
func (s *progressService) requeue(ctx context.Context, objectID string) error {
	doc, err := s.documentStore.GetByObjectID(ctx, objectID)
	if err != nil {
		return fmt.Errorf("resolve document: %w", err)
	}

	if err := s.progressStore.Save(ctx, domain.NewEmbeddingProgress(objectID)); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}

	if err := s.taskQueue.Enqueue(ctx, s.pipelineTask(ctx, doc)); err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	return nil
}

// pipelineTask picks the stage to restart from: visual documents rerun the
// whole visual pass, text documents with no stored chunks restart from
// extraction, anything else re-embeds its existing chunks.
func (s *progressService) pipelineTask(ctx context.Context, doc *domain.Document) *domain.Task {
	if doc.PipelineType == domain.PipelineVDR {
		return domain.NewVDRIngestTask(doc.ID)
	}

	count, err := s.chunkStore.CountBySrc(ctx, doc.ObjectID())
	if err != nil {
		s.logger.Warn("chunk count failed, restarting from extraction",
			"object_id", doc.ObjectID(),
			"error", err)
		count = 0
	}
	if count == 0 {
		return domain.NewExtractTask(doc.ID)
	}
	return domain.NewEmbedTask(doc.ID)
}

// readEach is the per-id fallback when a batch read fails. IDs that still
// cannot be read are returned so the caller reports them pending instead of
// guessing.
func (s *progressService) readEach(ctx context.Context, ids []string, records map[string]*domain.EmbeddingProgress) map[string]bool {
	unreadable := make(map[string]bool)
	for _, id := range ids {
		record, err := s.progressStore.Get(ctx, id)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				unreadable[id] = true
			}
			continue
		}
		records[id] = record
	}
	return unreadable
}

// normalizeIDs canonicalizes and deduplicates object IDs, preserving order
func normalizeIDs(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	ids := make([]string, 0, len(raw))
	for _, r := range raw {
		id := domain.NormalizeObjectID(r)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
