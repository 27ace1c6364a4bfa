package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driving"
	"github.com/custodia-labs/vectra-core/internal/extraction"
	"github.com/custodia-labs/vectra-core/internal/runtime"
)

const (
	// defaultStagingBucket holds extraction artifacts between the extract
	// and chunk stages
	defaultStagingBucket = "vectra-staging"

	// embedBatchSize is how many chunks go to the embedding provider per call
	embedBatchSize = 64
)

// Ensure ingestOrchestrator implements IngestOrchestrator
var _ driving.IngestOrchestrator = (*ingestOrchestrator)(nil)

// ingestOrchestrator coordinates the document ingestion pipeline.
// Stages communicate through the task queue:
//  1. extract downloads the blob, extracts content items, and stages them
//  2. chunk builds chunk rows from the staged artifact and queues embedding
//  3. embed fills in vectors and terminates the progress record
//
// Scanned PDFs detected during extraction are rerouted to the visual
// pipeline, which rasterizes pages and embeds them as multi-vector records.
type ingestOrchestrator struct {
	objectStore   driven.ObjectStore
	documentStore driven.DocumentStore
	chunkStore    driven.ChunkStore
	vdrStore      driven.VDRStore
	progressStore driven.ProgressStore
	taskQueue     driven.TaskQueue
	extractor     driven.Extractor
	chunker       driven.Chunker
	rasterizer    driven.Rasterizer
	services      *runtime.Services // Dynamic AI services
	stagingBucket string
	logger        *slog.Logger
}

// IngestOrchestratorConfig holds dependencies for the ingest orchestrator
type IngestOrchestratorConfig struct {
	ObjectStore   driven.ObjectStore
	DocumentStore driven.DocumentStore
	ChunkStore    driven.ChunkStore
	VDRStore      driven.VDRStore
	ProgressStore driven.ProgressStore
	TaskQueue     driven.TaskQueue
	Extractor     driven.Extractor
	Chunker       driven.Chunker
	Rasterizer    driven.Rasterizer
	Services      *runtime.Services
	StagingBucket string
	Logger        *slog.Logger
}

// NewIngestOrchestrator creates a new ingest orchestrator
func NewIngestOrchestrator(cfg IngestOrchestratorConfig) driving.IngestOrchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	stagingBucket := cfg.StagingBucket
	if stagingBucket == "" {
		stagingBucket = defaultStagingBucket
	}

	return &ingestOrchestrator{
		objectStore:   cfg.ObjectStore,
		documentStore: cfg.DocumentStore,
		chunkStore:    cfg.ChunkStore,
		vdrStore:      cfg.VDRStore,
		progressStore: cfg.ProgressStore,
		taskQueue:     cfg.TaskQueue,
		extractor:     cfg.Extractor,
		chunker:       cfg.Chunker,
		rasterizer:    cfg.Rasterizer,
		services:      cfg.Services,
		stagingBucket: stagingBucket,
		logger:        logger,
	}
}

// ExtractDocument downloads a document's blob, extracts content items,
// stages them as an artifact, and queues chunking. A PDF assessed as
// scanned is rerouted to the visual pipeline instead.
func (o *ingestOrchestrator) ExtractDocument(ctx context.Context, documentID string) error {
	doc, err := o.documentStore.Get(ctx, documentID)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}

	if err := o.documentStore.UpdateStatus(ctx, doc.ID, domain.DocumentStatusProcessing, ""); err != nil {
		o.logger.Warn("failed to update document status", "document_id", doc.ID, "error", err)
	}

	data, err := o.download(ctx, doc.Bucket, doc.Key)
	if err != nil {
		return err
	}

	mimeType := extraction.ResolveMimeType(doc.Key, doc.MimeType)
	result := o.extractor.Extract(ctx, data, mimeType)

	// Scanned documents carry their content in page images, not text.
	if result.OCR != nil && result.OCR.IsOCR {
		return o.rerouteToVisual(ctx, doc, result.OCR)
	}

	if len(result.Items) == 0 {
		o.logger.Warn("extraction produced no content",
			"document_id", doc.ID,
			"mime_type", mimeType)
		o.failDocument(ctx, doc.ID, domain.ErrNoContent.Error())
		return nil
	}

	artifactKey := fmt.Sprintf("artifacts/%s/items.json", doc.ID)
	payload, err := json.Marshal(result.Items)
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}
	if err := o.objectStore.Put(ctx, o.stagingBucket, artifactKey, bytes.NewReader(payload), int64(len(payload)), "application/json"); err != nil {
		return fmt.Errorf("stage artifact: %w", err)
	}

	if err := o.taskQueue.Enqueue(ctx, domain.NewChunkTask(doc.ID, artifactKey)); err != nil {
		return fmt.Errorf("enqueue chunk task: %w", err)
	}

	o.logger.Info("extraction staged",
		"document_id", doc.ID,
		"mime_type", mimeType,
		"items", len(result.Items))
	return nil
}

// rerouteToVisual flips a document to the visual pipeline and queues it
func (o *ingestOrchestrator) rerouteToVisual(ctx context.Context, doc *domain.Document, assessment *domain.OCRAssessment) error {
	o.logger.Info("routing scanned document to visual pipeline",
		"document_id", doc.ID,
		"confidence", assessment.Confidence,
		"recommendation", assessment.Recommendation)

	doc.PipelineType = domain.PipelineVDR
	doc.UpdatedAt = time.Now()
	if err := o.documentStore.Save(ctx, doc); err != nil {
		return fmt.Errorf("update pipeline type: %w", err)
	}

	if err := o.taskQueue.Enqueue(ctx, domain.NewVDRIngestTask(doc.ID)); err != nil {
		return fmt.Errorf("enqueue visual ingest: %w", err)
	}
	return nil
}

// ChunkDocument loads a staged extraction artifact, builds chunk rows keyed
// by (src, ordinal), and queues embedding. The progress record is written
// before the embed task so the job is never in flight untracked.
func (o *ingestOrchestrator) ChunkDocument(ctx context.Context, documentID, artifactKey string) error {
	doc, err := o.documentStore.Get(ctx, documentID)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}
	src := doc.ObjectID()

	payload, err := o.download(ctx, o.stagingBucket, artifactKey)
	if err != nil {
		return err
	}
	var items []domain.ContentItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return fmt.Errorf("decode artifact: %w", err)
	}

	chunks := o.chunker.Chunk(items, src)
	if len(chunks) == 0 {
		o.logger.Warn("chunking produced no chunks", "document_id", doc.ID)
		o.terminateProgress(ctx, src, domain.ChunkStatusFailed, 0, 0)
		o.failDocument(ctx, doc.ID, domain.ErrNoContent.Error())
		return nil
	}

	if err := o.chunkStore.SaveBatch(ctx, chunks); err != nil {
		return fmt.Errorf("save chunks: %w", err)
	}
	// A re-chunked document may have shrunk; drop ordinals past the end.
	if err := o.chunkStore.DeleteSurplus(ctx, src, len(chunks)); err != nil {
		return fmt.Errorf("delete surplus chunks: %w", err)
	}

	if err := o.progressStore.Save(ctx, domain.NewEmbeddingProgress(src)); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	if err := o.taskQueue.Enqueue(ctx, domain.NewEmbedTask(doc.ID)); err != nil {
		return fmt.Errorf("enqueue embed task: %w", err)
	}

	if err := o.objectStore.Delete(ctx, o.stagingBucket, artifactKey); err != nil {
		o.logger.Warn("failed to delete staged artifact", "key", artifactKey, "error", err)
	}

	o.logger.Info("document chunked",
		"document_id", doc.ID,
		"src", src,
		"chunks", len(chunks))
	return nil
}

// EmbedChunks embeds a document's stored chunks in batches, writing
// unit-level progress between batches, and terminates the progress record
func (o *ingestOrchestrator) EmbedChunks(ctx context.Context, documentID string) error {
	doc, err := o.documentStore.Get(ctx, documentID)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}
	src := doc.ObjectID()

	chunks, err := o.chunkStore.GetBySrc(ctx, src)
	if err != nil {
		return fmt.Errorf("load chunks: %w", err)
	}
	if len(chunks) == 0 {
		o.logger.Warn("no chunks to embed", "document_id", doc.ID, "src", src)
		o.terminateProgress(ctx, src, domain.ChunkStatusFailed, 0, 0)
		o.failDocument(ctx, doc.ID, domain.ErrNoContent.Error())
		return nil
	}

	embeddingService := o.services.EmbeddingService()
	if embeddingService == nil {
		return fmt.Errorf("%w: no embedding service configured", domain.ErrServiceUnavailable)
	}

	total := len(chunks)
	o.touchProgress(ctx, src, 0, total)

	for start := 0; start < total; start += embedBatchSize {
		end := start + embedBatchSize
		if end > total {
			end = total
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Content
		}

		embeddings, err := embeddingService.Embed(ctx, texts)
		if err != nil {
			return fmt.Errorf("%w: embed batch: %v", domain.ErrEmbeddingService, err)
		}
		qaEmbeddings, err := embeddingService.EmbedQA(ctx, texts)
		if err != nil {
			return fmt.Errorf("%w: embed qa batch: %v", domain.ErrEmbeddingService, err)
		}
		if len(embeddings) != len(batch) || len(qaEmbeddings) != len(batch) {
			return fmt.Errorf("%w: provider returned %d/%d vectors for %d texts",
				domain.ErrEmbeddingService, len(embeddings), len(qaEmbeddings), len(batch))
		}

		for i, chunk := range batch {
			chunk.Embedding = embeddings[i]
			chunk.QAEmbedding = qaEmbeddings[i]
		}
		if err := o.chunkStore.SaveBatch(ctx, batch); err != nil {
			return fmt.Errorf("save embedded chunks: %w", err)
		}

		o.touchProgress(ctx, src, end, total)
	}

	if err := o.progressStore.Save(ctx, &domain.EmbeddingProgress{
		ObjectID:    src,
		Status:      domain.ChunkStatusCompleted,
		Terminated:  true,
		LastUpdated: time.Now(),
		DoneUnits:   total,
		TotalUnits:  total,
	}); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}

	if err := o.documentStore.UpdateStatus(ctx, doc.ID, domain.DocumentStatusIndexed, ""); err != nil {
		o.logger.Warn("failed to update document status", "document_id", doc.ID, "error", err)
	}

	o.logger.Info("chunks embedded",
		"document_id", doc.ID,
		"src", src,
		"chunks", total,
		"model", embeddingService.Model())
	return nil
}

// download reads an object fully into memory
func (o *ingestOrchestrator) download(ctx context.Context, bucket, key string) ([]byte, error) {
	r, err := o.objectStore.Get(ctx, bucket, key)
	if err != nil {
		return nil, fmt.Errorf("get object %s/%s: %w", bucket, key, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// touchProgress records unit-level progress. Interim progress is advisory;
// failures are logged, not propagated.
func (o *ingestOrchestrator) touchProgress(ctx context.Context, objectID string, done, total int) {
	err := o.progressStore.Save(ctx, &domain.EmbeddingProgress{
		ObjectID:    objectID,
		Status:      domain.ChunkStatusProcessing,
		LastUpdated: time.Now(),
		DoneUnits:   done,
		TotalUnits:  total,
	})
	if err != nil {
		o.logger.Warn("failed to touch progress", "object_id", objectID, "error", err)
	}
}

// terminateProgress writes a terminal progress record, logging on failure
func (o *ingestOrchestrator) terminateProgress(ctx context.Context, objectID string, status domain.ChunkStatus, done, total int) {
	err := o.progressStore.Save(ctx, &domain.EmbeddingProgress{
		ObjectID:    objectID,
		Status:      status,
		Terminated:  true,
		LastUpdated: time.Now(),
		DoneUnits:   done,
		TotalUnits:  total,
	})
	if err != nil {
		o.logger.Warn("failed to terminate progress", "object_id", objectID, "status", status, "error", err)
	}
}

// failDocument marks a document failed with a detail message
func (o *ingestOrchestrator) failDocument(ctx context.Context, documentID, detail string) {
	if err := o.documentStore.UpdateStatus(ctx, documentID, domain.DocumentStatusFailed, detail); err != nil {
		o.logger.Warn("failed to update document status", "document_id", documentID, "error", err)
	}
}
