package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driving"
)

// Ensure documentService implements DocumentService
var _ driving.DocumentService = (*documentService)(nil)

// documentService manages the document lifecycle around the ingest pipeline
type documentService struct {
	documentStore driven.DocumentStore
	chunkStore    driven.ChunkStore
	vdrStore      driven.VDRStore
	progressStore driven.ProgressStore
	accessStore   driven.AccessStore
	objectStore   driven.ObjectStore
	taskQueue     driven.TaskQueue
	logger        *slog.Logger
}

// DocumentServiceConfig holds dependencies for the document service
type DocumentServiceConfig struct {
	DocumentStore driven.DocumentStore
	ChunkStore    driven.ChunkStore
	VDRStore      driven.VDRStore
	ProgressStore driven.ProgressStore
	AccessStore   driven.AccessStore
	ObjectStore   driven.ObjectStore
	TaskQueue     driven.TaskQueue
	Logger        *slog.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(cfg DocumentServiceConfig) driving.DocumentService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &documentService{
		documentStore: cfg.DocumentStore,
		chunkStore:    cfg.ChunkStore,
		vdrStore:      cfg.VDRStore,
		progressStore: cfg.ProgressStore,
		accessStore:   cfg.AccessStore,
		objectStore:   cfg.ObjectStore,
		taskQueue:     cfg.TaskQueue,
		logger:        logger,
	}
}

// Register records a document and queues the first pipeline stage. The blob
// must already exist in object storage. Re-registering a known bucket/key
// supersedes the previous version: the row keeps its ID and the pipeline
// runs again, overwriting chunks and pages by ordinal.
func (s *documentService) Register(ctx context.Context, userID string, req driving.RegisterDocumentRequest) (*domain.Document, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	if req.Bucket == "" || req.Key == "" {
		return nil, fmt.Errorf("%w: bucket and key are required", domain.ErrInvalidInput)
	}
	pipeline := req.PipelineType
	if pipeline == "" {
		pipeline = domain.PipelineText
	}
	if pipeline != domain.PipelineText && pipeline != domain.PipelineVDR {
		return nil, fmt.Errorf("%w: unknown pipeline type %q", domain.ErrInvalidInput, pipeline)
	}

	exists, err := s.objectStore.Exists(ctx, req.Bucket, req.Key)
	if err != nil {
		return nil, fmt.Errorf("check object: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: object %s/%s not in storage", domain.ErrNotFound, req.Bucket, req.Key)
	}

	now := time.Now()
	objectID := domain.NormalizeObjectID(req.Bucket + "/" + req.Key)

	doc, err := s.documentStore.GetByObjectID(ctx, objectID)
	switch {
	case err == nil:
		doc.PipelineType = pipeline
		doc.MimeType = req.MimeType
		doc.Tags = req.Tags
		doc.Metadata = req.Metadata
		doc.Status = domain.DocumentStatusRegistered
		doc.StatusDetail = ""
		doc.UpdatedAt = now
	case errors.Is(err, domain.ErrNotFound):
		doc = &domain.Document{
			ID:           uuid.New().String(),
			Bucket:       req.Bucket,
			Key:          req.Key,
			UserID:       userID,
			PipelineType: pipeline,
			MimeType:     req.MimeType,
			Tags:         req.Tags,
			Metadata:     req.Metadata,
			Status:       domain.DocumentStatusRegistered,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	default:
		return nil, fmt.Errorf("lookup document: %w", err)
	}

	if err := s.documentStore.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	if err := s.accessStore.SaveGrant(ctx, &domain.AccessGrant{
		ObjectID:      doc.ObjectID(),
		ObjectType:    "document",
		PrincipalType: domain.PrincipalUser,
		PrincipalID:   userID,
		Permission:    domain.PermissionOwner,
		CreatedAt:     now,
	}); err != nil {
		return nil, fmt.Errorf("save owner grant: %w", err)
	}

	if err := s.enqueuePipeline(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document registered",
		"document_id", doc.ID,
		"object_id", doc.ObjectID(),
		"pipeline", doc.PipelineType)
	return doc, nil
}

// Get retrieves a document by ID
func (s *documentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.documentStore.Get(ctx, id)
}

// GetByObjectID retrieves a document by its normalized object ID
func (s *documentService) GetByObjectID(ctx context.Context, objectID string) (*domain.Document, error) {
	return s.documentStore.GetByObjectID(ctx, domain.NormalizeObjectID(objectID))
}

// List retrieves documents with pagination, newest first
func (s *documentService) List(ctx context.Context, limit, offset int) ([]*domain.Document, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}
	if offset < 0 {
		offset = 0
	}
	return s.documentStore.List(ctx, limit, offset)
}

// Count returns the total number of documents
func (s *documentService) Count(ctx context.Context) (int, error) {
	return s.documentStore.Count(ctx)
}

// Delete removes a document and everything derived from it. Search data
// goes first so a failure partway leaves the row visible for retry rather
// than orphaning chunks the row no longer accounts for.
func (s *documentService) Delete(ctx context.Context, id string) error {
	doc, err := s.documentStore.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}
	src := doc.ObjectID()

	if err := s.chunkStore.DeleteBySrc(ctx, src); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	if err := s.vdrStore.DeleteByDocument(ctx, src); err != nil {
		return fmt.Errorf("delete pages: %w", err)
	}
	if err := s.progressStore.Delete(ctx, src); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("delete progress: %w", err)
	}
	if err := s.accessStore.DeleteGrantsForObject(ctx, src); err != nil {
		return fmt.Errorf("delete grants: %w", err)
	}
	if err := s.documentStore.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	s.logger.Info("document deleted", "document_id", id, "object_id", src)
	return nil
}

// Reprocess re-queues a document's pipeline from the start
func (s *documentService) Reprocess(ctx context.Context, id string) error {
	doc, err := s.documentStore.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}

	if err := s.documentStore.UpdateStatus(ctx, doc.ID, domain.DocumentStatusRegistered, ""); err != nil {
		return fmt.Errorf("reset status: %w", err)
	}
	// Progress is reset before the task exists so the job is never in
	// flight untracked.
	if err := s.progressStore.Save(ctx, domain.NewEmbeddingProgress(doc.ObjectID())); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	if err := s.enqueuePipeline(ctx, doc); err != nil {
		return err
	}

	s.logger.Info("document reprocess queued",
		"document_id", doc.ID,
		"pipeline", doc.PipelineType)
	return nil
}

// enqueuePipeline queues the first stage for the document's pipeline type
func (s *documentService) enqueuePipeline(ctx context.Context, doc *domain.Document) error {
	task := domain.NewExtractTask(doc.ID)
	if doc.PipelineType == domain.PipelineVDR {
		task = domain.NewVDRIngestTask(doc.ID)
	}
	if err := s.taskQueue.Enqueue(ctx, task); err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Type, err)
	}
	return nil
}
