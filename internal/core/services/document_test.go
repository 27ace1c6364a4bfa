package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driving"
)

type documentFixture struct {
	documentStore *mocks.MockDocumentStore
	chunkStore    *mocks.MockChunkStore
	vdrStore      *mocks.MockVDRStore
	progressStore *mocks.MockProgressStore
	accessStore   *mocks.MockAccessStore
	objectStore   *mocks.MockObjectStore
	taskQueue     *mocks.MockTaskQueue
}

func newDocumentFixture(t *testing.T) (*documentFixture, driving.DocumentService) {
	t.Helper()
	f := &documentFixture{
		documentStore: mocks.NewMockDocumentStore(),
		chunkStore:    mocks.NewMockChunkStore(),
		vdrStore:      mocks.NewMockVDRStore(),
		progressStore: mocks.NewMockProgressStore(),
		accessStore:   mocks.NewMockAccessStore(),
		objectStore:   mocks.NewMockObjectStore(),
		taskQueue:     mocks.NewMockTaskQueue(),
	}
	svc := NewDocumentService(DocumentServiceConfig{
		DocumentStore: f.documentStore,
		ChunkStore:    f.chunkStore,
		VDRStore:      f.vdrStore,
		ProgressStore: f.progressStore,
		AccessStore:   f.accessStore,
		ObjectStore:   f.objectStore,
		TaskQueue:     f.taskQueue,
	})
	return f, svc
}

func (f *documentFixture) register(t *testing.T, svc driving.DocumentService, userID string, req driving.RegisterDocumentRequest) *domain.Document {
	t.Helper()
	f.objectStore.SetObject(req.Bucket, req.Key, []byte("blob"))
	doc, err := svc.Register(context.Background(), userID, req)
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return doc
}

func TestDocumentService_Register(t *testing.T) {
	f, svc := newDocumentFixture(t)

	doc := f.register(t, svc, "user-1", driving.RegisterDocumentRequest{
		Bucket:   "docs",
		Key:      "notes.txt",
		MimeType: "text/plain",
		Tags:     []string{"meeting"},
	})

	if doc.ID == "" {
		t.Fatal("expected a generated document ID")
	}
	if doc.Status != domain.DocumentStatusRegistered {
		t.Errorf("expected registered, got %s", doc.Status)
	}
	if doc.PipelineType != domain.PipelineText {
		t.Errorf("expected default text pipeline, got %s", doc.PipelineType)
	}

	grants, err := f.accessStore.GetGrants(context.Background(), doc.ObjectID())
	if err != nil {
		t.Fatalf("GetGrants failed: %v", err)
	}
	if len(grants) != 1 {
		t.Fatalf("expected 1 owner grant, got %d", len(grants))
	}
	grant := grants[0]
	if grant.PrincipalType != domain.PrincipalUser || grant.PrincipalID != "user-1" {
		t.Errorf("unexpected grant principal: %s %s", grant.PrincipalType, grant.PrincipalID)
	}
	if grant.Permission != domain.PermissionOwner {
		t.Errorf("expected owner permission, got %s", grant.Permission)
	}

	tasks := f.taskQueue.EnqueuedOfType(domain.TaskTypeExtract)
	if len(tasks) != 1 || tasks[0].DocumentID() != doc.ID {
		t.Fatalf("expected 1 extract task for %s, got %v", doc.ID, tasks)
	}
}

func TestDocumentService_Register_VisualPipeline(t *testing.T) {
	f, svc := newDocumentFixture(t)

	doc := f.register(t, svc, "user-1", driving.RegisterDocumentRequest{
		Bucket:       "docs",
		Key:          "scan.pdf",
		PipelineType: domain.PipelineVDR,
	})

	tasks := f.taskQueue.EnqueuedOfType(domain.TaskTypeVDRIngest)
	if len(tasks) != 1 || tasks[0].DocumentID() != doc.ID {
		t.Fatalf("expected 1 visual ingest task for %s, got %v", doc.ID, tasks)
	}
	if len(f.taskQueue.EnqueuedOfType(domain.TaskTypeExtract)) != 0 {
		t.Error("expected no extract task for a visual document")
	}
}

func TestDocumentService_Register_Validation(t *testing.T) {
	tests := []struct {
		name    string
		userID  string
		req     driving.RegisterDocumentRequest
		wantErr error
	}{
		{
			name:    "missing bucket",
			userID:  "user-1",
			req:     driving.RegisterDocumentRequest{Key: "notes.txt"},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "missing key",
			userID:  "user-1",
			req:     driving.RegisterDocumentRequest{Bucket: "docs"},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "missing user",
			userID:  "",
			req:     driving.RegisterDocumentRequest{Bucket: "docs", Key: "notes.txt"},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unknown pipeline",
			userID:  "user-1",
			req:     driving.RegisterDocumentRequest{Bucket: "docs", Key: "notes.txt", PipelineType: "audio"},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "blob not uploaded",
			userID:  "user-1",
			req:     driving.RegisterDocumentRequest{Bucket: "docs", Key: "missing.txt"},
			wantErr: domain.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, svc := newDocumentFixture(t)
			f.objectStore.SetObject("docs", "notes.txt", []byte("blob"))

			_, err := svc.Register(context.Background(), tt.userID, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if len(f.taskQueue.Enqueued()) != 0 {
				t.Errorf("expected no tasks, got %d", len(f.taskQueue.Enqueued()))
			}
		})
	}
}

func TestDocumentService_Register_Reupload(t *testing.T) {
	f, svc := newDocumentFixture(t)

	first := f.register(t, svc, "user-1", driving.RegisterDocumentRequest{
		Bucket: "docs",
		Key:    "notes.txt",
		Tags:   []string{"v1"},
	})
	if err := f.documentStore.UpdateStatus(context.Background(), first.ID, domain.DocumentStatusIndexed, ""); err != nil {
		t.Fatalf("mark indexed: %v", err)
	}

	second := f.register(t, svc, "user-1", driving.RegisterDocumentRequest{
		Bucket: "docs",
		Key:    "notes.txt",
		Tags:   []string{"v2"},
	})

	if second.ID != first.ID {
		t.Errorf("expected re-upload to keep ID %s, got %s", first.ID, second.ID)
	}
	if second.Status != domain.DocumentStatusRegistered {
		t.Errorf("expected registered after re-upload, got %s", second.Status)
	}
	if len(second.Tags) != 1 || second.Tags[0] != "v2" {
		t.Errorf("expected superseded tags, got %v", second.Tags)
	}

	count, _ := f.documentStore.Count(context.Background())
	if count != 1 {
		t.Errorf("expected 1 document row, got %d", count)
	}
	if got := len(f.taskQueue.EnqueuedOfType(domain.TaskTypeExtract)); got != 2 {
		t.Errorf("expected 2 extract tasks, got %d", got)
	}
}

func TestDocumentService_GetByObjectID_Normalizes(t *testing.T) {
	f, svc := newDocumentFixture(t)
	doc := f.register(t, svc, "user-1", driving.RegisterDocumentRequest{
		Bucket: "docs",
		Key:    "notes.txt",
	})

	found, err := svc.GetByObjectID(context.Background(), "s3://docs//notes.txt")
	if err != nil {
		t.Fatalf("GetByObjectID failed: %v", err)
	}
	if found.ID != doc.ID {
		t.Errorf("expected %s, got %s", doc.ID, found.ID)
	}
}

func TestDocumentService_List(t *testing.T) {
	f, svc := newDocumentFixture(t)
	base := time.Now()
	for i := 0; i < 3; i++ {
		doc := &domain.Document{
			ID:        string(rune('a' + i)),
			Bucket:    "docs",
			Key:       "file-" + string(rune('a'+i)) + ".txt",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := f.documentStore.Save(context.Background(), doc); err != nil {
			t.Fatalf("seed document: %v", err)
		}
	}

	docs, err := svc.List(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents with defaulted limit, got %d", len(docs))
	}
	if docs[0].ID != "c" {
		t.Errorf("expected newest first, got %s", docs[0].ID)
	}

	docs, err = svc.List(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "a" {
		t.Errorf("expected oldest document on the last page, got %v", docs)
	}
}

func TestDocumentService_Delete(t *testing.T) {
	f, svc := newDocumentFixture(t)
	doc := f.register(t, svc, "user-1", driving.RegisterDocumentRequest{
		Bucket: "docs",
		Key:    "notes.txt",
	})
	src := doc.ObjectID()

	if err := f.chunkStore.SaveBatch(context.Background(), []*domain.Chunk{
		{ID: 0, Src: src, Content: "chunk"},
	}); err != nil {
		t.Fatalf("seed chunks: %v", err)
	}
	if err := f.vdrStore.SavePages(context.Background(), []*domain.VDRPage{
		{DocumentID: src, PageNum: 1, Vectors: [][]float32{{1}}, NumVectors: 1},
	}); err != nil {
		t.Fatalf("seed pages: %v", err)
	}
	f.progressStore.SetRecord(&domain.EmbeddingProgress{
		ObjectID:    src,
		Status:      domain.ChunkStatusCompleted,
		Terminated:  true,
		LastUpdated: time.Now(),
	})

	if err := svc.Delete(context.Background(), doc.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := f.documentStore.Get(context.Background(), doc.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected document gone, got %v", err)
	}
	chunks, _ := f.chunkStore.GetBySrc(context.Background(), src)
	if len(chunks) != 0 {
		t.Errorf("expected chunks gone, got %d", len(chunks))
	}
	pages, _ := f.vdrStore.CountByDocument(context.Background(), src)
	if pages != 0 {
		t.Errorf("expected pages gone, got %d", pages)
	}
	if _, err := f.progressStore.Get(context.Background(), src); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected progress gone, got %v", err)
	}
	grants, _ := f.accessStore.GetGrants(context.Background(), src)
	if len(grants) != 0 {
		t.Errorf("expected grants gone, got %d", len(grants))
	}
}

func TestDocumentService_Delete_Unknown(t *testing.T) {
	_, svc := newDocumentFixture(t)

	err := svc.Delete(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDocumentService_Reprocess(t *testing.T) {
	f, svc := newDocumentFixture(t)
	doc := f.register(t, svc, "user-1", driving.RegisterDocumentRequest{
		Bucket: "docs",
		Key:    "notes.txt",
	})
	src := doc.ObjectID()
	if err := f.documentStore.UpdateStatus(context.Background(), doc.ID, domain.DocumentStatusFailed, "extraction produced no content"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	f.progressStore.SetRecord(&domain.EmbeddingProgress{
		ObjectID:    src,
		Status:      domain.ChunkStatusFailed,
		Terminated:  true,
		LastUpdated: time.Now(),
	})
	f.taskQueue.Reset()

	if err := svc.Reprocess(context.Background(), doc.ID); err != nil {
		t.Fatalf("Reprocess failed: %v", err)
	}

	doc, _ = f.documentStore.Get(context.Background(), doc.ID)
	if doc.Status != domain.DocumentStatusRegistered || doc.StatusDetail != "" {
		t.Errorf("expected clean registered status, got %s %q", doc.Status, doc.StatusDetail)
	}
	record, err := f.progressStore.Get(context.Background(), src)
	if err != nil {
		t.Fatalf("expected progress record, got %v", err)
	}
	if record.Status != domain.ChunkStatusStarting || record.Terminated {
		t.Errorf("expected fresh starting record, got %s terminated=%v", record.Status, record.Terminated)
	}
	tasks := f.taskQueue.EnqueuedOfType(domain.TaskTypeExtract)
	if len(tasks) != 1 || tasks[0].DocumentID() != doc.ID {
		t.Fatalf("expected 1 extract task for %s, got %v", doc.ID, tasks)
	}
}

func TestDocumentService_Reprocess_Visual(t *testing.T) {
	f, svc := newDocumentFixture(t)
	doc := f.register(t, svc, "user-1", driving.RegisterDocumentRequest{
		Bucket:       "docs",
		Key:          "scan.pdf",
		PipelineType: domain.PipelineVDR,
	})
	f.taskQueue.Reset()

	if err := svc.Reprocess(context.Background(), doc.ID); err != nil {
		t.Fatalf("Reprocess failed: %v", err)
	}
	if len(f.taskQueue.EnqueuedOfType(domain.TaskTypeVDRIngest)) != 1 {
		t.Error("expected a visual ingest task")
	}
}
