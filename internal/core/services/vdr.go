package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

const (
	// vdrRenderDPI is the rasterization resolution for page images
	vdrRenderDPI = 150.0

	// vdrProgressEvery is how many pages pass between progress touches
	vdrProgressEvery = 10
)

// IngestVisual rasterizes a document's pages, embeds each page image as a
// multi-vector record, and stores the pages keyed by the document's object
// ID. Pages that fail to render or embed are skipped; the run fails only
// when no page survives.
func (o *ingestOrchestrator) IngestVisual(ctx context.Context, documentID string) error {
	doc, err := o.documentStore.Get(ctx, documentID)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}
	src := doc.ObjectID()

	if err := o.progressStore.Save(ctx, domain.NewEmbeddingProgress(src)); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	if err := o.documentStore.UpdateStatus(ctx, doc.ID, domain.DocumentStatusProcessing, ""); err != nil {
		o.logger.Warn("failed to update document status", "document_id", doc.ID, "error", err)
	}

	visual := o.services.VisualService()
	if visual == nil {
		return fmt.Errorf("%w: no visual embedding service configured", domain.ErrServiceUnavailable)
	}

	data, err := o.download(ctx, doc.Bucket, doc.Key)
	if err != nil {
		return err
	}

	rasterDoc, err := o.rasterizer.Open(ctx, data)
	if err != nil {
		// Unopenable documents do not get better on retry.
		o.logger.Warn("failed to open document for rasterization",
			"document_id", doc.ID,
			"error", err)
		o.terminateProgress(ctx, src, domain.ChunkStatusFailed, 0, 0)
		o.failDocument(ctx, doc.ID, fmt.Sprintf("rasterize: %v", err))
		return nil
	}
	defer rasterDoc.Close()

	total := rasterDoc.PageCount()
	o.touchProgress(ctx, src, 0, total)

	now := time.Now()
	pages := make([]*domain.VDRPage, 0, total)
	skipped := 0
	for page := 0; page < total; page++ {
		img, err := rasterDoc.RenderPage(page, vdrRenderDPI)
		if err != nil {
			o.logger.Warn("failed to render page",
				"document_id", doc.ID,
				"page", page+1,
				"error", err)
			skipped++
			continue
		}

		vectors, err := visual.EmbedPages(ctx, [][]byte{img})
		if err != nil || len(vectors) == 0 {
			o.logger.Warn("failed to embed page",
				"document_id", doc.ID,
				"page", page+1,
				"error", err)
			skipped++
			continue
		}

		pages = append(pages, &domain.VDRPage{
			DocumentID: src,
			PageNum:    page + 1,
			Vectors:    vectors[0],
			NumVectors: len(vectors[0]),
			CreatedAt:  now,
		})

		if (page+1)%vdrProgressEvery == 0 {
			o.touchProgress(ctx, src, page+1, total)
		}
	}

	if len(pages) == 0 {
		o.logger.Warn("visual ingestion embedded no pages",
			"document_id", doc.ID,
			"total_pages", total)
		o.terminateProgress(ctx, src, domain.ChunkStatusFailed, 0, total)
		o.failDocument(ctx, doc.ID, domain.ErrNoPagesEmbedded.Error())
		return nil
	}

	if err := o.vdrStore.SavePages(ctx, pages); err != nil {
		return fmt.Errorf("save pages: %w", err)
	}

	if err := o.progressStore.Save(ctx, &domain.EmbeddingProgress{
		ObjectID:    src,
		Status:      domain.ChunkStatusCompleted,
		Terminated:  true,
		LastUpdated: time.Now(),
		DoneUnits:   len(pages),
		TotalUnits:  total,
	}); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	if err := o.documentStore.UpdateStatus(ctx, doc.ID, domain.DocumentStatusIndexed, ""); err != nil {
		o.logger.Warn("failed to update document status", "document_id", doc.ID, "error", err)
	}

	o.logger.Info("visual ingestion completed",
		"document_id", doc.ID,
		"src", src,
		"pages", len(pages),
		"skipped", skipped,
		"model", visual.Model())
	return nil
}
