package driving

import (
	"context"
)

// IngestOrchestrator coordinates the document ingestion pipeline.
// Each method is one pipeline stage, invoked by the task worker.
type IngestOrchestrator interface {
	// ExtractDocument downloads a document's blob, extracts content items,
	// stages them as an artifact, and queues chunking. Scanned PDFs are
	// routed to the visual pipeline instead.
	ExtractDocument(ctx context.Context, documentID string) error

	// ChunkDocument loads a staged extraction artifact, builds chunks,
	// persists them, and queues embedding.
	ChunkDocument(ctx context.Context, documentID, artifactKey string) error

	// EmbedChunks embeds a document's stored chunks and marks its
	// progress record terminal.
	EmbedChunks(ctx context.Context, documentID string) error

	// IngestVisual rasterizes a document's pages and stores their
	// multi-vector embeddings.
	IngestVisual(ctx context.Context, documentID string) error
}

// Scheduler manages periodic maintenance tasks
type Scheduler interface {
	// Start begins the scheduler loop
	Start(ctx context.Context) error

	// Stop stops the scheduler
	Stop(ctx context.Context) error
}
