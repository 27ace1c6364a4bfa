package domain

import "time"

// ChunkStatus tracks the embedding lifecycle of a document's chunks
type ChunkStatus string

const (
	ChunkStatusNotSubmitted ChunkStatus = "not_submitted"
	ChunkStatusStarting     ChunkStatus = "starting"
	ChunkStatusProcessing   ChunkStatus = "processing"
	ChunkStatusCompleted    ChunkStatus = "completed"
	ChunkStatusFailed       ChunkStatus = "failed"
)

// StaleAfter is how long a starting/processing record may go without an
// update before it is considered stalled and requeued.
const StaleAfter = 180 * time.Second

// EmbeddingProgress records how far a document's embedding job has gotten.
// Keyed by normalized object id; LastUpdated is monotonic, refreshed on
// every transition and on unit-level progress touches.
type EmbeddingProgress struct {
	ObjectID    string      `json:"object_id"`
	Status      ChunkStatus `json:"parent_chunk_status"`
	Terminated  bool        `json:"terminated"`
	LastUpdated time.Time   `json:"last_updated"`
	DoneUnits   int         `json:"done_units,omitempty"`
	TotalUnits  int         `json:"total_units,omitempty"`
}

// NewEmbeddingProgress creates a fresh record in the starting state
func NewEmbeddingProgress(objectID string) *EmbeddingProgress {
	return &EmbeddingProgress{
		ObjectID:    NormalizeObjectID(objectID),
		Status:      ChunkStatusStarting,
		LastUpdated: time.Now(),
	}
}

// InFlight returns true while the job is submitted but not yet terminal
func (p *EmbeddingProgress) InFlight() bool {
	return p.Status == ChunkStatusStarting || p.Status == ChunkStatusProcessing
}

// IsStale reports whether an in-flight record has gone too long without an
// update and should be requeued.
func (p *EmbeddingProgress) IsStale(now time.Time) bool {
	return p.InFlight() && now.Sub(p.LastUpdated) > StaleAfter
}

// CompletionReport is the answer to "are these documents queryable yet?"
type CompletionReport struct {
	// AllComplete is true only when every requested id has completed
	AllComplete bool `json:"allComplete"`

	// Pending lists ids still in flight (including ones just requeued)
	Pending []string `json:"pendingIds"`

	// RequiresEmbedding lists ids with no progress record at all;
	// the caller must submit them before they can complete
	RequiresEmbedding []string `json:"requiresEmbedding"`
}
