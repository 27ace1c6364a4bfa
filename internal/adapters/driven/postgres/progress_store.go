package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ProgressStore = (*ProgressStore)(nil)

// ProgressStore implements driven.ProgressStore using PostgreSQL
type ProgressStore struct {
	db *DB
}

// NewProgressStore creates a new ProgressStore
func NewProgressStore(db *DB) *ProgressStore {
	return &ProgressStore{db: db}
}

const progressColumns = `object_id, status, terminated, last_updated, done_units, total_units`

// Get retrieves the progress record for an object ID.
// Returns domain.ErrNotFound if no record exists.
func (s *ProgressStore) Get(ctx context.Context, objectID string) (*domain.EmbeddingProgress, error) {
	query := `
		SELECT ` + progressColumns + `
		FROM embedding_progress
		WHERE object_id = $1
	`

	var p domain.EmbeddingProgress
	err := s.db.QueryRowContext(ctx, query, domain.NormalizeObjectID(objectID)).Scan(
		&p.ObjectID,
		&p.Status,
		&p.Terminated,
		&p.LastUpdated,
		&p.DoneUnits,
		&p.TotalUnits,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// GetBatch retrieves progress records for multiple object IDs.
// Missing IDs are simply absent from the result map.
func (s *ProgressStore) GetBatch(ctx context.Context, objectIDs []string) (map[string]*domain.EmbeddingProgress, error) {
	result := make(map[string]*domain.EmbeddingProgress, len(objectIDs))
	if len(objectIDs) == 0 {
		return result, nil
	}

	normalized := make([]string, len(objectIDs))
	for i, id := range objectIDs {
		normalized[i] = domain.NormalizeObjectID(id)
	}

	query := `
		SELECT ` + progressColumns + `
		FROM embedding_progress
		WHERE object_id = ANY($1)
	`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(normalized))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.EmbeddingProgress
		err := rows.Scan(
			&p.ObjectID,
			&p.Status,
			&p.Terminated,
			&p.LastUpdated,
			&p.DoneUnits,
			&p.TotalUnits,
		)
		if err != nil {
			return nil, err
		}
		result[p.ObjectID] = &p
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Save upserts a progress record, refreshing LastUpdated
func (s *ProgressStore) Save(ctx context.Context, progress *domain.EmbeddingProgress) error {
	progress.LastUpdated = time.Now().UTC()

	query := `
		INSERT INTO embedding_progress (object_id, status, terminated, last_updated, done_units, total_units)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (object_id) DO UPDATE SET
			status = EXCLUDED.status,
			terminated = EXCLUDED.terminated,
			last_updated = EXCLUDED.last_updated,
			done_units = EXCLUDED.done_units,
			total_units = EXCLUDED.total_units
	`

	_, err := s.db.ExecContext(ctx, query,
		progress.ObjectID,
		string(progress.Status),
		progress.Terminated,
		progress.LastUpdated,
		progress.DoneUnits,
		progress.TotalUnits,
	)
	return err
}

// ListStale retrieves in-flight records whose LastUpdated is before cutoff.
// Terminated records are never returned.
func (s *ProgressStore) ListStale(ctx context.Context, cutoff time.Time) ([]*domain.EmbeddingProgress, error) {
	query := `
		SELECT ` + progressColumns + `
		FROM embedding_progress
		WHERE NOT terminated
		  AND status IN ($1, $2)
		  AND last_updated < $3
		ORDER BY last_updated ASC
	`

	rows, err := s.db.QueryContext(ctx, query,
		string(domain.ChunkStatusStarting),
		string(domain.ChunkStatusProcessing),
		cutoff,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stale []*domain.EmbeddingProgress
	for rows.Next() {
		var p domain.EmbeddingProgress
		err := rows.Scan(
			&p.ObjectID,
			&p.Status,
			&p.Terminated,
			&p.LastUpdated,
			&p.DoneUnits,
			&p.TotalUnits,
		)
		if err != nil {
			return nil, err
		}
		stale = append(stale, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stale, nil
}

// Delete removes a progress record
func (s *ProgressStore) Delete(ctx context.Context, objectID string) error {
	query := `DELETE FROM embedding_progress WHERE object_id = $1`
	_, err := s.db.ExecContext(ctx, query, domain.NormalizeObjectID(objectID))
	return err
}
