package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore implements driven.ChunkStore using PostgreSQL with pgvector.
// Chunks are keyed by (src, ordinal); both the content embedding and the
// question-form embedding live on the same row.
type ChunkStore struct {
	db *DB
}

// NewChunkStore creates a new ChunkStore
func NewChunkStore(db *DB) *ChunkStore {
	return &ChunkStore{db: db}
}

const chunkUpsert = `
	INSERT INTO chunks (src, ordinal, content, locations, orig_indexes, char_index, token_count, embedding, qa_embedding, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8::vector, $9::vector, $10)
	ON CONFLICT (src, ordinal) DO UPDATE SET
		content = EXCLUDED.content,
		locations = EXCLUDED.locations,
		orig_indexes = EXCLUDED.orig_indexes,
		char_index = EXCLUDED.char_index,
		token_count = EXCLUDED.token_count,
		embedding = EXCLUDED.embedding,
		qa_embedding = EXCLUDED.qa_embedding
`

// SaveBatch upserts chunks in a transaction. Re-chunking a document
// overwrites existing ordinals in place; embeddings not yet produced are
// stored as NULL, which keeps the rows out of vector searches.
func (s *ChunkStore) SaveBatch(ctx context.Context, chunks []*domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, chunkUpsert)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, chunk := range chunks {
			locations, err := json.Marshal(chunk.Locations)
			if err != nil {
				return err
			}
			origIndexes, err := json.Marshal(chunk.OrigIndexes)
			if err != nil {
				return err
			}

			_, err = stmt.ExecContext(ctx,
				chunk.Src,
				chunk.ID,
				chunk.Content,
				locations,
				origIndexes,
				chunk.CharIndex,
				chunk.TokenCount,
				vectorParam(chunk.Embedding),
				vectorParam(chunk.QAEmbedding),
				chunk.CreatedAt,
			)
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// DeleteSurplus removes chunks of a source with ordinal >= keep.
// Used when a re-chunked document produced fewer chunks than before.
func (s *ChunkStore) DeleteSurplus(ctx context.Context, src string, keep int) error {
	query := `DELETE FROM chunks WHERE src = $1 AND ordinal >= $2`
	_, err := s.db.ExecContext(ctx, query, src, keep)
	return err
}

const chunkColumns = `src, ordinal, content, locations, orig_indexes, char_index, token_count, created_at`

// GetBySrc retrieves all chunks for a source, ordered by ordinal.
// Embedding columns are not loaded.
func (s *ChunkStore) GetBySrc(ctx context.Context, src string) ([]*domain.Chunk, error) {
	query := `
		SELECT ` + chunkColumns + `
		FROM chunks
		WHERE src = $1
		ORDER BY ordinal ASC
	`

	rows, err := s.db.QueryContext(ctx, query, src)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.scanChunks(rows)
}

// GetBySrcs retrieves all chunks for the given sources, used for sparse
// scoring over the candidate set. Embedding columns are not loaded.
func (s *ChunkStore) GetBySrcs(ctx context.Context, srcs []string) ([]*domain.Chunk, error) {
	if len(srcs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + chunkColumns + `
		FROM chunks
		WHERE src = ANY($1)
		ORDER BY src ASC, ordinal ASC
	`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(srcs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.scanChunks(rows)
}

// CountBySrc returns the number of chunks stored for a source
func (s *ChunkStore) CountBySrc(ctx context.Context, src string) (int, error) {
	query := `SELECT COUNT(*) FROM chunks WHERE src = $1`
	var count int
	err := s.db.QueryRowContext(ctx, query, src).Scan(&count)
	return count, err
}

// SearchDense returns the topK nearest chunks to the query embedding over
// the content embeddings, restricted to the given sources. Score is the
// inner product (higher is more similar).
func (s *ChunkStore) SearchDense(ctx context.Context, embedding []float32, srcs []string, topK int) ([]*domain.RankedChunk, error) {
	return s.searchColumn(ctx, "embedding", embedding, srcs, topK)
}

// SearchQA returns the topK nearest chunks to the query embedding over the
// question-form embeddings, restricted to the given sources.
func (s *ChunkStore) SearchQA(ctx context.Context, embedding []float32, srcs []string, topK int) ([]*domain.RankedChunk, error) {
	return s.searchColumn(ctx, "qa_embedding", embedding, srcs, topK)
}

// searchColumn runs a nearest-neighbor scan over one embedding column.
// pgvector's <#> operator yields the negated inner product, so ordering
// ascending surfaces the most similar rows first.
func (s *ChunkStore) searchColumn(ctx context.Context, column string, embedding []float32, srcs []string, topK int) ([]*domain.RankedChunk, error) {
	if len(embedding) == 0 || len(srcs) == 0 || topK <= 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT `+chunkColumns+`, (%s <#> $1::vector) * -1 AS score
		FROM chunks
		WHERE src = ANY($2) AND %s IS NOT NULL
		ORDER BY %s <#> $1::vector ASC
		LIMIT $3
	`, column, column, column)

	rows, err := s.db.QueryContext(ctx, query, pgvector.NewVector(embedding), pq.Array(srcs), topK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ranked []*domain.RankedChunk
	for rows.Next() {
		var rc domain.RankedChunk
		var locations, origIndexes []byte

		err := rows.Scan(
			&rc.Src,
			&rc.ID,
			&rc.Content,
			&locations,
			&origIndexes,
			&rc.CharIndex,
			&rc.TokenCount,
			&rc.CreatedAt,
			&rc.Score,
		)
		if err != nil {
			return nil, err
		}
		if err := unmarshalChunkJSON(&rc.Chunk, locations, origIndexes); err != nil {
			return nil, err
		}

		ranked = append(ranked, &rc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ranked, nil
}

// DeleteBySrc deletes all chunks for a source
func (s *ChunkStore) DeleteBySrc(ctx context.Context, src string) error {
	query := `DELETE FROM chunks WHERE src = $1`
	_, err := s.db.ExecContext(ctx, query, src)
	return err
}

func (s *ChunkStore) scanChunks(rows *sql.Rows) ([]*domain.Chunk, error) {
	var chunks []*domain.Chunk
	for rows.Next() {
		var chunk domain.Chunk
		var locations, origIndexes []byte

		err := rows.Scan(
			&chunk.Src,
			&chunk.ID,
			&chunk.Content,
			&locations,
			&origIndexes,
			&chunk.CharIndex,
			&chunk.TokenCount,
			&chunk.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := unmarshalChunkJSON(&chunk, locations, origIndexes); err != nil {
			return nil, err
		}

		chunks = append(chunks, &chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return chunks, nil
}

// vectorParam converts a float slice to a pgvector bind parameter,
// mapping empty slices to NULL so unembedded chunks stay out of
// nearest-neighbor scans.
func vectorParam(embedding []float32) any {
	if len(embedding) == 0 {
		return nil
	}
	return pgvector.NewVector(embedding)
}

func unmarshalChunkJSON(chunk *domain.Chunk, locations, origIndexes []byte) error {
	if len(locations) > 0 {
		if err := json.Unmarshal(locations, &chunk.Locations); err != nil {
			return err
		}
	}
	if len(origIndexes) > 0 {
		if err := json.Unmarshal(origIndexes, &chunk.OrigIndexes); err != nil {
			return err
		}
	}
	return nil
}
