package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.VDRStore = (*VDRStore)(nil)

// VDRStore implements driven.VDRStore using PostgreSQL. Page embeddings
// are multi-vector (one vector per image patch), so they are stored as
// JSONB rather than pgvector columns; scoring happens in the service via
// late interaction, not in SQL.
type VDRStore struct {
	db *DB
}

// NewVDRStore creates a new VDRStore
func NewVDRStore(db *DB) *VDRStore {
	return &VDRStore{db: db}
}

// SavePages upserts page records, keyed by (document_id, page_num)
func (s *VDRStore) SavePages(ctx context.Context, pages []*domain.VDRPage) error {
	if len(pages) == 0 {
		return nil
	}

	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO vdr_pages (document_id, page_num, vectors, num_vectors, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (document_id, page_num) DO UPDATE SET
				vectors = EXCLUDED.vectors,
				num_vectors = EXCLUDED.num_vectors
		`

		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, page := range pages {
			vectors, err := json.Marshal(page.Vectors)
			if err != nil {
				return err
			}

			_, err = stmt.ExecContext(ctx,
				page.DocumentID,
				page.PageNum,
				vectors,
				len(page.Vectors),
				page.CreatedAt,
			)
			if err != nil {
				return err
			}
		}

		return nil
	})
}

// GetPagesByDocuments retrieves all pages for the given document IDs
func (s *VDRStore) GetPagesByDocuments(ctx context.Context, documentIDs []string) ([]*domain.VDRPage, error) {
	if len(documentIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT document_id, page_num, vectors, num_vectors, created_at
		FROM vdr_pages
		WHERE document_id = ANY($1)
		ORDER BY document_id ASC, page_num ASC
	`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(documentIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*domain.VDRPage
	for rows.Next() {
		var page domain.VDRPage
		var vectors []byte

		err := rows.Scan(
			&page.DocumentID,
			&page.PageNum,
			&vectors,
			&page.NumVectors,
			&page.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if len(vectors) > 0 {
			if err := json.Unmarshal(vectors, &page.Vectors); err != nil {
				return nil, err
			}
		}

		pages = append(pages, &page)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return pages, nil
}

// CountByDocument returns the number of pages stored for a document
func (s *VDRStore) CountByDocument(ctx context.Context, documentID string) (int, error) {
	query := `SELECT COUNT(*) FROM vdr_pages WHERE document_id = $1`
	var count int
	err := s.db.QueryRowContext(ctx, query, documentID).Scan(&count)
	return count, err
}

// DeleteByDocument removes all pages for a document
func (s *VDRStore) DeleteByDocument(ctx context.Context, documentID string) error {
	query := `DELETE FROM vdr_pages WHERE document_id = $1`
	_, err := s.db.ExecContext(ctx, query, documentID)
	return err
}
