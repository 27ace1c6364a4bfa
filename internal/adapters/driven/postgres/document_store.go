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
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implements driven.DocumentStore using PostgreSQL
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Save creates or updates a document. The normalized object id is stored
// alongside the raw bucket/key so progress and grant lookups can join on it.
func (s *DocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO documents (id, bucket, key, object_id, user_id, pipeline_type, mime_type, tags, metadata, status, status_detail, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			bucket = EXCLUDED.bucket,
			key = EXCLUDED.key,
			object_id = EXCLUDED.object_id,
			user_id = EXCLUDED.user_id,
			pipeline_type = EXCLUDED.pipeline_type,
			mime_type = EXCLUDED.mime_type,
			tags = EXCLUDED.tags,
			metadata = EXCLUDED.metadata,
			status = EXCLUDED.status,
			status_detail = EXCLUDED.status_detail,
			updated_at = EXCLUDED.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		doc.ID,
		doc.Bucket,
		doc.Key,
		doc.ObjectID(),
		doc.UserID,
		string(doc.PipelineType),
		doc.MimeType,
		pq.Array(doc.Tags),
		metadataJSON,
		string(doc.Status),
		doc.StatusDetail,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

const documentColumns = `id, bucket, key, user_id, pipeline_type, mime_type, tags, metadata, status, status_detail, created_at, updated_at`

// Get retrieves a document by ID
func (s *DocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = $1
	`

	return s.scanDocument(s.db.QueryRowContext(ctx, query, id))
}

// GetByObjectID retrieves a document by its normalized object ID
func (s *DocumentStore) GetByObjectID(ctx context.Context, objectID string) (*domain.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE object_id = $1
	`

	return s.scanDocument(s.db.QueryRowContext(ctx, query, domain.NormalizeObjectID(objectID)))
}

// List retrieves documents with pagination, newest first
func (s *DocumentStore) List(ctx context.Context, limit, offset int) ([]*domain.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.scanDocuments(rows)
}

// ListByStatus retrieves documents in a given status with pagination
func (s *DocumentStore) ListByStatus(ctx context.Context, status domain.DocumentStatus, limit, offset int) ([]*domain.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, string(status), limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.scanDocuments(rows)
}

// UpdateStatus updates a document's status and detail message
func (s *DocumentStore) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, detail string) error {
	query := `
		UPDATE documents
		SET status = $2, status_detail = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := s.db.ExecContext(ctx, query, id, string(status), detail)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Delete deletes a document
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM documents WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Count returns total document count
func (s *DocumentStore) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM documents`
	var count int
	err := s.db.QueryRowContext(ctx, query).Scan(&count)
	return count, err
}

func (s *DocumentStore) scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	var mimeType, statusDetail sql.NullString
	var tags pq.StringArray
	var metadataJSON []byte

	err := row.Scan(
		&doc.ID,
		&doc.Bucket,
		&doc.Key,
		&doc.UserID,
		&doc.PipelineType,
		&mimeType,
		&tags,
		&metadataJSON,
		&doc.Status,
		&statusDetail,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	doc.MimeType = mimeType.String
	doc.StatusDetail = statusDetail.String
	doc.Tags = tags

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &doc.Metadata); err != nil {
			return nil, err
		}
	}

	return &doc, nil
}

func (s *DocumentStore) scanDocuments(rows *sql.Rows) ([]*domain.Document, error) {
	var docs []*domain.Document
	for rows.Next() {
		var doc domain.Document
		var mimeType, statusDetail sql.NullString
		var tags pq.StringArray
		var metadataJSON []byte

		err := rows.Scan(
			&doc.ID,
			&doc.Bucket,
			&doc.Key,
			&doc.UserID,
			&doc.PipelineType,
			&mimeType,
			&tags,
			&metadataJSON,
			&doc.Status,
			&statusDetail,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		doc.MimeType = mimeType.String
		doc.StatusDetail = statusDetail.String
		doc.Tags = tags

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &doc.Metadata); err != nil {
				return nil, err
			}
		}

		docs = append(docs, &doc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return docs, nil
}
