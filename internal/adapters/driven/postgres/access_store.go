package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.AccessStore = (*AccessStore)(nil)

// AccessStore implements driven.AccessStore using PostgreSQL
type AccessStore struct {
	db *DB
}

// NewAccessStore creates a new AccessStore
func NewAccessStore(db *DB) *AccessStore {
	return &AccessStore{db: db}
}

const grantColumns = `object_id, object_type, principal_type, principal_id, permission_level, created_at`

// GetGrants retrieves all grants for a single object
func (s *AccessStore) GetGrants(ctx context.Context, objectID string) ([]*domain.AccessGrant, error) {
	query := `
		SELECT ` + grantColumns + `
		FROM access_grants
		WHERE object_id = $1
		ORDER BY principal_type ASC, principal_id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, objectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.scanGrants(rows)
}

// GetGrantsBatch retrieves grants for multiple objects in one query.
// Objects with no grants are absent from the result map.
func (s *AccessStore) GetGrantsBatch(ctx context.Context, objectIDs []string) (map[string][]*domain.AccessGrant, error) {
	result := make(map[string][]*domain.AccessGrant, len(objectIDs))
	if len(objectIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT ` + grantColumns + `
		FROM access_grants
		WHERE object_id = ANY($1)
		ORDER BY object_id ASC, principal_type ASC, principal_id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(objectIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grants, err := s.scanGrants(rows)
	if err != nil {
		return nil, err
	}

	for _, grant := range grants {
		result[grant.ObjectID] = append(result[grant.ObjectID], grant)
	}

	return result, nil
}

// SaveGrant creates or updates a grant
func (s *AccessStore) SaveGrant(ctx context.Context, grant *domain.AccessGrant) error {
	query := `
		INSERT INTO access_grants (object_id, object_type, principal_type, principal_id, permission_level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (object_id, principal_type, principal_id) DO UPDATE SET
			object_type = EXCLUDED.object_type,
			permission_level = EXCLUDED.permission_level
	`

	_, err := s.db.ExecContext(ctx, query,
		grant.ObjectID,
		grant.ObjectType,
		string(grant.PrincipalType),
		grant.PrincipalID,
		string(grant.Permission),
		grant.CreatedAt,
	)
	return err
}

// DeleteGrant removes a grant
func (s *AccessStore) DeleteGrant(ctx context.Context, objectID string, principalType domain.PrincipalType, principalID string) error {
	query := `
		DELETE FROM access_grants
		WHERE object_id = $1 AND principal_type = $2 AND principal_id = $3
	`

	result, err := s.db.ExecContext(ctx, query, objectID, string(principalType), principalID)
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

// DeleteGrantsForObject removes all grants for an object
func (s *AccessStore) DeleteGrantsForObject(ctx context.Context, objectID string) error {
	query := `DELETE FROM access_grants WHERE object_id = $1`
	_, err := s.db.ExecContext(ctx, query, objectID)
	return err
}

func (s *AccessStore) scanGrants(rows *sql.Rows) ([]*domain.AccessGrant, error) {
	var grants []*domain.AccessGrant
	for rows.Next() {
		var grant domain.AccessGrant
		err := rows.Scan(
			&grant.ObjectID,
			&grant.ObjectType,
			&grant.PrincipalType,
			&grant.PrincipalID,
			&grant.Permission,
			&grant.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		grants = append(grants, &grant)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return grants, nil
}
