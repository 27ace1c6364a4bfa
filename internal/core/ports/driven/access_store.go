package driven

import (
	"context"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// AccessStore persists access grants (PostgreSQL)
type AccessStore interface {
	// GetGrants retrieves all grants for a single object
	GetGrants(ctx context.Context, objectID string) ([]*domain.AccessGrant, error)

	// GetGrantsBatch retrieves grants for multiple objects in one query.
	// Objects with no grants are absent from the result map.
	GetGrantsBatch(ctx context.Context, objectIDs []string) (map[string][]*domain.AccessGrant, error)

	// SaveGrant creates or updates a grant
	SaveGrant(ctx context.Context, grant *domain.AccessGrant) error

	// DeleteGrant removes a grant
	DeleteGrant(ctx context.Context, objectID string, principalType domain.PrincipalType, principalID string) error

	// DeleteGrantsForObject removes all grants for an object
	DeleteGrantsForObject(ctx context.Context, objectID string) error
}

// GroupDirectory resolves group definitions for access qualification.
// Groups are owned by an external directory service; implementations
// may cache lookups.
type GroupDirectory interface {
	// GetGroups resolves the given group IDs.
	// Unknown IDs are absent from the result map; a lookup failure for
	// the whole batch returns an error.
	GetGroups(ctx context.Context, groupIDs []string) (map[string]*domain.Group, error)

	// CheckMembership reports whether the user belongs to any of the
	// named federated groups. The caller's bearer token is forwarded so
	// the directory can apply its own authorization.
	CheckMembership(ctx context.Context, userID string, federatedGroups []string, token string) (bool, error)
}
