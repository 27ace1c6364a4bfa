package driving

import (
	"context"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
)

// AccessService decides document visibility and manages grants
type AccessService interface {
	// Classify partitions the given object IDs into accessible and denied
	// for the user. An object with no grant for the user is denied.
	Classify(ctx context.Context, userID string, objectIDs []string) (*domain.AccessDecision, error)

	// ClassifyGroup partitions group-scoped object IDs. An object is
	// accessible only when its group holds a visibility grant on it and
	// the user qualifies for that group; everything else is denied. The
	// caller's bearer token is forwarded to the group directory for
	// federated membership checks.
	ClassifyGroup(ctx context.Context, userID string, groupObjectIDs map[string][]string, token string) (*domain.AccessDecision, error)

	// CreateGrant records an access grant (admin only)
	CreateGrant(ctx context.Context, grant *domain.AccessGrant) error

	// DeleteGrant removes an access grant (admin only)
	DeleteGrant(ctx context.Context, objectID string, principalType domain.PrincipalType, principalID string) error

	// ListGrants retrieves all grants for an object
	ListGrants(ctx context.Context, objectID string) ([]*domain.AccessGrant, error)
}
