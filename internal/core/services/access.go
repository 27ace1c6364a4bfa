package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driving"
)

// Ensure accessService implements AccessService
var _ driving.AccessService = (*accessService)(nil)

// accessService implements the AccessService interface.
// Absence of a grant denies: an id is accessible only through an explicit
// grant, either to the user directly or to a group the user qualifies for.
type accessService struct {
	accessStore driven.AccessStore
	groups      driven.GroupDirectory
	logger      *slog.Logger
}

// NewAccessService creates a new AccessService
func NewAccessService(accessStore driven.AccessStore, groups driven.GroupDirectory, logger *slog.Logger) driving.AccessService {
	if logger == nil {
		logger = slog.Default()
	}
	return &accessService{
		accessStore: accessStore,
		groups:      groups,
		logger:      logger,
	}
}

// Classify partitions object IDs by the user's individual grants
func (s *accessService) Classify(ctx context.Context, userID string, objectIDs []string) (*domain.AccessDecision, error) {
	decision := &domain.AccessDecision{}
	if len(objectIDs) == 0 {
		return decision, nil
	}

	grants, err := s.accessStore.GetGrantsBatch(ctx, objectIDs)
	if err != nil {
		return nil, fmt.Errorf("load grants: %w", err)
	}

	for _, id := range objectIDs {
		if hasPrincipalGrant(grants[id], domain.PrincipalUser, userID) {
			decision.Accessible = append(decision.Accessible, id)
		} else {
			decision.Denied = append(decision.Denied, id)
		}
	}
	return decision, nil
}

// ClassifyGroup partitions group-scoped object IDs. An id is accessible
// only when the group holds a grant on it AND the user qualifies for the
// group; an id requested under several groups is accessible if any one
// of them lets it through.
func (s *accessService) ClassifyGroup(ctx context.Context, userID string, groupObjectIDs map[string][]string, token string) (*domain.AccessDecision, error) {
	decision := &domain.AccessDecision{}
	if len(groupObjectIDs) == 0 {
		return decision, nil
	}

	groupIDs := make([]string, 0, len(groupObjectIDs))
	var allIDs []string
	for groupID, ids := range groupObjectIDs {
		groupIDs = append(groupIDs, groupID)
		allIDs = append(allIDs, ids...)
	}

	groups, err := s.groups.GetGroups(ctx, groupIDs)
	if err != nil {
		// Qualification cannot be established, so nothing passes.
		s.logger.Warn("group lookup failed, denying group-scoped ids", "error", err)
		decision.Merge(domain.AccessDecision{Denied: allIDs})
		return decision, nil
	}

	grants, err := s.accessStore.GetGrantsBatch(ctx, allIDs)
	if err != nil {
		return nil, fmt.Errorf("load grants: %w", err)
	}

	for groupID, ids := range groupObjectIDs {
		qualified := false
		if group, ok := groups[groupID]; ok {
			qualified = s.qualifies(ctx, group, userID, token)
		} else {
			s.logger.Warn("unknown group requested", "group_id", groupID)
		}

		part := domain.AccessDecision{}
		for _, id := range ids {
			if qualified && hasPrincipalGrant(grants[id], domain.PrincipalGroup, groupID) {
				part.Accessible = append(part.Accessible, id)
			} else {
				part.Denied = append(part.Denied, id)
			}
		}
		decision.Merge(part)
	}
	return decision, nil
}

// qualifies reports whether the user may see objects shared with the group.
// Directory failures count as not qualified, never as a pass.
func (s *accessService) qualifies(ctx context.Context, group *domain.Group, userID, token string) bool {
	if group.IsPublic || group.HasMember(userID) || group.HasSystemUser(userID) {
		return true
	}
	if len(group.FederatedGroups) == 0 {
		return false
	}

	member, err := s.groups.CheckMembership(ctx, userID, group.FederatedGroups, token)
	if err != nil {
		s.logger.Warn("federated membership check failed",
			"group_id", group.ID,
			"user_id", userID,
			"error", err)
		return false
	}
	return member
}

// CreateGrant records an access grant (admin only)
func (s *accessService) CreateGrant(ctx context.Context, grant *domain.AccessGrant) error {
	if grant == nil || grant.ObjectID == "" || grant.PrincipalID == "" {
		return domain.ErrInvalidInput
	}
	if grant.PrincipalType != domain.PrincipalUser && grant.PrincipalType != domain.PrincipalGroup {
		return domain.ErrInvalidInput
	}
	if !grant.Permission.GrantsVisibility() {
		return domain.ErrInvalidInput
	}

	if grant.CreatedAt.IsZero() {
		grant.CreatedAt = time.Now()
	}
	return s.accessStore.SaveGrant(ctx, grant)
}

// DeleteGrant removes an access grant (admin only)
func (s *accessService) DeleteGrant(ctx context.Context, objectID string, principalType domain.PrincipalType, principalID string) error {
	return s.accessStore.DeleteGrant(ctx, objectID, principalType, principalID)
}

// ListGrants retrieves all grants for an object
func (s *accessService) ListGrants(ctx context.Context, objectID string) ([]*domain.AccessGrant, error) {
	return s.accessStore.GetGrants(ctx, objectID)
}

// hasPrincipalGrant reports whether any grant in the list gives the
// principal visibility on the object
func hasPrincipalGrant(grants []*domain.AccessGrant, principalType domain.PrincipalType, principalID string) bool {
	for _, g := range grants {
		if g.PrincipalType == principalType && g.PrincipalID == principalID && g.Permission.GrantsVisibility() {
			return true
		}
	}
	return false
}
