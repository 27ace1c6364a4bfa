package domain

import "time"

// PrincipalType identifies what kind of principal holds a grant
type PrincipalType string

const (
	PrincipalUser  PrincipalType = "user"
	PrincipalGroup PrincipalType = "group"
)

// PermissionLevel is the strength of an access grant
type PermissionLevel string

const (
	PermissionRead  PermissionLevel = "read"
	PermissionWrite PermissionLevel = "write"
	PermissionOwner PermissionLevel = "owner"
)

// GrantsVisibility returns true if this level lets the principal see the
// object in retrieval. All known levels do; only unknown values deny.
func (l PermissionLevel) GrantsVisibility() bool {
	switch l {
	case PermissionRead, PermissionWrite, PermissionOwner:
		return true
	default:
		return false
	}
}

// AccessGrant ties an object to a principal at a permission level
type AccessGrant struct {
	ObjectID      string          `json:"object_id"`
	ObjectType    string          `json:"object_type"`
	PrincipalType PrincipalType   `json:"principal_type"`
	PrincipalID   string          `json:"principal_id"`
	Permission    PermissionLevel `json:"permission_level"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Group is a shared-visibility principal. A user qualifies for the group if
// it is public, they are a member or system user, or the external directory
// confirms membership in one of its federated groups.
type Group struct {
	ID              string            `json:"group_id"`
	IsPublic        bool              `json:"is_public"`
	Members         map[string]string `json:"members"` // user id -> role
	SystemUsers     []string          `json:"system_users,omitempty"`
	FederatedGroups []string          `json:"federated_groups,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// HasMember returns true if the user is a direct member
func (g *Group) HasMember(userID string) bool {
	if g.Members == nil {
		return false
	}
	_, ok := g.Members[userID]
	return ok
}

// HasSystemUser returns true if the user is registered as a system user
func (g *Group) HasSystemUser(userID string) bool {
	for _, u := range g.SystemUsers {
		if u == userID {
			return true
		}
	}
	return false
}

// AccessDecision splits a requested id set into what the user may query and
// what was denied. Denied ids are reported back to the caller and must never
// reach a vector-store predicate.
type AccessDecision struct {
	Accessible []string `json:"accessible"`
	Denied     []string `json:"accessDenied"`
}

// Merge folds another decision into this one, deduplicating ids. An id
// accessible in either decision is accessible in the result.
func (d *AccessDecision) Merge(other AccessDecision) {
	seen := make(map[string]bool, len(d.Accessible))
	for _, id := range d.Accessible {
		seen[id] = true
	}
	for _, id := range other.Accessible {
		if !seen[id] {
			d.Accessible = append(d.Accessible, id)
			seen[id] = true
		}
	}
	var denied []string
	for _, id := range d.Denied {
		if !seen[id] {
			denied = append(denied, id)
			seen[id] = true
		}
	}
	for _, id := range other.Denied {
		if !seen[id] {
			denied = append(denied, id)
			seen[id] = true
		}
	}
	d.Denied = denied
}
