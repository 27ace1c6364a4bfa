package domain

import "time"

// Role defines API permission level
type Role string

const (
	RoleAdmin  Role = "admin"  // Manage grants, settings, documents
	RoleMember Role = "member" // Ingest and query
	RoleViewer Role = "viewer" // Query only
)

// AuthContext contains authenticated caller info for request context.
// Identity is issued by an external provider; this service only validates
// the bearer token and carries the claims through the request.
type AuthContext struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
}

// IsAdmin checks if the authenticated caller is an admin
func (a *AuthContext) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanIngest checks if the caller may register documents or queue embedding work
func (a *AuthContext) CanIngest() bool {
	return a.Role == RoleAdmin || a.Role == RoleMember
}

// TokenClaims represents the JWT token payload
type TokenClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// IsExpired checks if the token claims have expired
func (c *TokenClaims) IsExpired() bool {
	return time.Now().Unix() >= c.ExpiresAt
}
