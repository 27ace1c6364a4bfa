package driven

import "github.com/custodia-labs/vectra-core/internal/core/domain"

// TokenService handles bearer token cryptographic operations.
// Tokens are minted by the deployment's identity provider with a shared
// secret; this service only validates and, for tests and tooling, signs.
type TokenService interface {
	// GenerateToken signs a token for the given claims
	GenerateToken(claims *domain.TokenClaims) (string, error)

	// ParseToken validates a token and returns its claims
	ParseToken(token string) (*domain.TokenClaims, error)
}
