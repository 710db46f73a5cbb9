package auth

import (
	"context"
	"time"

	"github.com/sparkmeet/sparkmeet-backend/internal/user"
)

// TokenService defines the interface for token creation and validation.
// Implementations include JWTService (HS256) and PasetoService (PASETO
// v4.local); config selects one at startup and both token kinds (access and
// refresh) are minted from the same signing key.
type TokenService interface {
	CreateToken(accountID string, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (accountID string, err error)
}

// UserRepository is the credential-store contract the session service
// depends on, implemented by user.Repository.
type UserRepository interface {
	Create(ctx context.Context, a *user.Account) (*user.Account, error)
	GetByEmail(ctx context.Context, email string) (*user.Account, error)
	GetByID(ctx context.Context, id string) (*user.Account, error)
	UpdateRefreshToken(ctx context.Context, id, token string) error
	MarkGoogleUser(ctx context.Context, id string) error
	UpdateProfile(ctx context.Context, id string, p user.ProfileUpdate) error
	Delete(ctx context.Context, id string) error
}

// IdentityVerifier validates a federated identity assertion and extracts the
// verified claims. The production implementation is GoogleVerifier; it is
// constructed once at startup and injected, never reached through a global.
type IdentityVerifier interface {
	Verify(ctx context.Context, assertion, audience string) (*IdentityClaims, error)
}
