package ports

import (
	"context"
	"time"

	"github.com/vetcare/staff-auth/internal/core/domain"
)

const TokenTypeBearer = "bearer"

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify never fails: a malformed stored hash simply does not match.
	Verify(plain, stored string) bool
}

// TokenCodec signs and verifies bearer tokens.
type TokenCodec interface {
	Issue(subject string, role domain.Role, identityID int64, ttl time.Duration) (string, *domain.Claims, error)
	// Verify returns domain.ErrTokenInvalid for any token that is malformed,
	// badly signed or expired.
	Verify(token string) (*domain.Claims, error)
}

// ProfileResolver builds the role-shaped profile of an identity.
type ProfileResolver interface {
	Resolve(ctx context.Context, identityID int64, role domain.Role) (*domain.Profile, error)
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
	Profile   *domain.Profile
}

// AuthService is the use-case boundary for credential checks.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Profile(ctx context.Context, principal *domain.Principal) (*domain.Profile, error)
	Logout(ctx context.Context, principal *domain.Principal) error
}

// VerifyResult reports whether a token currently maps to an active principal.
type VerifyResult struct {
	Valid     bool
	Principal *domain.Principal
}

// SessionGuard turns inbound bearer tokens into principals.
type SessionGuard interface {
	// Authenticate returns domain.ErrUnauthorized for any token that must not
	// be served, and domain.ErrStoreUnavailable when the check itself failed.
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
	Verify(ctx context.Context, token string) (*VerifyResult, error)
}
