package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vetcare/staff-auth/internal/core/domain"
	"github.com/vetcare/staff-auth/internal/core/ports"
)

const DefaultTokenTTL = 30 * time.Minute

// dummyPassword is hashed once at construction so that a login for an unknown
// username spends the same bcrypt work as a wrong password.
const dummyPassword = "staff-auth/timing-equaliser"

// AuthService implements login, profile lookup and logout.
type AuthService struct {
	identities  ports.IdentityRepository
	hasher      ports.PasswordHasher
	profiles    ports.ProfileResolver
	codec       ports.TokenCodec
	revocations ports.RevocationStore
	tokenTTL    time.Duration
	dummyHash   string
	tracer      trace.Tracer
	log         zerolog.Logger
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithRevocationStore enables token revocation on logout.
func WithRevocationStore(store ports.RevocationStore) AuthOption {
	return func(s *AuthService) { s.revocations = store }
}

// WithAuthTracing records login spans on tp instead of the global provider.
func WithAuthTracing(tp trace.TracerProvider) AuthOption {
	return func(s *AuthService) { s.tracer = newTracer(tp) }
}

func NewAuthService(
	identities ports.IdentityRepository,
	hasher ports.PasswordHasher,
	profiles ports.ProfileResolver,
	codec ports.TokenCodec,
	tokenTTL time.Duration,
	log zerolog.Logger,
	opts ...AuthOption,
) (*AuthService, error) {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("auth service: prepare dummy hash: %w", err)
	}

	s := &AuthService{
		identities: identities,
		hasher:     hasher,
		profiles:   profiles,
		codec:      codec,
		tokenTTL:   tokenTTL,
		dummyHash:  dummy,
		tracer:     newTracer(nil),
		log:        log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Login checks, in order, that the username exists, that the account is
// active and that the password matches; then resolves the profile and issues
// a token. An inactive account is reported before the password is checked,
// so account state is observable to anyone who knows a username.
func (s *AuthService) Login(ctx context.Context, username, password string) (_ *ports.LoginResult, err error) {
	ctx, span := s.tracer.Start(ctx, "auth.login")
	defer func() { endSpan(span, err) }()

	identity, err := s.identities.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			s.log.Info().Str("username", username).Str("reason", "unknown_user").Msg("login rejected")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: find identity: %w: %w", domain.ErrStoreUnavailable, err)
	}
	span.SetAttributes(attribute.Int64("identity.id", identity.ID), attribute.String("identity.role", string(identity.Role)))

	if !identity.IsActive() {
		s.log.Info().Str("username", username).Str("reason", "inactive").Msg("login rejected")
		return nil, domain.ErrAccountInactive
	}

	if !s.hasher.Verify(password, identity.PasswordHash) {
		s.log.Info().Str("username", username).Str("reason", "bad_password").Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	profile, err := s.profiles.Resolve(ctx, identity.ID, identity.Role)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	token, claims, err := s.codec.Issue(identity.Username, identity.Role, identity.ID, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	s.log.Info().
		Int64("identity_id", identity.ID).
		Str("username", identity.Username).
		Str("role", string(identity.Role)).
		Time("expires_at", claims.ExpiresAt).
		Msg("login succeeded")

	return &ports.LoginResult{
		Token:     token,
		TokenType: ports.TokenTypeBearer,
		ExpiresAt: claims.ExpiresAt,
		Profile:   profile,
	}, nil
}

// Profile returns the current profile of an authenticated principal.
func (s *AuthService) Profile(ctx context.Context, principal *domain.Principal) (*domain.Profile, error) {
	if principal == nil {
		return nil, domain.ErrUnauthorized
	}
	profile, err := s.profiles.Resolve(ctx, principal.IdentityID, principal.Role)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return profile, nil
}

// Logout revokes the presenting token when a revocation store is configured.
// Without one it only records the event; the client is expected to discard
// the token.
func (s *AuthService) Logout(ctx context.Context, principal *domain.Principal) error {
	if principal == nil {
		return domain.ErrUnauthorized
	}
	revoked := false
	if s.revocations != nil && principal.TokenID != "" {
		if err := s.revocations.Revoke(ctx, principal.TokenID, principal.TokenExpiresAt); err != nil {
			return fmt.Errorf("logout: revoke token: %w: %w", domain.ErrStoreUnavailable, err)
		}
		revoked = true
	}
	s.log.Info().Str("username", principal.Username).Bool("revoked", revoked).Msg("logout")
	return nil
}
