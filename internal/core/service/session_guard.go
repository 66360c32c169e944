package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/vetcare/staff-auth/internal/core/domain"
	"github.com/vetcare/staff-auth/internal/core/ports"
)

// SessionGuard rebuilds the caller's principal from a bearer token. Beyond
// signature and expiry it requires the identity to still exist and be active,
// so deactivating an account cuts off its outstanding tokens.
type SessionGuard struct {
	codec       ports.TokenCodec
	identities  ports.IdentityRepository
	revocations ports.RevocationStore
	tracer      trace.Tracer
	log         zerolog.Logger
}

// GuardOption customises a SessionGuard.
type GuardOption func(*SessionGuard)

// WithGuardTracing records authenticate spans on tp instead of the global provider.
func WithGuardTracing(tp trace.TracerProvider) GuardOption {
	return func(g *SessionGuard) { g.tracer = newTracer(tp) }
}

// NewSessionGuard builds a guard. revocations may be nil.
func NewSessionGuard(codec ports.TokenCodec, identities ports.IdentityRepository, revocations ports.RevocationStore, log zerolog.Logger, opts ...GuardOption) *SessionGuard {
	g := &SessionGuard{codec: codec, identities: identities, revocations: revocations, tracer: newTracer(nil), log: log}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *SessionGuard) Authenticate(ctx context.Context, token string) (_ *domain.Principal, err error) {
	ctx, span := g.tracer.Start(ctx, "session.authenticate")
	defer func() { endSpan(span, err) }()

	claims, err := g.codec.Verify(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	if g.revocations != nil && claims.ID != "" {
		revoked, err := g.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("authenticate: revocation check: %w: %w", domain.ErrStoreUnavailable, err)
		}
		if revoked {
			g.log.Debug().Str("username", claims.Subject).Str("jti", claims.ID).Msg("revoked token presented")
			return nil, domain.ErrUnauthorized
		}
	}

	identity, err := g.identities.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("authenticate: find identity: %w: %w", domain.ErrStoreUnavailable, err)
	}

	if !identity.IsActive() {
		g.log.Debug().Str("username", identity.Username).Msg("token presented for inactive account")
		return nil, domain.ErrUnauthorized
	}
	if identity.ID != claims.IdentityID {
		g.log.Warn().
			Str("username", identity.Username).
			Int64("token_identity_id", claims.IdentityID).
			Int64("identity_id", identity.ID).
			Msg("token identity does not match stored identity")
		return nil, domain.ErrUnauthorized
	}

	return &domain.Principal{
		IdentityID:     identity.ID,
		Username:       identity.Username,
		Role:           identity.Role,
		Status:         identity.Status,
		TokenID:        claims.ID,
		TokenExpiresAt: claims.ExpiresAt,
	}, nil
}

// Verify reports whether token is currently usable. Rejections are a
// result, not an error; only infrastructure failures are returned.
func (g *SessionGuard) Verify(ctx context.Context, token string) (*ports.VerifyResult, error) {
	principal, err := g.Authenticate(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return &ports.VerifyResult{Valid: false}, nil
		}
		return nil, err
	}
	return &ports.VerifyResult{Valid: true, Principal: principal}, nil
}
