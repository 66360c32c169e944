package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vetcare/staff-auth/internal/core/domain"
)

// accessClaims is the JWT body. Subject carries the username.
type accessClaims struct {
	Role       string `json:"role"`
	IdentityID int64  `json:"identity_id"`
	jwt.RegisteredClaims
}

// JWTCodec implements ports.TokenCodec with HMAC-signed JWTs.
type JWTCodec struct {
	secret []byte
	method jwt.SigningMethod
	issuer string
	now    func() time.Time
}

// CodecOption customises a JWTCodec.
type CodecOption func(*JWTCodec)

// WithIssuer sets the iss claim on issued tokens and requires it on verification.
func WithIssuer(issuer string) CodecOption {
	return func(c *JWTCodec) { c.issuer = issuer }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *JWTCodec) { c.now = now }
}

// NewJWTCodec builds a codec for one of the HMAC algorithms (HS256, HS384, HS512).
func NewJWTCodec(secret []byte, algorithm string, opts ...CodecOption) (*JWTCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token codec: signing secret is empty")
	}
	if algorithm == "" {
		algorithm = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("token codec: unsupported signing algorithm %q", algorithm)
	}

	c := &JWTCodec{secret: secret, method: method, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs a token for subject that expires ttl from now.
func (c *JWTCodec) Issue(subject string, role domain.Role, identityID int64, ttl time.Duration) (string, *domain.Claims, error) {
	if ttl <= 0 {
		return "", nil, fmt.Errorf("token codec: ttl must be positive, got %s", ttl)
	}

	now := c.now().UTC().Truncate(jwt.TimePrecision)
	claims := accessClaims{
		Role:       string(role),
		IdentityID: identityID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", nil, fmt.Errorf("token codec: sign: %w", err)
	}
	return signed, toDomainClaims(&claims), nil
}

// Verify checks algorithm, signature and expiry. Every failure collapses to
// domain.ErrTokenInvalid.
func (c *JWTCodec) Verify(token string) (*domain.Claims, error) {
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	var claims accessClaims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, opts...)
	if err != nil || !tkn.Valid {
		return nil, domain.ErrTokenInvalid
	}

	if claims.Subject == "" || claims.IdentityID <= 0 || !domain.Role(claims.Role).Valid() {
		return nil, domain.ErrTokenInvalid
	}
	return toDomainClaims(&claims), nil
}

func toDomainClaims(c *accessClaims) *domain.Claims {
	out := &domain.Claims{
		ID:         c.ID,
		Subject:    c.Subject,
		Role:       domain.Role(c.Role),
		IdentityID: c.IdentityID,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time.UTC()
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time.UTC()
	}
	return out
}
