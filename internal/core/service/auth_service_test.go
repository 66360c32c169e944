package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/vetcare/staff-auth/internal/core/domain"
	"github.com/vetcare/staff-auth/internal/core/ports"
)

type authFixture struct {
	svc        *AuthService
	identities *stubIdentityRepo
	profiles   *stubProfileRepo
	codec      *JWTCodec
}

func mustHash(t *testing.T, h *BcryptHasher, password string) string {
	t.Helper()
	hash, err := h.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return hash
}

func newAuthFixture(t *testing.T, opts ...AuthOption) *authFixture {
	t.Helper()
	hasher := NewBcryptHasher(bcrypt.MinCost)
	created := time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)

	identities := newStubIdentityRepo(
		&domain.Identity{ID: 1, Username: "drsmith", PasswordHash: mustHash(t, hasher, "correct"), Role: domain.RolePractitioner, Status: domain.StatusActive, CreatedAt: created},
		&domain.Identity{ID: 2, Username: "desk", PasswordHash: mustHash(t, hasher, "desk-pass"), Role: domain.RoleFrontDesk, Status: domain.StatusActive, CreatedAt: created},
		&domain.Identity{ID: 3, Username: "admin", PasswordHash: mustHash(t, hasher, "admin-pass"), Role: domain.RoleAdministrator, Status: domain.StatusActive, CreatedAt: created},
		&domain.Identity{ID: 4, Username: "olduser", PasswordHash: mustHash(t, hasher, "old-pass"), Role: domain.RolePractitioner, Status: domain.StatusInactive, CreatedAt: created},
		&domain.Identity{ID: 5, Username: "orphan", PasswordHash: mustHash(t, hasher, "orphan-pass"), Role: domain.RolePractitioner, Status: domain.StatusActive, CreatedAt: created},
	)
	profiles := newStubProfileRepo()
	seedProfiles(profiles)

	codec := newTestCodec(t)
	svc, err := NewAuthService(identities, hasher, NewProfileResolver(profiles, zerolog.Nop()), codec, 30*time.Minute, zerolog.Nop(), opts...)
	if err != nil {
		t.Fatalf("NewAuthService returned error: %v", err)
	}
	return &authFixture{svc: svc, identities: identities, profiles: profiles, codec: codec}
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(t)

	before := time.Now()
	res, err := f.svc.Login(context.Background(), "drsmith", "correct")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.TokenType != ports.TokenTypeBearer {
		t.Fatalf("unexpected token type: %q", res.TokenType)
	}
	if res.ExpiresAt.Before(before.Add(29*time.Minute)) || res.ExpiresAt.After(time.Now().Add(31*time.Minute)) {
		t.Fatalf("unexpected expiry: %v", res.ExpiresAt)
	}

	d, ok := res.Profile.Practitioner()
	if !ok {
		t.Fatalf("expected practitioner profile, got %T", res.Profile.Details)
	}
	if d.Type == nil || *d.Type != domain.PractitionerSpecialized || d.LicenseCode == nil || *d.LicenseCode != "VET-1234" {
		t.Fatalf("unexpected practitioner details: %+v", d)
	}

	claims, err := f.codec.Verify(res.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Subject != "drsmith" || claims.Role != domain.RolePractitioner || claims.IdentityID != 1 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthService_Login_EachRole(t *testing.T) {
	f := newAuthFixture(t)

	cases := []struct {
		username, password string
		role               domain.Role
	}{
		{"desk", "desk-pass", domain.RoleFrontDesk},
		{"admin", "admin-pass", domain.RoleAdministrator},
	}
	for _, tc := range cases {
		res, err := f.svc.Login(context.Background(), tc.username, tc.password)
		if err != nil {
			t.Fatalf("Login(%s) returned error: %v", tc.username, err)
		}
		if res.Profile.Role != tc.role || res.Profile.Details.Role() != tc.role {
			t.Fatalf("Login(%s): unexpected role %q / details %T", tc.username, res.Profile.Role, res.Profile.Details)
		}
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	f := newAuthFixture(t)

	res, err := f.svc.Login(context.Background(), "drsmith", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if res != nil {
		t.Fatalf("expected no result on failure")
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	f := newAuthFixture(t)

	if _, err := f.svc.Login(context.Background(), "nobody", "correct"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_InactiveBeforePassword(t *testing.T) {
	f := newAuthFixture(t)

	// the status check precedes the password check, so any password reports inactive
	for _, password := range []string{"old-pass", "wrong"} {
		if _, err := f.svc.Login(context.Background(), "olduser", password); !errors.Is(err, domain.ErrAccountInactive) {
			t.Fatalf("Login(olduser, %q): expected ErrAccountInactive, got %v", password, err)
		}
	}
}

func TestAuthService_Login_ProfileMissing(t *testing.T) {
	f := newAuthFixture(t)

	if _, err := f.svc.Login(context.Background(), "orphan", "orphan-pass"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestAuthService_Login_UnknownRole(t *testing.T) {
	f := newAuthFixture(t)
	f.identities.identities["drsmith"].Role = domain.Role("groomer")

	if _, err := f.svc.Login(context.Background(), "drsmith", "correct"); !errors.Is(err, domain.ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
}

func TestAuthService_Login_StoreUnavailable(t *testing.T) {
	f := newAuthFixture(t)
	f.identities.err = errStoreDown

	_, err := f.svc.Login(context.Background(), "drsmith", "correct")
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("store failure must not look like bad credentials")
	}
}

func TestAuthService_Profile(t *testing.T) {
	f := newAuthFixture(t)

	p, err := f.svc.Profile(context.Background(), &domain.Principal{IdentityID: 2, Username: "desk", Role: domain.RoleFrontDesk})
	if err != nil {
		t.Fatalf("Profile returned error: %v", err)
	}
	if _, ok := p.FrontDesk(); !ok {
		t.Fatalf("expected front desk profile, got %T", p.Details)
	}

	if _, err := f.svc.Profile(context.Background(), nil); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for nil principal, got %v", err)
	}
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	revocations := newStubRevocations()
	f := newAuthFixture(t, WithRevocationStore(revocations))
	expires := time.Now().Add(10 * time.Minute)

	err := f.svc.Logout(context.Background(), &domain.Principal{Username: "drsmith", TokenID: "jti-1", TokenExpiresAt: expires})
	if err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	until, ok := revocations.revoked["jti-1"]
	if !ok {
		t.Fatalf("expected token to be revoked")
	}
	if !until.Equal(expires) {
		t.Fatalf("expected revocation until %v, got %v", expires, until)
	}
}

func TestAuthService_Logout_WithoutRevocationStore(t *testing.T) {
	f := newAuthFixture(t)

	if err := f.svc.Logout(context.Background(), &domain.Principal{Username: "drsmith", TokenID: "jti-1"}); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
}

func TestAuthService_Logout_LogsWhetherRevoked(t *testing.T) {
	revocations := newStubRevocations()
	f := newAuthFixture(t, WithRevocationStore(revocations))

	cases := []struct {
		name        string
		principal   *domain.Principal
		wantRevoked bool
	}{
		{"with token id", &domain.Principal{Username: "drsmith", TokenID: "jti-1", TokenExpiresAt: time.Now().Add(time.Minute)}, true},
		{"without token id", &domain.Principal{Username: "drsmith"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			f.svc.log = zerolog.New(&buf)

			if err := f.svc.Logout(context.Background(), tc.principal); err != nil {
				t.Fatalf("Logout returned error: %v", err)
			}
			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("invalid log line %q: %v", buf.String(), err)
			}
			if entry["revoked"] != tc.wantRevoked {
				t.Fatalf("expected revoked=%v in log, got %+v", tc.wantRevoked, entry)
			}
		})
	}
	if len(revocations.revoked) != 1 {
		t.Fatalf("expected exactly one revoked token, got %v", revocations.revoked)
	}
}

func TestAuthService_Logout_RevocationFailure(t *testing.T) {
	revocations := newStubRevocations()
	revocations.err = errStoreDown
	f := newAuthFixture(t, WithRevocationStore(revocations))

	err := f.svc.Logout(context.Background(), &domain.Principal{Username: "drsmith", TokenID: "jti-1", TokenExpiresAt: time.Now().Add(time.Minute)})
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestNewAuthService_DefaultTTL(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)
	svc, err := NewAuthService(newStubIdentityRepo(), hasher, NewProfileResolver(newStubProfileRepo(), zerolog.Nop()), newTestCodec(t), 0, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAuthService returned error: %v", err)
	}
	if svc.tokenTTL != DefaultTokenTTL {
		t.Fatalf("expected default ttl %v, got %v", DefaultTokenTTL, svc.tokenTTL)
	}
}
