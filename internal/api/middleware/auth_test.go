package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vetcare/staff-auth/internal/core/domain"
	"github.com/vetcare/staff-auth/internal/core/ports"
)

type stubGuard struct {
	authenticateFn func(ctx context.Context, token string) (*domain.Principal, error)
}

func (s *stubGuard) Authenticate(ctx context.Context, token string) (*domain.Principal, error) {
	return s.authenticateFn(ctx, token)
}

func (s *stubGuard) Verify(context.Context, string) (*ports.VerifyResult, error) {
	return nil, errors.New("not used")
}

func acceptToken(want string) *stubGuard {
	return &stubGuard{authenticateFn: func(_ context.Context, token string) (*domain.Principal, error) {
		if token != want {
			return nil, domain.ErrUnauthorized
		}
		return &domain.Principal{IdentityID: 1, Username: "drsmith", Role: domain.RolePractitioner, Status: domain.StatusActive}, nil
	}}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth(acceptToken("good-token"), nil)
	handler := mw(func(c echo.Context) error {
		called = true
		p, _ := c.Get("principal").(*domain.Principal)
		if p == nil || p.Username != "drsmith" {
			t.Fatalf("principal not set: %+v", p)
		}
		if c.Get("role") != "practitioner" {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_LowercaseScheme(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer good-token")
	c := e.NewContext(req, httptest.NewRecorder())

	handler := Auth(acceptToken("good-token"), nil)(func(c echo.Context) error { return nil })
	if err := handler(c); err != nil {
		t.Fatalf("expected lowercase scheme to be accepted, got %v", err)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Token good-token",
		"no token":       "Bearer ",
		"invalid token":  "Bearer not-a-token",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			handler := Auth(acceptToken("good-token"), nil)(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); !errors.Is(err, domain.ErrUnauthorized) {
				t.Fatalf("expected ErrUnauthorized, got %v", err)
			}
		})
	}
}

func TestAuthMiddleware_GuardFailure(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	c := e.NewContext(req, httptest.NewRecorder())

	guard := &stubGuard{authenticateFn: func(context.Context, string) (*domain.Principal, error) {
		return nil, domain.ErrStoreUnavailable
	}}
	handler := Auth(guard, nil)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "BEARER abc.def.ghi")

	token, ok := BearerToken(req)
	if !ok || token != "abc.def.ghi" {
		t.Fatalf("unexpected token %q (ok=%v)", token, ok)
	}
}
