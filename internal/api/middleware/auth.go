package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vetcare/staff-auth/internal/api/metrics"
	"github.com/vetcare/staff-auth/internal/core/domain"
	"github.com/vetcare/staff-auth/internal/core/ports"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// Auth authenticates the bearer token through guard and injects the
// resulting principal (and its role) into the context. m may be nil.
func Auth(guard ports.SessionGuard, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := BearerToken(c.Request())
			if !ok {
				m.ObserveTokenCheck(domain.ErrUnauthorized)
				return domain.ErrUnauthorized
			}

			principal, err := guard.Authenticate(c.Request().Context(), token)
			m.ObserveTokenCheck(err)
			if err != nil {
				return err
			}

			c.Set("principal", principal)
			c.Set("role", string(principal.Role))
			c.Set("username", principal.Username)

			return next(c)
		}
	}
}
