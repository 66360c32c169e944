package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/vetcare/staff-auth/internal/core/domain"
)

// ctxPrincipal returns the principal injected by the Auth middleware. Its
// absence means the route was mounted without the middleware, so the request
// is treated as unauthenticated.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p, _ := c.Get("principal").(*domain.Principal)
	if p == nil {
		return nil, domain.ErrUnauthorized
	}
	return p, nil
}
