package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vetcare/staff-auth/internal/api/metrics"
	"github.com/vetcare/staff-auth/internal/api/middleware"
	"github.com/vetcare/staff-auth/internal/core/domain"
	"github.com/vetcare/staff-auth/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	guard       ports.SessionGuard
	metrics     *metrics.Metrics
}

// NewAuthHandler builds the auth endpoints. m may be nil.
func NewAuthHandler(authService ports.AuthService, guard ports.SessionGuard, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{authService: authService, guard: guard, metrics: m}
}

// Login authenticates a staff member and returns a bearer token with the
// full profile.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest   true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      422   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	start := time.Now()
	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	h.metrics.ObserveLogin(err, time.Since(start))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toLoginResponse(result))
}

// Profile returns the authenticated caller's current profile.
//
// @Summary      Current profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /auth/profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	profile, err := h.authService.Profile(c.Request().Context(), principal)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toProfileResponse(profile))
}

// VerifyToken reports whether the bearer token in the Authorization header
// is still usable.
//
// @Summary      Verify token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  verifyResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /auth/verify-token [get]
func (h *AuthHandler) VerifyToken(c echo.Context) error {
	token, ok := middleware.BearerToken(c.Request())
	if !ok {
		h.metrics.ObserveTokenCheck(domain.ErrUnauthorized)
		return domain.ErrUnauthorized
	}

	result, err := h.guard.Verify(c.Request().Context(), token)
	if err != nil {
		h.metrics.ObserveTokenCheck(err)
		return err
	}
	if !result.Valid {
		h.metrics.ObserveTokenCheck(domain.ErrUnauthorized)
		return domain.ErrUnauthorized
	}

	h.metrics.ObserveTokenCheck(nil)
	return c.JSON(http.StatusOK, toVerifyResponse(result.Principal))
}

// Logout ends the caller's session. When revocation is enabled the presented
// token stops being accepted immediately.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), principal); err != nil {
		return err
	}
	h.metrics.ObserveLogout()

	return c.JSON(http.StatusOK, messageResponse{Message: "successfully logged out"})
}
