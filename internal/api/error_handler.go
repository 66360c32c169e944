package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vetcare/staff-auth/internal/api/handler"
	"github.com/vetcare/staff-auth/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs server-side faults with the full wrapped cause.
//   - Renders a consistent JSON envelope: {"error": "<kind>", "message": "<text>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if code == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

// statusByKind maps every domain error kind to its HTTP status.
var statusByKind = map[domain.ErrorKind]int{
	domain.KindInvalidCredentials: http.StatusUnauthorized,
	domain.KindAccountInactive:    http.StatusUnauthorized,
	domain.KindTokenInvalid:       http.StatusUnauthorized,
	domain.KindUnauthorized:       http.StatusUnauthorized,
	domain.KindProfileNotFound:    http.StatusNotFound,
	domain.KindUnknownRole:        http.StatusInternalServerError,
	domain.KindStoreUnavailable:   http.StatusServiceUnavailable,
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.ErrorResponse) {
	// Known domain errors → deterministic HTTP codes.
	var de *domain.Error
	if errors.As(err, &de) {
		code, ok := statusByKind[de.Kind]
		if !ok {
			code = http.StatusInternalServerError
		}
		if de.Kind.IsServerFault() || !ok {
			log.Error().
				Err(err).
				Str("kind", string(de.Kind)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("request failed")
		}
		return code, handler.ErrorResponse{Error: string(de.Kind), Message: de.Message}
	}

	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, handler.ErrorResponse{Error: "validation_failed", Message: ve.Message}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, handler.ErrorResponse{Error: kindForStatus(he.Code), Message: fmt.Sprintf("%v", he.Message)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, handler.ErrorResponse{Error: "internal_error", Message: "internal server error"}
}

// kindForStatus derives a snake_case kind from the status text, e.g.
// 405 → "method_not_allowed".
func kindForStatus(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return "http_error"
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}
