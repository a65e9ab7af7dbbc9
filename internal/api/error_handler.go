package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userhub/user-service/internal/api/handler"
	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/guard"
)

// errorResponse is the canonical error envelope for all API errors.
// Violations is populated only for validation failures.
type errorResponse struct {
	Error      string                   `json:"error"`
	Violations []handler.FieldViolation `json:"violations,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps guard denials, validation failures and known domain errors to
//     their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Guard denials. Authentication failures are 401; an authenticated
	// subject lacking role or ownership is 403. The body stays generic so a
	// denial reveals nothing about the target resource.
	var denied *guard.DeniedError
	if errors.As(err, &denied) {
		switch denied.Reason {
		case guard.ReasonNoToken:
			return http.StatusUnauthorized, errorResponse{Error: "authentication required"}
		case guard.ReasonExpiredToken:
			return http.StatusUnauthorized, errorResponse{Error: "token expired"}
		case guard.ReasonInvalidToken:
			return http.StatusUnauthorized, errorResponse{Error: "invalid token"}
		default:
			return http.StatusForbidden, errorResponse{Error: "forbidden"}
		}
	}

	// Validation failures carry the full field-level detail.
	var invalid *handler.ValidationError
	if errors.As(err, &invalid) {
		return http.StatusBadRequest, errorResponse{
			Error:      "validation failed",
			Violations: invalid.Violations,
		}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "user not found"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, errorResponse{Error: "user already exists"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, errorResponse{Error: "invalid role"}
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, errorResponse{Error: "too many attempts, try again later"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
