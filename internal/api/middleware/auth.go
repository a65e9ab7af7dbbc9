// Package middleware contains the route guards: token authentication plus
// role-based and ownership-based authorization. Each guard rejects before the
// handler runs, so a denied request has no partial side effects.
package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/userhub/user-service/internal/api/metrics"
	"github.com/userhub/user-service/internal/auth"
	"github.com/userhub/user-service/internal/core/guard"
)

// TokenVerifier is the slice of auth.Issuer the guard needs. Kept small so
// tests can fake it.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Authenticate extracts and verifies the bearer token, then injects the
// subject into the request context. Denials carry a guard reason:
// a missing header is no_token, a malformed header or bad signature is
// invalid_token, and a past-expiry token is expired_token.
func Authenticate(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return deny(guard.ReasonNoToken)
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return deny(guard.ReasonInvalidToken)
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					return deny(guard.ReasonExpiredToken)
				}
				return deny(guard.ReasonInvalidToken)
			}

			SetSubject(c, guard.Subject{UserID: claims.UserID, Role: claims.Role})
			return next(c)
		}
	}
}

func deny(reason guard.Reason) error {
	metrics.AccessDenialsTotal.WithLabelValues(string(reason)).Inc()
	return guard.Denied(reason)
}
