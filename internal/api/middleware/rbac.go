package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/guard"
)

// RequireRole enforces a role-set policy: the subject's role must be a member
// of the allowed set. Must run after Authenticate.
func RequireRole(allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sub, ok := SubjectFrom(c)
			if !ok {
				return deny(guard.ReasonNoToken)
			}

			if d := guard.Evaluate(sub, guard.RequireRole(allowed...)); !d.Allowed {
				return deny(d.Reason)
			}
			return next(c)
		}
	}
}
