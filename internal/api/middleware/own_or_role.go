package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/guard"
)

// RequireOwnerOrRole enforces the own-or-role policy: the subject passes when
// its role is in the allowed set, or when it owns the target resource. For
// the user aggregate the owner id is the :id path parameter itself, so
// ownership resolves without a store lookup and a denial cannot reveal
// whether the target exists.
//
// A malformed id fails closed as not_owner rather than reaching the handler.
func RequireOwnerOrRole(allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sub, ok := SubjectFrom(c)
			if !ok {
				return deny(guard.ReasonNoToken)
			}

			ownerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
			if err != nil {
				ownerID = -1
			}

			if d := guard.Evaluate(sub, guard.RequireOwnerOrRole(ownerID, allowed...)); !d.Allowed {
				return deny(d.Reason)
			}
			return next(c)
		}
	}
}
