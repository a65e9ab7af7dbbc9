package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/userhub/user-service/internal/core/guard"
)

const subjectKey = "auth.subject"

// SetSubject stores the authenticated principal on the request context.
// Exported for handler and middleware tests.
func SetSubject(c echo.Context, sub guard.Subject) {
	c.Set(subjectKey, sub)
}

// SubjectFrom retrieves the principal injected by Authenticate. The second
// return value is false when no verified token reached this request.
func SubjectFrom(c echo.Context) (guard.Subject, bool) {
	sub, ok := c.Get(subjectKey).(guard.Subject)
	return sub, ok
}
