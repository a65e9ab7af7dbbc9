// Package guard implements the access-control decisions applied to protected
// operations. Decisions are pure computations over the verified token claims
// and the route's policy; they never touch storage, so a DENY cannot leak
// whether the target resource exists.
package guard

import "github.com/userhub/user-service/internal/core/domain"

// Reason classifies why a request was denied.
type Reason string

const (
	ReasonNoToken          Reason = "no_token"
	ReasonInvalidToken     Reason = "invalid_token"
	ReasonExpiredToken     Reason = "expired_token"
	ReasonInsufficientRole Reason = "insufficient_role"
	ReasonNotOwner         Reason = "not_owner"
)

// Subject is the authenticated principal carried by a verified token.
type Subject struct {
	UserID int64
	Role   domain.Role
}

// Decision is the outcome of a guard evaluation.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func Allow() Decision        { return Decision{Allowed: true} }
func Deny(r Reason) Decision { return Decision{Reason: r} }

// Check is a single stage of the guard pipeline.
type Check func(sub Subject) Decision

// Evaluate runs checks in order and short-circuits on the first DENY.
func Evaluate(sub Subject, checks ...Check) Decision {
	for _, check := range checks {
		if d := check(sub); !d.Allowed {
			return d
		}
	}
	return Allow()
}

// RequireRole allows subjects whose role is a member of the given set.
func RequireRole(set ...domain.Role) Check {
	return func(sub Subject) Decision {
		if sub.Role.In(set...) {
			return Allow()
		}
		return Deny(ReasonInsufficientRole)
	}
}

// RequireOwnerOrRole allows subjects that either hold one of the given roles
// or own the target resource. ownerID is the resolved owner of the resource
// under access; callers resolving it from request input must fail closed and
// pass a value that cannot collide with a real subject (e.g. a negative id)
// when resolution fails.
func RequireOwnerOrRole(ownerID int64, set ...domain.Role) Check {
	return func(sub Subject) Decision {
		if sub.Role.In(set...) {
			return Allow()
		}
		if sub.UserID == ownerID && ownerID > 0 {
			return Allow()
		}
		return Deny(ReasonNotOwner)
	}
}

// DeniedError adapts a DENY decision into the error chain so transport layers
// can translate it to a status code without inspecting guard internals.
type DeniedError struct {
	Reason Reason
}

func (e *DeniedError) Error() string {
	return "access denied: " + string(e.Reason)
}

// Denied wraps a deny reason as an error.
func Denied(r Reason) *DeniedError {
	return &DeniedError{Reason: r}
}
