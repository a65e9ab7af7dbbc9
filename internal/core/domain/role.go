package domain

// Role is the authorization role attached to a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleSuper Role = "super"
)

// Staff is the role set accepted by find-by-email and delete. Role update is
// restricted to RoleSuper alone; the two sets are deliberately distinct.
var Staff = []Role{RoleSuper, RoleAdmin}

// ParseRole converts a wire value into a Role. The second return value is
// false for anything outside the known set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleSuper:
		return Role(s), true
	default:
		return "", false
	}
}

// In reports whether r is a member of the given role set. Policies here are
// set-membership checks, not a privilege ladder.
func (r Role) In(set ...Role) bool {
	for _, allowed := range set {
		if r == allowed {
			return true
		}
	}
	return false
}
