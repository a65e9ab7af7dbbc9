package ports

import "github.com/userhub/user-service/internal/core/domain"

// TokenIssuer mints the bearer token returned at successful signin.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}
