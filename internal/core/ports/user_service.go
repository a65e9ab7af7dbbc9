package ports

import (
	"context"

	"github.com/userhub/user-service/internal/core/domain"
)

// SignUpInput carries the validated fields of a registration request.
type SignUpInput struct {
	Name     string
	Surname  string
	Age      *int
	Email    string
	Password string
}

// UpdateUserInput carries the optional profile fields of an update request.
// Nil pointers mean "leave unchanged".
type UpdateUserInput struct {
	Name    *string
	Surname *string
	Age     *int
}

// UserService defines the use-case operations over user accounts.
type UserService interface {
	SignUp(ctx context.Context, input SignUpInput) (*domain.User, error)
	Confirm(ctx context.Context, code string) (*domain.User, error)
	// SignIn returns a bearer token and the authenticated user. Unknown
	// email and wrong password are both reported as
	// domain.ErrInvalidCredentials.
	SignIn(ctx context.Context, email, password string) (string, *domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id int64, fields UpdateUserInput) (*domain.User, error)
	UpdateRole(ctx context.Context, id int64, role domain.Role) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}
