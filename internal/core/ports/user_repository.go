package ports

import (
	"context"

	"github.com/userhub/user-service/internal/core/domain"
)

// UserRepository is the persistence contract for user records. Email
// uniqueness and mutation atomicity are the store's responsibility.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id int64, fields UpdateUserInput) (*domain.User, error)
	UpdateRole(ctx context.Context, id int64, role domain.Role) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	// Confirm flips the unconfirmed user matching code to confirmed and
	// clears the code, so a second confirmation with the same code fails
	// with domain.ErrUserNotFound.
	Confirm(ctx context.Context, code string) (*domain.User, error)
}
