package ports

import (
	"context"

	"github.com/perlametro/users-service/internal/core/domain"
)

// UserFilter narrows List results. A nil State means "active only", which is
// the default listing behaviour; soft-deleted users must be asked for
// explicitly.
type UserFilter struct {
	Name  string
	Email string
	State *bool
	Page  int
	Limit int
}

// UserRepository defines the persistence boundary for user accounts.
// Email uniqueness is enforced here, not in the services.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	SoftDelete(ctx context.Context, id string) error
}
