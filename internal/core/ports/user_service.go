package ports

import (
	"context"

	"github.com/perlametro/users-service/internal/core/domain"
)

// CreateUserInput carries the data needed to register a new account.
// Role is not accepted from the outside: registration always yields a
// regular user, admins enter through the seeder.
type CreateUserInput struct {
	Name     string
	Lastname string
	Email    string
	Password string
}

// UpdateUserInput is a partial update; empty fields are left untouched.
type UpdateUserInput struct {
	Name     string
	Lastname string
	Email    string
	Password string
}

// ListUsersInput carries the parameters for the list endpoint.
type ListUsersInput struct {
	Name  string
	Email string
	State *bool
	Page  int
	Limit int
}

// ListUsersResult is returned by List.
type ListUsersResult struct {
	Items      []domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserService defines use-case operations over user accounts.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, input ListUsersInput) (*ListUsersResult, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	SoftDelete(ctx context.Context, id, actor string) error
}
