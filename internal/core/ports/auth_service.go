package ports

import (
	"context"

	"github.com/perlametro/users-service/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
