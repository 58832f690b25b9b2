package ports

import "github.com/perlametro/users-service/internal/core/domain"

// TokenService issues and validates the bearer tokens handed to clients.
// Tokens are stateless: there is no revocation list, and a soft delete does
// not invalidate tokens already in flight.
type TokenService interface {
	Issue(user *domain.User) (string, error)
	Verify(raw string) (*domain.Claims, error)
}
