package domain

import (
	"errors"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWeakPassword       = errors.New("password does not meet complexity policy")
	ErrForbidden          = errors.New("access forbidden")
)

// User models an account in the system. PasswordHash is never serialized
// outward; State=false marks a soft-deleted account whose record is kept
// for audit history.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Lastname     string    `json:"lastname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	State        bool      `json:"state"`
	RegisteredAt time.Time `json:"registered_at"`
}

// ValidRole reports whether role is one of the known flat roles. Roles carry
// no hierarchy: admin does not satisfy a user-only check.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
