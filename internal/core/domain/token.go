package domain

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenMissing   = errors.New("no token presented")
	ErrTokenMalformed = errors.New("token malformed or signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)

// Claims is the identity fact set embedded in a bearer token. The wire
// format is {id, email, role, iat, exp}; once issued a token is immutable
// and self-contained, so nothing here is persisted server-side.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
