package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/perlametro/users-service/internal/core/domain"
)

const defaultTokenTTL = 2 * time.Hour

// TokenService issues and verifies HS256-signed bearer tokens. It holds no
// mutable state beyond the secret, so a single instance is safe for
// concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl == 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a claim set for the user with an absolute expiry of ttl from
// now. The signature covers the entire claim set including the expiry.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := time.Now().UTC()
	claims := &domain.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify checks the signature and expiry of a raw token and returns the
// embedded claims. Any parse or signature failure is reported as malformed;
// only expiry gets its own error.
func (s *TokenService) Verify(raw string) (*domain.Claims, error) {
	if raw == "" {
		return nil, domain.ErrTokenMissing
	}

	claims := &domain.Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenMalformed
	}
	if !tkn.Valid {
		return nil, domain.ErrTokenMalformed
	}

	return claims, nil
}
