package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/perlametro/users-service/internal/metrics"
	"github.com/perlametro/users-service/internal/core/domain"
	"github.com/perlametro/users-service/internal/core/ports"
	"github.com/perlametro/users-service/pkg/password"
)

// AuditRecorder is the fire-and-forget sink services push audit events into.
type AuditRecorder interface {
	Record(event ports.AuditEventInput)
}

// AuthService implements password login: credential verification plus token
// issuance. It is stateless across requests; the repository provides its own
// connection pooling.
type AuthService struct {
	repo   ports.UserRepository
	tokens ports.TokenService
	audit  AuditRecorder
	log    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService, audit AuditRecorder, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, audit: audit, log: log}
}

// Login verifies email+password against the stored hash and returns a signed
// token. Unknown email and wrong password surface as distinct errors so the
// client UI can branch on them.
func (s *AuthService) Login(ctx context.Context, email, plain string) (string, *domain.User, error) {
	if email == "" || plain == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	email = NormalizeEmail(email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("not_found").Inc()
		return "", nil, err
	}

	if !user.State {
		s.denied(user.ID, "account inactive")
		metrics.LoginsTotal.WithLabelValues("inactive").Inc()
		return "", nil, domain.ErrUserInactive
	}

	if !password.Verify(plain, user.PasswordHash) {
		s.denied(user.ID, "password mismatch")
		metrics.LoginsTotal.WithLabelValues("invalid_password").Inc()
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	s.audit.Record(ports.AuditEventInput{
		UserID:    user.ID,
		Action:    domain.AuditLoginSucceeded,
		Actor:     user.ID,
		Timestamp: time.Now().UTC(),
	})
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("login succeeded")

	return token, user, nil
}

// denied records the failed attempt. The email and plaintext never reach the
// audit trail or the logs.
func (s *AuthService) denied(userID, detail string) {
	s.audit.Record(ports.AuditEventInput{
		UserID:    userID,
		Action:    domain.AuditLoginDenied,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
	s.log.Warn().Str("user_id", userID).Msg("login denied")
}

// NormalizeEmail lowercases and trims an address so email comparison and the
// unique index behave case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
