package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/perlametro/users-service/internal/core/domain"
	"github.com/perlametro/users-service/internal/core/ports"
	"github.com/perlametro/users-service/pkg/password"
)

// memUserRepo is an in-memory ports.UserRepository shared by the service tests.
type memUserRepo struct {
	seq   int
	users map[string]*domain.User // by id
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	clone := cloneUser(user)
	clone.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[clone.ID] = cloneUser(clone)
	return clone, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) List(_ context.Context, f ports.UserFilter) ([]domain.User, int64, error) {
	var matched []domain.User
	for _, u := range r.users {
		if f.State != nil && u.State != *f.State {
			continue
		}
		if f.Email != "" && u.Email != f.Email {
			continue
		}
		if f.Name != "" && !strings.Contains(strings.ToLower(u.Name), strings.ToLower(f.Name)) {
			continue
		}
		matched = append(matched, *cloneUser(u))
	}

	total := int64(len(matched))
	start := (f.Page - 1) * f.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	stored, ok := r.users[user.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	stored.Name = user.Name
	stored.Lastname = user.Lastname
	stored.Email = user.Email
	stored.PasswordHash = user.PasswordHash
	return cloneUser(stored), nil
}

func (r *memUserRepo) SoftDelete(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.State = false
	return nil
}

// mustSeed inserts a user with the given plaintext password pre-hashed.
func mustSeed(t *testing.T, repo *memUserRepo, email, plain, role string, active bool) *domain.User {
	t.Helper()
	hash, err := password.Hash(plain)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	created, err := repo.Create(context.Background(), &domain.User{
		Name:         "Test",
		Lastname:     "User",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		State:        active,
		RegisteredAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return created
}

// captureRecorder collects audit events synchronously.
type captureRecorder struct {
	events []ports.AuditEventInput
}

func (r *captureRecorder) Record(event ports.AuditEventInput) {
	r.events = append(r.events, event)
}

func (r *captureRecorder) lastAction() string {
	if len(r.events) == 0 {
		return ""
	}
	return r.events[len(r.events)-1].Action
}

func newAuthService(repo *memUserRepo, rec *captureRecorder) (*AuthService, *TokenService) {
	tokens := NewTokenService("secret", time.Hour)
	return NewAuthService(repo, tokens, rec, zerolog.Nop()), tokens
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newMemUserRepo()
	rec := &captureRecorder{}
	seeded := mustSeed(t, repo, "carol@perlametro.cl", "S3guro$pass", domain.RoleAdmin, true)
	svc, tokens := newAuthService(repo, rec)

	token, user, err := svc.Login(context.Background(), "carol@perlametro.cl", "S3guro$pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty")
	}
	if user.ID != seeded.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("issued token did not verify: %v", err)
	}
	if claims.UserID != seeded.ID || claims.Email != seeded.Email || claims.Role != domain.RoleAdmin {
		t.Fatalf("claims do not match user: %+v", claims)
	}
	if rec.lastAction() != domain.AuditLoginSucceeded {
		t.Fatalf("expected login_succeeded audit event, got %q", rec.lastAction())
	}
}

func TestAuthService_Login_EmailCaseInsensitive(t *testing.T) {
	repo := newMemUserRepo()
	mustSeed(t, repo, "carol@perlametro.cl", "S3guro$pass", domain.RoleUser, true)
	svc, _ := newAuthService(repo, &captureRecorder{})

	if _, _, err := svc.Login(context.Background(), "  Carol@Perlametro.CL ", "S3guro$pass"); err != nil {
		t.Fatalf("expected case-insensitive email match, got %v", err)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newMemUserRepo()
	rec := &captureRecorder{}
	mustSeed(t, repo, "dave@perlametro.cl", "G00dpass!", domain.RoleUser, true)
	svc, _ := newAuthService(repo, rec)

	if _, _, err := svc.Login(context.Background(), "dave@perlametro.cl", "G00dpass?"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if rec.lastAction() != domain.AuditLoginDenied {
		t.Fatalf("expected login_denied audit event, got %q", rec.lastAction())
	}
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	repo := newMemUserRepo()
	svc, _ := newAuthService(repo, &captureRecorder{})

	if _, _, err := svc.Login(context.Background(), "ghost@perlametro.cl", "Whatever1!"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	repo := newMemUserRepo()
	rec := &captureRecorder{}
	mustSeed(t, repo, "gone@perlametro.cl", "G00dpass!", domain.RoleUser, false)
	svc, _ := newAuthService(repo, rec)

	if _, _, err := svc.Login(context.Background(), "gone@perlametro.cl", "G00dpass!"); err != domain.ErrUserInactive {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
	if rec.lastAction() != domain.AuditLoginDenied {
		t.Fatalf("expected login_denied audit event, got %q", rec.lastAction())
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	svc, _ := newAuthService(newMemUserRepo(), &captureRecorder{})

	if _, _, err := svc.Login(context.Background(), "", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for empty email, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "a@perlametro.cl", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for empty password, got %v", err)
	}
}
