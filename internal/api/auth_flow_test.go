package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/perlametro/users-service/internal/api/handler"
	"github.com/perlametro/users-service/internal/api/middleware"
	"github.com/perlametro/users-service/internal/core/domain"
	"github.com/perlametro/users-service/internal/core/ports"
	"github.com/perlametro/users-service/internal/core/service"
	"github.com/perlametro/users-service/pkg/password"
)

// fakeUserRepo is an in-memory ports.UserRepository for end-to-end tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.seq++
	user.ID = fmt.Sprintf("id-%04d", r.seq)
	r.users[user.ID] = copyUser(user)
	return copyUser(user), nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return copyUser(u), nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) List(_ context.Context, f ports.UserFilter) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []domain.User
	for _, u := range r.users {
		if f.State != nil && u.State != *f.State {
			continue
		}
		matched = append(matched, *copyUser(u))
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

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	stored.Name = user.Name
	stored.Lastname = user.Lastname
	stored.Email = user.Email
	stored.PasswordHash = user.PasswordHash
	return copyUser(stored), nil
}

func (r *fakeUserRepo) SoftDelete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.State = false
	return nil
}

// fakeAuditService keeps audit events in memory and doubles as the recorder.
type fakeAuditService struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *fakeAuditService) Record(event ports.AuditEventInput) {
	_ = s.Process(context.Background(), event)
}

func (s *fakeAuditService) Process(_ context.Context, event ports.AuditEventInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, domain.AuditEvent{
		UserID:    event.UserID,
		Action:    event.Action,
		Actor:     event.Actor,
		Detail:    event.Detail,
		Timestamp: event.Timestamp,
	})
	return nil
}

func (s *fakeAuditService) RecentForUser(_ context.Context, userID string, _ int) ([]domain.AuditEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.AuditEvent
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].UserID == userID {
			out = append(out, s.events[i])
		}
	}
	return out, nil
}

// passthroughCache is a UserCache that stores nothing.
type passthroughCache struct{}

func (passthroughCache) Get(context.Context, string) (*domain.User, bool) { return nil, false }

func (passthroughCache) Set(context.Context, *domain.User) {}

func (passthroughCache) Invalidate(context.Context, string) {}

// newTestServer wires the full HTTP surface over in-memory dependencies,
// mirroring the production route layout.
func newTestServer(repo *fakeUserRepo) *echo.Echo {
	log := zerolog.Nop()
	audit := &fakeAuditService{}

	tokenService := service.NewTokenService("test-secret", time.Hour)
	authService := service.NewAuthService(repo, tokenService, audit, log)
	userService := service.NewUserService(repo, passthroughCache{}, audit, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, audit)
	authenticated := middleware.Auth(tokenService)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.POST("/users/login", authHandler.Login)
	e.POST("/users", userHandler.Create)

	users := e.Group("/users", authenticated)
	users.GET("", userHandler.List, middleware.RBAC(domain.RoleAdmin))
	users.GET("/:id", userHandler.Get, middleware.RBAC(domain.RoleAdmin, domain.RoleUser))
	users.PUT("/:id", userHandler.Update, middleware.RBAC(domain.RoleAdmin, domain.RoleUser))
	users.DELETE("/:id", userHandler.Delete, middleware.RBAC(domain.RoleAdmin))
	users.GET("/:id/audit", userHandler.Audit, middleware.RBAC(domain.RoleAdmin))

	return e
}

func seedAccount(t *testing.T, repo *fakeUserRepo, email, plain, role string) *domain.User {
	t.Helper()
	hash, err := password.Hash(plain)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user, err := repo.Create(context.Background(), &domain.User{
		Name:         "Seeded",
		Lastname:     "Account",
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		State:        true,
		RegisteredAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return user
}

func doJSON(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, email, plain string) string {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/users/login", "",
		fmt.Sprintf(`{"email":%q,"password":%q}`, email, plain))
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("expected non-empty token")
	}
	return resp.Token
}

func TestFlow_AdminLoginAndList(t *testing.T) {
	repo := newFakeUserRepo()
	seedAccount(t, repo, "admin@perlametro.cl", "Admin123!", domain.RoleAdmin)
	e := newTestServer(repo)

	token := login(t, e, "admin@perlametro.cl", "Admin123!")

	rec := doJSON(e, http.MethodGet, "/users", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on admin list, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestFlow_RegularUserDeniedAdminRoutes(t *testing.T) {
	repo := newFakeUserRepo()
	seedAccount(t, repo, "admin@perlametro.cl", "Admin123!", domain.RoleAdmin)
	regular := seedAccount(t, repo, "bob@perlametro.cl", "S3guro$pass", domain.RoleUser)
	e := newTestServer(repo)

	token := login(t, e, "bob@perlametro.cl", "S3guro$pass")

	for _, req := range []struct {
		method, path string
	}{
		{http.MethodGet, "/users"},
		{http.MethodDelete, "/users/" + regular.ID},
		{http.MethodGet, "/users/" + regular.ID + "/audit"},
	} {
		rec := doJSON(e, req.method, req.path, token, "")
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s %s: expected 403, got %d", req.method, req.path, rec.Code)
		}
	}

	// The read and self-update routes stay open to regular users.
	rec := doJSON(e, http.MethodGet, "/users/"+regular.ID, token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on self read, got %d", rec.Code)
	}
}

func TestFlow_RegisterThenLogin(t *testing.T) {
	repo := newFakeUserRepo()
	e := newTestServer(repo)

	rec := doJSON(e, http.MethodPost, "/users", "",
		`{"name":"Carla","lastname":"Munoz","email":"Carla.Munoz@perlametro.cl","password":"S3guro$pass"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("registration response leaks password material: %s", rec.Body.String())
	}

	// Login accepts any casing of the registered email.
	login(t, e, "CARLA.MUNOZ@perlametro.cl", "S3guro$pass")

	// Duplicate registration maps to 409.
	rec = doJSON(e, http.MethodPost, "/users", "",
		`{"name":"Carla","lastname":"Munoz","email":"carla.munoz@perlametro.cl","password":"S3guro$pass"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate email, got %d", rec.Code)
	}
}

func TestFlow_SoftDeleteDeniesLogin(t *testing.T) {
	repo := newFakeUserRepo()
	seedAccount(t, repo, "admin@perlametro.cl", "Admin123!", domain.RoleAdmin)
	target := seedAccount(t, repo, "bob@perlametro.cl", "S3guro$pass", domain.RoleUser)
	e := newTestServer(repo)

	adminToken := login(t, e, "admin@perlametro.cl", "Admin123!")

	rec := doJSON(e, http.MethodDelete, "/users/"+target.ID, adminToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d: %s", rec.Code, rec.Body.String())
	}

	// The deactivated account can no longer log in, and the failure is
	// indistinguishable from a bad password.
	rec = doJSON(e, http.MethodPost, "/users/login", "",
		`{"email":"bob@perlametro.cl","password":"S3guro$pass"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after soft delete, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid credentials") {
		t.Fatalf("expected generic credentials message, got %s", rec.Body.String())
	}

	// The record itself survives and reads back as inactive.
	rec = doJSON(e, http.MethodGet, "/users/"+target.ID, adminToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 reading deactivated user, got %d", rec.Code)
	}
	var resp struct {
		State bool `json:"state"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.State {
		t.Fatalf("expected state=false after soft delete")
	}

	// The audit trail records the deactivation with the admin as actor.
	rec = doJSON(e, http.MethodGet, "/users/"+target.ID+"/audit", adminToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on audit read, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), domain.AuditUserDeactivated) {
		t.Fatalf("expected %s in audit trail, got %s", domain.AuditUserDeactivated, rec.Body.String())
	}
}

func TestFlow_TokenFailuresYield401(t *testing.T) {
	repo := newFakeUserRepo()
	seedAccount(t, repo, "admin@perlametro.cl", "Admin123!", domain.RoleAdmin)
	e := newTestServer(repo)

	for _, token := range []string{"", "not-a-jwt", "aaa.bbb.ccc"} {
		rec := doJSON(e, http.MethodGet, "/users", token, "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("token %q: expected 401, got %d", token, rec.Code)
		}
	}
}

func TestFlow_UnknownEmailIs404(t *testing.T) {
	repo := newFakeUserRepo()
	e := newTestServer(repo)

	rec := doJSON(e, http.MethodPost, "/users/login", "",
		`{"email":"ghost@perlametro.cl","password":"S3guro$pass"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown email, got %d", rec.Code)
	}
}
