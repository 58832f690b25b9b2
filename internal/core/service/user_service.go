package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/perlametro/users-service/internal/metrics"
	"github.com/perlametro/users-service/internal/core/domain"
	"github.com/perlametro/users-service/internal/core/ports"
	"github.com/perlametro/users-service/pkg/password"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// UserCache abstracts the read-through projection cache (Redis).
type UserCache interface {
	Get(ctx context.Context, id string) (*domain.User, bool)
	Set(ctx context.Context, user *domain.User)
	Invalidate(ctx context.Context, id string)
}

// UserService implements account CRUD with soft-delete semantics.
type UserService struct {
	repo  ports.UserRepository
	cache UserCache
	audit AuditRecorder
	log   zerolog.Logger
}

func NewUserService(repo ports.UserRepository, cache UserCache, audit AuditRecorder, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, cache: cache, audit: audit, log: log}
}

// Create registers a new active account. The password must satisfy the
// complexity policy before it is hashed. The role is always "user" here;
// admin accounts are provisioned by the seeder.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	if !password.MeetsPolicy(in.Password) {
		return nil, domain.ErrWeakPassword
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:         in.Name,
		Lastname:     in.Lastname,
		Email:        NormalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         domain.RoleUser,
		State:        true,
		RegisteredAt: time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ports.AuditEventInput{
		UserID:    created.ID,
		Action:    domain.AuditUserCreated,
		Actor:     created.ID,
		Timestamp: time.Now().UTC(),
	})
	metrics.UsersCreatedTotal.Inc()
	s.log.Info().Str("user_id", created.ID).Msg("user created")

	return created, nil
}

// Get returns a user by id regardless of state: soft-deleted accounts stay
// retrievable. Reads go through the projection cache.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if cached, ok := s.cache.Get(ctx, id); ok {
		return cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, user)
	return user, nil
}

// List returns a page of users. Without an explicit state filter only active
// accounts are included.
func (s *UserService) List(ctx context.Context, in ports.ListUsersInput) (*ports.ListUsersResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	limit := in.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	state := in.State
	if state == nil {
		active := true
		state = &active
	}

	items, total, err := s.repo.List(ctx, ports.UserFilter{
		Name:  in.Name,
		Email: NormalizeEmail(in.Email),
		State: state,
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListUsersResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

// Update applies a partial update. A changed email is re-checked for
// uniqueness; a supplied password is re-validated and re-hashed. The id,
// role, state and registration timestamp never change here.
func (s *UserService) Update(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Lastname != "" {
		user.Lastname = in.Lastname
	}
	if in.Email != "" {
		email := NormalizeEmail(in.Email)
		if email != user.Email {
			existing, err := s.repo.FindByEmail(ctx, email)
			if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return nil, err
			}
			if existing != nil && existing.ID != user.ID {
				return nil, domain.ErrEmailTaken
			}
			user.Email = email
		}
	}
	if in.Password != "" {
		if !password.MeetsPolicy(in.Password) {
			return nil, domain.ErrWeakPassword
		}
		hash, err := password.Hash(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, id)
	s.audit.Record(ports.AuditEventInput{
		UserID:    id,
		Action:    domain.AuditUserUpdated,
		Actor:     id,
		Timestamp: time.Now().UTC(),
	})
	s.log.Info().Str("user_id", id).Msg("user updated")

	return updated, nil
}

// SoftDelete flips the account to inactive. The record is kept for history
// and tokens already issued ride out their window.
func (s *UserService) SoftDelete(ctx context.Context, id, actor string) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, id)
	s.audit.Record(ports.AuditEventInput{
		UserID:    id,
		Action:    domain.AuditUserDeactivated,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
	})
	metrics.UsersDeactivatedTotal.Inc()
	s.log.Info().Str("user_id", id).Str("actor", actor).Msg("user deactivated")

	return nil
}
