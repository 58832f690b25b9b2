package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/perlametro/users-service/internal/metrics"
	"github.com/perlametro/users-service/internal/core/domain"
	"github.com/perlametro/users-service/internal/core/ports"
)

const defaultAuditLimit = 50

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService backed by the given repository.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single audit event. Called from dispatcher workers,
// never from the request path.
func (s *auditService) Process(ctx context.Context, in ports.AuditEventInput) error {
	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	event := &domain.AuditEvent{
		UserID:    in.UserID,
		Action:    in.Action,
		Actor:     in.Actor,
		Detail:    in.Detail,
		Timestamp: ts,
	}

	if err := s.repo.Insert(ctx, event); err != nil {
		metrics.AuditWriteFailuresTotal.Inc()
		return fmt.Errorf("process audit event: %w", err)
	}

	metrics.AuditEventsWrittenTotal.Inc()
	return nil
}

// RecentForUser returns the newest audit entries for a user.
func (s *auditService) RecentForUser(ctx context.Context, userID string, limit int) ([]domain.AuditEvent, error) {
	if limit < 1 {
		limit = defaultAuditLimit
	}
	return s.repo.ListByUser(ctx, userID, limit)
}
