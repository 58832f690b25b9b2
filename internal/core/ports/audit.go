package ports

import (
	"context"
	"time"

	"github.com/perlametro/users-service/internal/core/domain"
)

// AuditEventInput is the DTO passed from services to the audit pipeline.
type AuditEventInput struct {
	UserID    string
	Action    string
	Actor     string
	Detail    string
	Timestamp time.Time
}

// AuditService persists and reads back audit trail entries.
type AuditService interface {
	Process(ctx context.Context, event AuditEventInput) error
	RecentForUser(ctx context.Context, userID string, limit int) ([]domain.AuditEvent, error)
}

// AuditRepository handles audit event persistence.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
	// ListByUser returns the newest events first, capped at limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.AuditEvent, error)
}
