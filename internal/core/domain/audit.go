package domain

import "time"

// Audit actions recorded against a user account.
const (
	AuditLoginSucceeded  = "login_succeeded"
	AuditLoginDenied     = "login_denied"
	AuditUserCreated     = "user_created"
	AuditUserUpdated     = "user_updated"
	AuditUserDeactivated = "user_deactivated"
)

// AuditEvent is an append-only record of something that happened to an
// account. Soft-deleted users keep their trail, which is the point of
// keeping the row around.
type AuditEvent struct {
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
