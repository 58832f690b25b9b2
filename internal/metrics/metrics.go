// Package metrics defines all custom Prometheus metrics for the users
// service. It is the single source of truth for metric names, labels, and
// help strings; promauto registers everything with the default registry at
// package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "users"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "not_found", "invalid_password", "inactive"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by outcome.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts bearer token checks on protected routes.
// Label:
//   - result: "valid", "missing", "malformed", "expired"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, labelled by outcome.",
	},
	[]string{"result"},
)

// ── Account lifecycle metrics ─────────────────────────────────────────────────

// UsersCreatedTotal counts successfully registered accounts.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "created_total",
		Help:      "Total number of user accounts created.",
	},
)

// UsersDeactivatedTotal counts soft deletes.
var UsersDeactivatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deactivated_total",
		Help:      "Total number of user accounts soft-deleted.",
	},
)

// ── Audit pipeline metrics ────────────────────────────────────────────────────

// AuditEventsWrittenTotal counts audit events persisted by the workers.
var AuditEventsWrittenTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_written_total",
		Help:      "Total number of audit events written to storage.",
	},
)

// AuditWriteFailuresTotal counts audit events that could not be persisted.
var AuditWriteFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_write_failures_total",
		Help:      "Total number of audit events that failed to persist.",
	},
)

// AuditQueueDepth tracks the number of audit events waiting in each worker
// channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
