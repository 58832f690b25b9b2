package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/perlametro/users-service/internal/core/domain"
	"github.com/perlametro/users-service/internal/core/ports"
)

const collectionAuditEvents = "audit_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAuditEvents)}
}

// Insert appends an audit event. Events are never updated or deleted.
func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"user_id":     event.UserID,
		"action":      event.Action,
		"timestamp":   event.Timestamp.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.Actor != "" {
		doc["actor"] = event.Actor
	}
	if event.Detail != "" {
		doc["detail"] = event.Detail
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// ListByUser returns the newest events for a user, capped at limit.
func (r *AuditRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.AuditEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer cur.Close(ctx)

	var events []domain.AuditEvent
	for cur.Next(ctx) {
		var doc struct {
			UserID    string    `bson:"user_id"`
			Action    string    `bson:"action"`
			Actor     string    `bson:"actor"`
			Detail    string    `bson:"detail"`
			Timestamp time.Time `bson:"timestamp"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode audit event: %w", err)
		}
		events = append(events, domain.AuditEvent{
			UserID:    doc.UserID,
			Action:    doc.Action,
			Actor:     doc.Actor,
			Detail:    doc.Detail,
			Timestamp: doc.Timestamp.UTC(),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}

	return events, nil
}
