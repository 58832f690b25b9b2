package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/perlametro/users-service/internal/core/domain"
)

const cacheTTL = 5 * time.Minute

// UserCache is a read-through cache of public user projections keyed by id.
// It stores the JSON serialization of domain.User, which omits the password
// hash, so no secret material ever lands in Redis. Cache failures degrade to
// repository reads; they are logged, never surfaced.
type UserCache struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewUserCache creates a UserCache wrapping the given Redis client.
func NewUserCache(client *redis.Client, log zerolog.Logger) *UserCache {
	return &UserCache{client: client, log: log}
}

// Get returns the cached projection for id, if present.
func (c *UserCache) Get(ctx context.Context, id string) (*domain.User, bool) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("user_id", id).Msg("user cache read failed")
		}
		return nil, false
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		c.log.Warn().Err(err).Str("user_id", id).Msg("user cache entry corrupt, dropping")
		c.Invalidate(ctx, id)
		return nil, false
	}
	return &user, true
}

// Set stores the projection with a TTL. The password hash is excluded by the
// User JSON contract.
func (c *UserCache) Set(ctx context.Context, user *domain.User) {
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(user.ID), raw, cacheTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("user_id", user.ID).Msg("user cache write failed")
	}
}

// Invalidate drops the cached projection, called on update and soft delete.
func (c *UserCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		c.log.Warn().Err(err).Str("user_id", id).Msg("user cache invalidation failed")
	}
}

func (c *UserCache) key(id string) string {
	return "user:" + id
}
