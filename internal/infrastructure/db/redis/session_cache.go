package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trenatra/auth-api/internal/api/metrics"
	"github.com/trenatra/auth-api/internal/core/domain"
)

const defaultCacheTTL = 15 * time.Minute

// SessionCache is a read-through cache of the user resolved for a validated
// bearer token. Key format: session:<token>. Expiry lives with the session
// row, not here; entry TTLs never exceed the session's remaining validity.
type SessionCache struct {
	client *redis.Client
	maxTTL time.Duration
}

// NewSessionCache creates a SessionCache wrapping the given Redis client.
// maxTTL caps how long an entry may live regardless of session validity.
func NewSessionCache(client *redis.Client, maxTTL time.Duration) *SessionCache {
	if maxTTL <= 0 {
		maxTTL = defaultCacheTTL
	}
	return &SessionCache{client: client, maxTTL: maxTTL}
}

// Get returns the user cached for the token, if any.
func (c *SessionCache) Get(ctx context.Context, token string) (*domain.User, bool, error) {
	val, err := c.client.Get(ctx, c.key(token)).Bytes()
	if err == redis.Nil {
		metrics.TokenCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		metrics.TokenCacheTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("session cache get: %w", err)
	}

	var user domain.User
	if err := json.Unmarshal(val, &user); err != nil {
		metrics.TokenCacheTotal.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("session cache decode: %w", err)
	}

	metrics.TokenCacheTotal.WithLabelValues("hit").Inc()
	return &user, true, nil
}

// Set records the token → user mapping for ttl, capped at maxTTL.
func (c *SessionCache) Set(ctx context.Context, token string, user *domain.User, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if ttl > c.maxTTL {
		ttl = c.maxTTL
	}
	val, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key(token), val, ttl).Err(); err != nil {
		return fmt.Errorf("session cache set: %w", err)
	}
	return nil
}

func (c *SessionCache) key(token string) string {
	return "session:" + token
}
