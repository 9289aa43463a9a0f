// Package session provides the Redis-backed session store.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"crypto_backend/internal/feature/auth/domain/entity"
	"crypto_backend/internal/feature/auth/usecase"
)

// SessionRedis implements usecase.SessionRepository using Redis.
// Expiration is handled by Redis TTLs, so no sweeper is needed.
type SessionRedis struct {
	client *redis.Client
	prefix string
}

// Compile-time check that SessionRedis implements SessionRepository.
var _ usecase.SessionRepository = (*SessionRedis)(nil)

// NewSessionRedis creates a new SessionRedis instance.
func NewSessionRedis(client *redis.Client, prefix string) *SessionRedis {
	return &SessionRedis{
		client: client,
		prefix: prefix,
	}
}

// sessionKey returns the Redis key for a session token.
func (r *SessionRedis) sessionKey(id string) string {
	return fmt.Sprintf("%s:%s", r.prefix, id)
}

// Create persists a new session with a TTL matching its expiration time.
func (r *SessionRedis) Create(ctx context.Context, session *entity.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	return r.client.Set(ctx, r.sessionKey(session.ID), data, ttl).Err()
}

// FindByID retrieves a session by its token.
func (r *SessionRedis) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}

	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Delete removes a session by its token.
func (r *SessionRedis) Delete(ctx context.Context, id string) error {
	deleted, err := r.client.Del(ctx, r.sessionKey(id)).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return usecase.ErrSessionNotFound
	}
	return nil
}
