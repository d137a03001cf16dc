package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ithesk/axeweb/domain"
)

// RedisSessionRepository implements domain.SessionRepository using Redis.
type RedisSessionRepository struct {
	client *redis.Client
	clock  domain.Clock
	prefix string
	ttl    time.Duration
}

// NewRedisSessionRepository creates a Redis-backed portal session store.
func NewRedisSessionRepository(client *redis.Client, ttl time.Duration, clock domain.Clock) domain.SessionRepository {
	return &RedisSessionRepository{
		client: client,
		clock:  clock,
		prefix: "portal:session:",
		ttl:    ttl,
	}
}

// Create implements domain.SessionRepository
func (r *RedisSessionRepository) Create(ctx context.Context, session *domain.PortalSession) error {
	return r.write(ctx, session)
}

// Save implements domain.SessionRepository
func (r *RedisSessionRepository) Save(ctx context.Context, session *domain.PortalSession) error {
	return r.write(ctx, session)
}

func (r *RedisSessionRepository) write(ctx context.Context, session *domain.PortalSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal portal session: %w", err)
	}
	return r.client.Set(ctx, r.prefix+session.ID, data, r.ttl).Err()
}

// FindByID implements domain.SessionRepository
func (r *RedisSessionRepository) FindByID(ctx context.Context, sessionID string) (*domain.PortalSession, error) {
	data, err := r.client.Get(ctx, r.prefix+sessionID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	var session domain.PortalSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal portal session: %w", err)
	}

	if session.ExpiresAt.Before(r.clock.Now()) {
		r.client.Del(ctx, r.prefix+sessionID)
		return nil, domain.ErrSessionExpired
	}

	return &session, nil
}

// Delete implements domain.SessionRepository
func (r *RedisSessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.prefix+sessionID).Err()
}
