// internal/pkg/session/store.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store keeps the mapping from a session id to the login that owns it.
// A record that is absent or past its TTL means the session is dead.
type Store interface {
	Save(ctx context.Context, login, sessionID string) error
	Get(ctx context.Context, sessionID string) (login string, found bool, err error)
	// Delete removes the record and reports whether it existed.
	Delete(ctx context.Context, sessionID string) (bool, error)
}

type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

// Save overwrites any existing record for the session and resets its TTL.
func (s *RedisStore) Save(ctx context.Context, login, sessionID string) error {
	if err := s.client.Set(ctx, s.sessionKey(sessionID), login, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (string, bool, error) {
	login, err := s.client.Get(ctx, s.sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session from redis: %w", err)
	}
	return login, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Del(ctx, s.sessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}
