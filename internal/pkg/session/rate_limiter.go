// internal/pkg/session/rate_limiter.go
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter counts login attempts per client address and login in fixed windows.
type RateLimiter struct {
	client      redis.UniversalClient
	maxAttempts int64
	window      time.Duration
}

func NewRateLimiter(client redis.UniversalClient, maxAttempts int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client:      client,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// CheckLoginAttempt records an attempt and reports whether it is allowed
// together with the attempts left in the current window.
func (r *RateLimiter) CheckLoginAttempt(ctx context.Context, ip, login string) (bool, int64, error) {
	key := r.loginKey(ip, login)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment login attempt: %w", err)
	}

	// Set expiration on first attempt
	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window).Err(); err != nil {
			return false, 0, fmt.Errorf("failed to set login attempt window: %w", err)
		}
	}

	remaining := max(r.maxAttempts-count, 0)
	return count <= r.maxAttempts, remaining, nil
}

// GetRemainingAttempts returns remaining login attempts
func (r *RateLimiter) GetRemainingAttempts(ctx context.Context, ip, login string) (int64, error) {
	count, err := r.client.Get(ctx, r.loginKey(ip, login)).Int64()
	if err == redis.Nil {
		return r.maxAttempts, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get login attempts: %w", err)
	}

	return max(r.maxAttempts-count, 0), nil
}

// ResetLoginAttempts resets the login attempt counter
func (r *RateLimiter) ResetLoginAttempts(ctx context.Context, ip, login string) error {
	return r.client.Del(ctx, r.loginKey(ip, login)).Err()
}

func (r *RateLimiter) loginKey(ip, login string) string {
	return fmt.Sprintf("ratelimit:login:%s:%s", ip, login)
}
