package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	failureWindow = 15 * time.Minute
	maxFailures   = 5
)

// SigninThrottle counts failed signin attempts per email in Redis.
// Key format: signin_fail:<lowercased email>, expiring after failureWindow.
type SigninThrottle struct {
	client *redis.Client
}

// NewSigninThrottle creates a SigninThrottle wrapping the given Redis client.
func NewSigninThrottle(client *redis.Client) *SigninThrottle {
	return &SigninThrottle{client: client}
}

// Blocked reports whether the email has exhausted its failure budget within
// the current window.
func (t *SigninThrottle) Blocked(ctx context.Context, email string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(email)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle check: %w", err)
	}
	return n >= maxFailures, nil
}

// RecordFailure bumps the failure counter, starting the expiry window on the
// first failure.
func (t *SigninThrottle) RecordFailure(ctx context.Context, email string) error {
	key := t.key(email)
	n, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("throttle incr: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, key, failureWindow).Err(); err != nil {
			return fmt.Errorf("throttle expire: %w", err)
		}
	}
	return nil
}

// Reset clears the counter after a successful signin.
func (t *SigninThrottle) Reset(ctx context.Context, email string) error {
	return t.client.Del(ctx, t.key(email)).Err()
}

func (t *SigninThrottle) key(email string) string {
	return "signin_fail:" + strings.ToLower(email)
}
