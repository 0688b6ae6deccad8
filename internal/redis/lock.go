package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("booking lock not acquired")
)

// releaseTimeout bounds the detached context used to release held lock keys.
const releaseTimeout = 2 * time.Second

// Locker guards the booking commit path. A booking must hold both the
// employee lock and the customer lock so that two concurrent requests can
// neither double-book the employee nor the customer.
type Locker interface {
	WithBookingLock(ctx context.Context, employeeID, customerID uuid.UUID, fn func(ctx context.Context) error) error
}

type redisBookingLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBookingLocker creates a locker keyed per employee and per customer.
func NewRedisBookingLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisBookingLocker{
		client: client,
		ttl:    ttl,
	}
}

func (l *redisBookingLocker) WithBookingLock(ctx context.Context, employeeID, customerID uuid.UUID, fn func(ctx context.Context) error) error {
	keys := []string{
		fmt.Sprintf("lock:employee:%s", employeeID.String()),
		fmt.Sprintf("lock:customer:%s", customerID.String()),
	}
	token := uuid.NewString()

	var held []string
	defer func() {
		// Release does not ride the request context. If the request was
		// cancelled mid-commit the keys must still be deleted now, not
		// left to linger for the full TTL blocking the next booker.
		releaseCtx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		for _, key := range held {
			_ = l.release(releaseCtx, key, token)
		}
	}()

	// Non-blocking acquisition: if either key is taken, the whole attempt
	// fails and the caller reports contention.
	for _, key := range keys {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("acquire booking lock %s: %w", key, err)
		}
		if !ok {
			return ErrLockNotAcquired
		}
		held = append(held, key)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisBookingLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release booking lock %s: %w", key, err)
	}
	return nil
}
