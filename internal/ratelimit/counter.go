package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// CounterStore is the fast ephemeral tier of the login limiter. Its
// availability is a performance optimization, not a security dependency:
// every caller must be prepared to fall back to the durable ledger when it
// errors.
type CounterStore interface {
	// Get returns the current failure count for the IP (0 when absent)
	Get(ctx context.Context, ip string) (int, error)
	// Increment adds one failure and refreshes the expiry to ttl
	Increment(ctx context.Context, ip string, ttl time.Duration) error
	// Reset removes the counter for the IP
	Reset(ctx context.Context, ip string) error
}

const counterKeyPrefix = "login_attempts:"

type redisCounterStore struct {
	client *redis.Client
}

// NewRedisCounterStore creates a CounterStore backed by Redis
func NewRedisCounterStore(client *redis.Client) CounterStore {
	return &redisCounterStore{client: client}
}

func counterKey(ip string) string {
	return counterKeyPrefix + ip
}

func (s *redisCounterStore) Get(ctx context.Context, ip string) (int, error) {
	count, err := s.client.Get(ctx, counterKey(ip)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *redisCounterStore) Increment(ctx context.Context, ip string, ttl time.Duration) error {
	key := counterKey(ip)

	pipe := s.client.TxPipeline()
	pipe.Incr(ctx, key)
	// Refresh the expiry on every failure so the lockout window trails the
	// most recent attempt.
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *redisCounterStore) Reset(ctx context.Context, ip string) error {
	return s.client.Del(ctx, counterKey(ip)).Err()
}
