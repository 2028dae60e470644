package locker

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultLockTTL = 30 * time.Minute

// Redis is a Locker backed by a conditional SET in Redis, for deployments
// running more than one executor instance. Keys carry a TTL so a crashed
// instance cannot strand a mailout in the locked state forever.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// RedisOption configures the Redis locker.
type RedisOption func(*Redis)

// WithPrefix sets the key prefix. Default: "mailout:lock:".
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// WithTTL sets the lock expiry. Default: 30 minutes, comfortably above the
// longest plausible send run under the default rate limit.
func WithTTL(d time.Duration) RedisOption {
	return func(r *Redis) {
		if d > 0 {
			r.ttl = d
		}
	}
}

// NewRedis creates a Redis-backed locker.
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	r := &Redis{
		client: client,
		prefix: "mailout:lock:",
		ttl:    defaultLockTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TryAcquire implements Locker via SET NX.
func (r *Redis) TryAcquire(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}

	ok, err := r.client.SetNX(ctx, r.prefix+key, "1", r.ttl).Result()
	if err != nil {
		return false, errors.Join(ErrUnavailable, err)
	}
	return ok, nil
}

// Release implements Locker.
func (r *Redis) Release(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return errors.Join(ErrUnavailable, err)
	}
	return nil
}
