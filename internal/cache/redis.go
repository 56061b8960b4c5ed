package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps transients in Redis so several hosts share one cache.
// Every key is prefixed with the configured key prefix.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore creates a store backed by a new Redis client.
func NewRedisStore(opts *redis.Options, prefix string) *RedisStore {
	return &RedisStore{
		rdb:    redis.NewClient(opts),
		prefix: prefix,
	}
}

// Ping verifies Redis connectivity.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *RedisStore) key(name string) string {
	return r.prefix + "transient:" + name
}

func (r *RedisStore) GetTransient(ctx context.Context, key string) (string, bool, error) {
	value, err := r.rdb.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read transient %s: %w", key, err)
	}
	return value, true, nil
}

func (r *RedisStore) SetTransient(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, r.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write transient %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) DeleteTransient(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete transient %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
