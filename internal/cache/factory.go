// Package cache provides the transient stores used to memoise expensive counts.
package cache

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"idx-go/internal/config"
	"idx-go/internal/seo"
)

// Store is a TransientStore that holds a connection.
type Store interface {
	seo.TransientStore
	Close() error
}

// NewTransientStoreFromConfig creates a Store based on the cache config type.
func NewTransientStoreFromConfig(cfg config.CacheConfig, clock seo.Clock) (Store, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemoryStore(clock), nil
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis_addr required for redis cache")
		}
		return NewRedisStore(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown cache type: %s", cfg.Type)
	}
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
)
