// Package cache holds short-lived byte caches for computed read models,
// backed by Redis when it is reachable and by process memory otherwise.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/parcelco/backoffice/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "parcel:"

// RedisCache stores values in Redis under a common key prefix
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisCache connects to Redis and verifies the connection with a ping
func NewRedisCache(ctx context.Context, cfg config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisCacheWithClient(client, ""), nil
}

// NewRedisCacheWithClient wraps an existing client
func NewRedisCacheWithClient(client *redis.Client, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisCache{client: client, keyPrefix: keyPrefix}
}

// Get returns the cached value; ok is false on a miss
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

// Set stores value with the given TTL
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Ping reports whether Redis answers
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying client
func (c *RedisCache) Close() error {
	return c.client.Close()
}
