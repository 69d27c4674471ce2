package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/parcelco/backoffice/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Cache is the byte cache both backends implement
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Cache = (*RedisCache)(nil)
	_ Cache = (*MemoryCache)(nil)
)

// Factory creates caches based on configuration
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to a
// memory cache. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a Redis cache when Redis is enabled and reachable, and a
// memory cache otherwise (unless fallback is disabled)
func (f *Factory) Create(ctx context.Context) (Cache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("redis disabled, using in-memory cache")
		return NewMemoryCache(time.Minute), nil
	}

	c, err := NewRedisCache(ctx, f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory cache; "+
		"cached dashboard stats will not be shared between instances",
		zap.Error(err),
	)
	return NewMemoryCache(time.Minute), nil
}
