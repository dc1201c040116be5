package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/feedsync/backend/internal/domain/feed"
	"github.com/feedsync/backend/internal/infrastructure/config"
)

// StatsCacheFactory creates stats caches based on configuration
type StatsCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// StatsCacheFactoryOption is a functional option for configuring the factory
type StatsCacheFactoryOption func(*StatsCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) StatsCacheFactoryOption {
	return func(f *StatsCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) StatsCacheFactoryOption {
	return func(f *StatsCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStatsCacheFactory creates a new factory
func NewStatsCacheFactory(cfg config.RedisConfig, opts ...StatsCacheFactoryOption) *StatsCacheFactory {
	f := &StatsCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateCache creates a stats cache. When Redis is enabled it is tried
// first; the in-memory cache is the fallback for single-instance setups.
func (f *StatsCacheFactory) CreateCache() (feed.StatsCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("using in-memory feed stats cache")
		return NewInMemoryStatsCache(), nil
	}

	store, err := NewRedisStatsCache(f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis feed stats cache")
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for stats cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory feed stats cache",
		zap.Error(err),
	)
	return NewInMemoryStatsCache(), nil
}
