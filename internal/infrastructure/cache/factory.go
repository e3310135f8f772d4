package cache

import (
	appledger "github.com/bizledger/backend/internal/application/ledger"
	"github.com/bizledger/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewInvalidator creates a cache invalidator based on configuration. When
// Redis is disabled or unreachable it falls back to a process-local cache so
// a missing Redis never blocks startup.
func NewInvalidator(cfg config.RedisConfig, logger *zap.Logger) appledger.CacheInvalidator {
	if !cfg.Enabled {
		return NewMemoryCache()
	}

	invalidator, err := NewRedisInvalidator(RedisConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	}, logger)
	if err != nil {
		logger.Warn("redis unavailable, falling back to in-process cache", zap.Error(err))
		return NewMemoryCache()
	}

	return invalidator
}

// Ensure both implementations satisfy CacheInvalidator
var _ appledger.CacheInvalidator = (*RedisInvalidator)(nil)
var _ appledger.CacheInvalidator = (*MemoryCache)(nil)
