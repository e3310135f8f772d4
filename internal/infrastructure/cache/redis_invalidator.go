package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisInvalidator implements CacheInvalidator using Redis. It is suitable
// for deployments where several instances share cached read models.
// Invalidation is best effort: failures are logged, never returned.
type RedisInvalidator struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisInvalidator creates a new Redis-backed invalidator
func NewRedisInvalidator(cfg RedisConfig, logger *zap.Logger) (*RedisInvalidator, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisInvalidatorWithClient(client, "", logger), nil
}

// NewRedisInvalidatorWithClient creates an invalidator with an existing Redis
// client. Useful for testing or when sharing a client across components.
func NewRedisInvalidatorWithClient(client *redis.Client, keyPrefix string, logger *zap.Logger) *RedisInvalidator {
	if keyPrefix == "" {
		keyPrefix = "ledger:"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisInvalidator{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

// Invalidate drops the given cache keys. Keys are prefixed so the ledger
// shares a Redis database with other consumers without collisions.
func (i *RedisInvalidator) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}

	prefixed := make([]string, len(keys))
	for n, key := range keys {
		prefixed[n] = i.keyPrefix + key
	}

	if err := i.client.Del(ctx, prefixed...).Err(); err != nil {
		i.logger.Warn("cache invalidation failed",
			zap.Strings("keys", keys),
			zap.Error(err),
		)
	}
}

// Close closes the underlying Redis client
func (i *RedisInvalidator) Close() error {
	return i.client.Close()
}
