package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/listoapp/listo-api/internal/config"
	"github.com/listoapp/listo-api/internal/platform/logger"
)

// RedisCache implements Cache over a Redis client. Entries are stored as
// JSON strings.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a cache over the configured Redis instance and
// verifies connectivity with a short ping.
func NewRedisCache(ctx context.Context, cfg config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &RedisCache{client: client}, nil
}

var _ Cache = (*RedisCache)(nil)

// Get implements Cache.Get
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) bool {
	log := logger.FromContext(ctx)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn("cache get failed", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		log.Warn("cache entry is not valid JSON, evicting", "key", key, "error", err)
		c.client.Del(ctx, key)
		return false
	}

	return true
}

// Set implements Cache.Set
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	log := logger.FromContext(ctx)

	data, err := json.Marshal(value)
	if err != nil {
		log.Warn("cache set skipped, value not serializable", "key", key, "error", err)
		return
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Warn("cache set failed", "key", key, "error", err)
	}
}

// Delete implements Cache.Delete
func (c *RedisCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.FromContext(ctx).Warn("cache delete failed", "keys", keys, "error", err)
	}
}

// DeletePattern implements Cache.DeletePattern. It scans rather than using
// KEYS so large caches do not block the Redis server.
func (c *RedisCache) DeletePattern(ctx context.Context, pattern string) {
	log := logger.FromContext(ctx)

	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Warn("cache scan failed", "pattern", pattern, "error", err)
		return
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			log.Warn("cache pattern delete failed", "pattern", pattern, "error", err)
		}
	}
}

// Flush implements Cache.Flush
func (c *RedisCache) Flush(ctx context.Context) {
	if err := c.client.FlushDB(ctx).Err(); err != nil {
		logger.FromContext(ctx).Warn("cache flush failed", "error", err)
	}
}

// Close releases the underlying Redis connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
