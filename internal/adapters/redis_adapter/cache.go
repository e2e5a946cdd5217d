// internal/adapters/redis_adapter/cache.go
package redis_a

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ammerola/franchise-reconcile/internal/core/ports"
)

// Cache stores JSON values in Redis
type Cache struct {
	client *redis.Client
	logger *slog.Logger
}

var _ ports.CacheRepository = (*Cache)(nil)

// ErrCacheMiss is returned when a key is not found in cache
var ErrCacheMiss = ports.ErrCacheMiss

// NewCache creates a new cache instance
func NewCache(client *redis.Client, logger *slog.Logger) *Cache {
	return &Cache{
		client: client,
		logger: logger.With(slog.String("component", "cache")),
	}
}

// SetWithTTL stores a value as JSON
func (c *Cache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.ErrorContext(ctx, "failed to set cache",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return fmt.Errorf("redis set error: %w", err)
	}

	c.logger.DebugContext(ctx, "cache set",
		slog.String("key", key),
		slog.Duration("ttl", ttl))
	return nil
}

// Get decodes the value at key into dest
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.logger.DebugContext(ctx, "cache miss", slog.String("key", key))
		return ErrCacheMiss
	}
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to get cache",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return fmt.Errorf("redis get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal error: %w", err)
	}
	return nil
}

// Delete removes keys
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del error: %w", err)
	}
	c.logger.DebugContext(ctx, "cache deleted", slog.Any("keys", keys))
	return nil
}

// DeletePattern removes all keys matching a glob pattern
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	var keys []string
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan error: %w", err)
	}
	return c.Delete(ctx, keys...)
}

// GetOrSet reads key into dest, or fetches, stores and decodes on a miss.
// A failed cache write is logged and the fetched value still returned.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{},
	fetch func() (interface{}, error), ttl time.Duration) error {

	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		return err
	}

	value, err := fetch()
	if err != nil {
		return fmt.Errorf("fetch error: %w", err)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to cache value after fetch",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal error: %w", err)
	}
	return nil
}

// Ping checks if Redis is accessible
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping error: %w", err)
	}
	return nil
}
