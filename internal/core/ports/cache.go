// internal/core/ports/cache.go
package ports

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key does not exist
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository defines the interface for cache operations
type CacheRepository interface {
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	DeletePattern(ctx context.Context, pattern string) error

	// GetOrSet loads key into dest, calling fetch and caching its result on a miss
	GetOrSet(ctx context.Context, key string, dest interface{},
		fetch func() (interface{}, error), ttl time.Duration) error

	Ping(ctx context.Context) error
}
