package redis_a_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redis_a "github.com/ammerola/franchise-reconcile/internal/adapters/redis_adapter"
	"github.com/ammerola/franchise-reconcile/internal/core/domain"
	"github.com/ammerola/franchise-reconcile/internal/core/ports"
	"github.com/ammerola/franchise-reconcile/test/helpers"
)

func newCache(t *testing.T) (*redis_a.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return redis_a.NewCache(client, helpers.TestLogger()), mr
}

func TestCache_SetAndGet(t *testing.T) {
	ctx := context.Background()
	cache, mr := newCache(t)

	snapshot := domain.Snapshot{
		{
			ID:               1,
			ProductVariantID: 7,
			Quantity:         3,
			ProductVariant:   domain.ProductVariant{ID: 7, QRCode: "ABC"},
			Product:          &domain.Product{ID: 2, FranchisePrice: 1500},
		},
	}

	require.NoError(t, cache.SetWithTTL(ctx, "snapshot:1", snapshot, time.Minute))
	assert.True(t, mr.Exists("snapshot:1"))
	assert.Equal(t, time.Minute, mr.TTL("snapshot:1"))

	var got domain.Snapshot
	require.NoError(t, cache.Get(ctx, "snapshot:1", &got))
	assert.Equal(t, snapshot, got)
}

func TestCache_GetMiss(t *testing.T) {
	cache, _ := newCache(t)

	var got string
	err := cache.Get(context.Background(), "absent", &got)
	assert.ErrorIs(t, err, ports.ErrCacheMiss)
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()
	cache, mr := newCache(t)

	require.NoError(t, cache.SetWithTTL(ctx, "report:diff:1:2", "https://example/r.xlsx", time.Second))
	mr.FastForward(2 * time.Second)

	var got string
	assert.ErrorIs(t, cache.Get(ctx, "report:diff:1:2", &got), ports.ErrCacheMiss)
}

func TestCache_Delete(t *testing.T) {
	ctx := context.Background()
	cache, mr := newCache(t)

	require.NoError(t, cache.SetWithTTL(ctx, "a", 1, time.Minute))
	require.NoError(t, cache.SetWithTTL(ctx, "b", 2, time.Minute))

	require.NoError(t, cache.Delete(ctx, "a", "b"))
	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))

	assert.NoError(t, cache.Delete(ctx))
}

func TestCache_DeletePattern(t *testing.T) {
	ctx := context.Background()
	cache, mr := newCache(t)

	for _, key := range []string{"snapshot:1", "snapshot:2", "draft:x"} {
		require.NoError(t, cache.SetWithTTL(ctx, key, key, time.Minute))
	}

	require.NoError(t, cache.DeletePattern(ctx, "snapshot:*"))
	assert.False(t, mr.Exists("snapshot:1"))
	assert.False(t, mr.Exists("snapshot:2"))
	assert.True(t, mr.Exists("draft:x"))
}

func TestCache_GetOrSet(t *testing.T) {
	tests := []struct {
		name       string
		seed       bool
		fetchErr   error
		wantCalls  int
		wantErr    bool
		wantResult []int
	}{
		{
			name:       "miss_fetches_and_stores",
			wantCalls:  1,
			wantResult: []int{1, 2, 3},
		},
		{
			name:       "hit_skips_fetch",
			seed:       true,
			wantCalls:  0,
			wantResult: []int{9},
		},
		{
			name:      "fetch_error_is_returned",
			fetchErr:  errors.New("db down"),
			wantCalls: 1,
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			cache, mr := newCache(t)
			if tt.seed {
				require.NoError(t, cache.SetWithTTL(ctx, "k", []int{9}, time.Minute))
			}

			calls := 0
			var got []int
			err := cache.GetOrSet(ctx, "k", &got, func() (interface{}, error) {
				calls++
				if tt.fetchErr != nil {
					return nil, tt.fetchErr
				}
				return []int{1, 2, 3}, nil
			}, time.Minute)

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				assert.ErrorIs(t, err, tt.fetchErr)
				assert.False(t, mr.Exists("k"))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantResult, got)
			assert.True(t, mr.Exists("k"))
		})
	}
}

func TestCache_Ping(t *testing.T) {
	cache, mr := newCache(t)
	assert.NoError(t, cache.Ping(context.Background()))

	mr.Close()
	assert.Error(t, cache.Ping(context.Background()))
}
