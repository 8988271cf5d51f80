package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestCacheRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	snap := Snapshot{TotalProducts: 12, TotalOrders: 40, TotalRevenue: 1234.5, RefreshedAt: time.Now().UTC()}
	require.NoError(t, cache.Set(ctx, snap))

	got, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, snap.TotalProducts, got.TotalProducts)
	require.InDelta(t, snap.TotalRevenue, got.TotalRevenue, 0.0001)
}

func TestCacheBumpInvalidates(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, Snapshot{TotalProducts: 12}))
	require.NoError(t, cache.Bump(ctx))

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok, "bump must invalidate cached snapshots")
}

func TestNilCacheDegrades(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	_, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, cache.Set(ctx, Snapshot{}))
	require.NoError(t, cache.Bump(ctx))
}
