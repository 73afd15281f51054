package b2bdata

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/domain"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	cache, err := NewRedisCache(context.Background(), RedisCacheConfig{
		Addr: mr.Addr(),
		TTL:  ttl,
	}, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	return cache, mr
}

func TestRedisCache_RoundTrip(t *testing.T) {
	cache, _ := newTestCache(t, 0)
	ctx := context.Background()

	data := &domain.BusinessData{
		Company:  domain.Company{ID: "gid-1", Name: "Acme"},
		Catalogs: []domain.Catalog{{ID: "C1", Name: "Spring 2025", Products: []domain.Product{{ID: "p1"}}}},
	}
	cache.Set(ctx, "L1", data)

	got, ok := cache.Get(ctx, "L1")
	require.True(t, ok)
	assert.Equal(t, data, got)
}

func TestRedisCache_MissReturnsFalse(t *testing.T) {
	cache, _ := newTestCache(t, 0)

	got, ok := cache.Get(context.Background(), "unknown")
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestRedisCache_EntriesExpire(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	cache.Set(ctx, "L1", &domain.BusinessData{Company: domain.Company{ID: "gid-1"}})

	mr.FastForward(2 * time.Minute)

	_, ok := cache.Get(ctx, "L1")
	assert.False(t, ok)
}

func TestRedisCache_CorruptEntryIsAMiss(t *testing.T) {
	cache, mr := newTestCache(t, 0)

	require.NoError(t, mr.Set("linesheet:b2bdata:L1", "{not json"))

	_, ok := cache.Get(context.Background(), "L1")
	assert.False(t, ok)
}

func TestRedisCache_DownRedisDegradesToMiss(t *testing.T) {
	cache, mr := newTestCache(t, 0)
	ctx := context.Background()

	mr.Close()

	cache.Set(ctx, "L1", &domain.BusinessData{}) // must not panic or error
	_, ok := cache.Get(ctx, "L1")
	assert.False(t, ok)
}
