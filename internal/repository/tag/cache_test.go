package tag

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T) *RedisCache {
	t.Helper()
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisCache(rdb, time.Minute)
}

func TestNopCache(t *testing.T) {
	c := NopCache{}
	c.Set(context.Background(), "0", "re", []string{"React"})
	_, _, ok := c.Get(context.Background(), "re")
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate(context.Background()))
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c := newRedisCache(t)

	_, gen, ok := c.Get(ctx, "re")
	assert.False(t, ok)
	assert.Equal(t, "0", gen)

	c.Set(ctx, gen, "re", []string{"React", "Redis"})
	names, _, ok := c.Get(ctx, "re")
	require.True(t, ok)
	assert.Equal(t, []string{"React", "Redis"}, names)

	require.NoError(t, c.Invalidate(ctx))
	_, gen, ok = c.Get(ctx, "re")
	assert.False(t, ok)
	assert.Equal(t, "1", gen)
}

func TestRedisCacheDropsResultsOfInvalidatedGeneration(t *testing.T) {
	ctx := context.Background()
	c := newRedisCache(t)

	// a search misses, then a product registers tags before the result is stored
	_, gen, ok := c.Get(ctx, "re")
	require.False(t, ok)
	require.NoError(t, c.Invalidate(ctx))
	c.Set(ctx, gen, "re", []string{"React"})

	_, _, ok = c.Get(ctx, "re")
	assert.False(t, ok, "a result read before the invalidation must not be served")
}
