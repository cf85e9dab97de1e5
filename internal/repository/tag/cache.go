package tag

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]string, string, bool) { return nil, "", false }
func (NopCache) Set(context.Context, string, string, []string) {}
func (NopCache) Invalidate(context.Context) error { return nil }

// RedisCache keeps search results under a generation number. Invalidate bumps the
// generation, so stale entries are never read again and expire on their own.
type RedisCache struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

var _ Cache = (*RedisCache)(nil)

func NewRedisCache(rdb redis.UniversalClient, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) generation(ctx context.Context) (string, error) {
	gen, err := c.rdb.Get(ctx, cacheGenerationKey).Result()
	if err == redis.Nil {
		return "0", nil
	}
	return gen, err
}

func (c *RedisCache) entryKey(gen, query string) string {
	return cacheKeyPrefix + gen + ":" + query
}

func (c *RedisCache) Get(ctx context.Context, query string) ([]string, string, bool) {
	gen, err := c.generation(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("tag cache: read generation")
		return nil, "", false
	}

	raw, err := c.rdb.Get(ctx, c.entryKey(gen, query)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Debug().Err(err).Msg("tag cache: get")
		}
		return nil, gen, false
	}

	names := []string{}
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, gen, false
	}
	return names, gen, true
}

// Set writes under gen, the generation the search started from. A search that
// raced with Invalidate lands under the old generation and is never served.
func (c *RedisCache) Set(ctx context.Context, gen, query string, names []string) {
	if gen == "" {
		return
	}

	raw, err := json.Marshal(names)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, c.entryKey(gen, query), raw, c.ttl).Err(); err != nil {
		log.Debug().Err(err).Msg("tag cache: set")
	}
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, cacheGenerationKey).Err()
}
