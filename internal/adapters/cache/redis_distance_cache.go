package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"food-delivery-service/internal/domain"
	"food-delivery-service/internal/platform/obs"

	redis "github.com/redis/go-redis/v9"
)

const DefaultRedisTTL = 24 * time.Hour

// RedisDistanceCache keeps BFS rows in Redis under "dist:<graphKey>:<origin>".
type RedisDistanceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisDistanceCache wraps an existing client. ttl <= 0 keeps rows forever.
func NewRedisDistanceCache(rdb *redis.Client, ttl time.Duration) *RedisDistanceCache {
	return &RedisDistanceCache{rdb: rdb, ttl: ttl}
}

// NewRedisDistanceCacheFromURL parses a redis:// URL and verifies the server answers.
func NewRedisDistanceCacheFromURL(ctx context.Context, url string) (*RedisDistanceCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis distance cache: parse url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis distance cache: ping: %w", err)
	}
	return NewRedisDistanceCache(rdb, DefaultRedisTTL), nil
}

func (c *RedisDistanceCache) Close() error { return c.rdb.Close() }

func (c *RedisDistanceCache) key(graphKey string, origin domain.Node) string {
	return "dist:" + graphKey + ":" + strconv.Itoa(int(origin))
}

func (c *RedisDistanceCache) GetMany(
	ctx context.Context,
	graphKey string,
	origins []domain.Node,
) (_ map[domain.Node][]int, err error) {
	defer obs.Time(ctx, "distance.cache.redis.GetMany")(&err)

	if c.rdb == nil {
		return nil, errors.New("distance cache: redis client is nil")
	}
	if graphKey == "" {
		return nil, errors.New("get distance cache: graph key must not be empty")
	}

	uniq := uniqueOrigins(origins)
	if len(uniq) == 0 {
		return map[domain.Node][]int{}, nil
	}

	keys := make([]string, len(uniq))
	for i, o := range uniq {
		keys[i] = c.key(graphKey, o)
	}

	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get distance cache: mget: %w", err)
	}

	out := make(map[domain.Node][]int, len(uniq))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		row, err := decodeRow(raw)
		if err != nil {
			return nil, fmt.Errorf("get distance cache origin=%d: %w", uniq[i], err)
		}
		out[uniq[i]] = row
	}
	return out, nil
}

func (c *RedisDistanceCache) PutMany(
	ctx context.Context,
	graphKey string,
	results map[domain.Node][]int,
) (err error) {
	defer obs.Time(ctx, "distance.cache.redis.PutMany")(&err)

	if c.rdb == nil {
		return errors.New("distance cache: redis client is nil")
	}
	if graphKey == "" {
		return errors.New("insert distance cache: graph key must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	pipe := c.rdb.Pipeline()
	for origin, row := range results {
		raw, err := encodeRow(row)
		if err != nil {
			return fmt.Errorf("insert distance cache origin=%d: %w", origin, err)
		}
		ttl := c.ttl
		if ttl < 0 {
			ttl = 0
		}
		pipe.Set(ctx, c.key(graphKey, origin), raw, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert distance cache: pipeline exec: %w", err)
	}
	return nil
}
