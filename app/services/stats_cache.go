package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// StatsCache holds short-lived JSON snapshots such as dashboard aggregates
type StatsCache interface {
	// Get decodes the cached value into dest and reports whether it was found
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context, keys ...string) error
}

// RedisStatsCache stores snapshots in Redis under a key prefix
type RedisStatsCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStatsCache(client *redis.Client, prefix string, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisStatsCache) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

func (c *RedisStatsCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	bs, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(bs, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, key string, value any) error {
	bs, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.client.Set(ctx, c.key(key), bs, c.ttl).Err()
}

func (c *RedisStatsCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.client.Del(ctx, full...).Err()
}

// MemoryStatsCache is the in-process fallback used when Redis is disabled
type MemoryStatsCache struct {
	cache *gocache.Cache
}

func NewMemoryStatsCache(ttl, cleanupInterval time.Duration) *MemoryStatsCache {
	if cleanupInterval <= 0 {
		cleanupInterval = 2 * ttl
	}
	return &MemoryStatsCache{cache: gocache.New(ttl, cleanupInterval)}
}

func (c *MemoryStatsCache) Get(_ context.Context, key string, dest any) (bool, error) {
	v, ok := c.cache.Get(key)
	if !ok {
		return false, nil
	}
	bs, ok := v.([]byte)
	if !ok {
		return false, fmt.Errorf("unexpected cached type %T for %s", v, key)
	}
	if err := json.Unmarshal(bs, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *MemoryStatsCache) Set(_ context.Context, key string, value any) error {
	bs, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	c.cache.Set(key, bs, gocache.DefaultExpiration)
	return nil
}

func (c *MemoryStatsCache) Invalidate(_ context.Context, keys ...string) error {
	for _, k := range keys {
		c.cache.Delete(k)
	}
	return nil
}
