package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/AnshRaj112/innerbloom-companion/internal/clock"
	"github.com/redis/go-redis/v9"
)

// CacheKeyPrefix is the Redis key prefix for cached platform data.
const CacheKeyPrefix = "innerbloom:cache:"

// Cache stores JSON-encodable values with a TTL.
type Cache interface {
	// Get decodes the value for key into dest. A miss is not an error.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// RedisCache keeps entries in Redis so they survive restarts.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.client.Get(ctx, CacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, CacheKeyPrefix+key, data, ttl).Err()
}

type cacheEntry struct {
	data    []byte
	expires time.Time
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	clock clock.Clock

	mu      sync.Mutex
	entries map[string]cacheEntry
}

func NewMemoryCache(clk clock.Clock) *MemoryCache {
	if clk == nil {
		clk = clock.Real()
	}
	return &MemoryCache{clock: clk, entries: make(map[string]cacheEntry)}
}

func (c *MemoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && !c.clock.Now().Before(e.expires) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{data: data, expires: c.clock.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}
