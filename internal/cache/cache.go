package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin JSON cache over Redis. A nil client disables caching
// entirely; every method then degrades to a miss.
type Cache struct {
	redis  *redis.Client
	prefix string
	ttl    time.Duration
}

func New(redisClient *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{redis: redisClient, prefix: prefix, ttl: ttl}
}

func (c *Cache) key(key string) string {
	return fmt.Sprintf("%s%s", c.prefix, key)
}

// GetJSON reads and unmarshals a cached value. The bool reports a hit.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil || c.redis == nil {
		return false, nil
	}

	data, err := c.redis.Get(ctx, c.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("cache get: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("cache unmarshal: %w", err)
	}
	return true, nil
}

// SetJSON stores a value under the cache TTL. Failures are returned but
// callers treat them as non-fatal.
func (c *Cache) SetJSON(ctx context.Context, key string, value any) error {
	if c == nil || c.redis == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	return c.redis.Set(ctx, c.key(key), data, c.ttl).Err()
}

// Delete removes keys, ignoring missing ones.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if c == nil || c.redis == nil || len(keys) == 0 {
		return
	}
	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = c.key(key)
	}
	c.redis.Del(ctx, prefixed...)
}

// HealthCheck pings the backing Redis.
func (c *Cache) HealthCheck(ctx context.Context) error {
	if c == nil || c.redis == nil {
		return nil
	}
	return c.redis.Ping(ctx).Err()
}
