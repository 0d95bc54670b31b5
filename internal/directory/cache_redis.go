package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const nameKeyPrefix = "stocktrail:name:"

// RedisCache shares resolved names between instances. Entries expire after
// ttl so renames become visible without explicit invalidation.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisCache{client: client, ttl: ttl}
}

func nameKey(kind Kind, key string) string {
	return nameKeyPrefix + string(kind) + ":" + key
}

// Get returns the cached names among keys. Misses are simply absent.
func (c *RedisCache) Get(ctx context.Context, kind Kind, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	redisKeys := make([]string, len(keys))
	for i, k := range keys {
		redisKeys[i] = nameKey(kind, k)
	}
	values, err := c.client.MGet(ctx, redisKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget names: %w", err)
	}
	for i, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out[keys[i]] = s
		}
	}
	return out, nil
}

func (c *RedisCache) Set(ctx context.Context, kind Kind, names map[string]string) error {
	if len(names) == 0 {
		return nil
	}
	pipe := c.client.Pipeline()
	for k, name := range names {
		pipe.Set(ctx, nameKey(kind, k), name, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache names: %w", err)
	}
	return nil
}
