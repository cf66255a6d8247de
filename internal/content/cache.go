// internal/content/cache.go
package content

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ben3683914/maskhot-sub000/internal/common/logger"
)

const cacheKeyPrefix = "matchsim:content:"

// Cache is a read-through byte cache over Redis for content pack files.
// Cache failures degrade to a direct load with a warning; they never
// fail the read.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCache(client *redis.Client, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "content-cache"}),
	}
}

// GetOrLoad returns the cached bytes for key, loading and storing them
// on a miss.
func (c *Cache) GetOrLoad(ctx context.Context, key string, load func() ([]byte, error)) ([]byte, error) {
	fullKey := cacheKeyPrefix + key

	cached, err := c.client.Get(ctx, fullKey).Bytes()
	if err == nil {
		c.logger.Debug("cache hit", map[string]interface{}{"key": fullKey})
		return cached, nil
	}
	if err != redis.Nil {
		c.logger.Warn("cache read failed, loading directly", map[string]interface{}{
			"key":   fullKey,
			"error": err.Error(),
		})
	}

	data, err := load()
	if err != nil {
		return nil, err
	}

	if err := c.client.Set(ctx, fullKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", map[string]interface{}{
			"key":   fullKey,
			"error": err.Error(),
		})
	}
	return data, nil
}

// Invalidate drops the cached entry for key.
func (c *Cache) Invalidate(ctx context.Context, key string) error {
	return c.client.Del(ctx, cacheKeyPrefix+key).Err()
}
