// README: Surge multiplier cache backed by Redis.
package pricing

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type SurgeCache struct {
	redis *redis.Client
}

func NewSurgeCache(redis *redis.Client) *SurgeCache {
	return &SurgeCache{redis: redis}
}

// Get returns the cached multiplier and whether one was present.
func (c *SurgeCache) Get(ctx context.Context, key string) (float64, bool, error) {
	val, err := c.redis.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	m, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, err
	}
	return m, true, nil
}

func (c *SurgeCache) Set(ctx context.Context, key string, multiplier float64, ttl time.Duration) error {
	return c.redis.Set(ctx, key, strconv.FormatFloat(multiplier, 'f', -1, 64), ttl).Err()
}
