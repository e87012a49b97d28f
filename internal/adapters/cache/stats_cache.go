package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alecgard/dot-goal-journal/internal/core/domain"
)

var _ domain.ComputeCache = (*RedisComputeCache)(nil)

const DefaultComputeTTL = 30 * time.Minute

// RedisComputeCache stores derived stats and grids as JSON. Keys already
// encode the ledger fingerprint and today, so entries never need to be
// invalidated; the TTL only bounds memory.
type RedisComputeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisComputeCache(client *redis.Client, ttl time.Duration) *RedisComputeCache {
	if ttl <= 0 {
		ttl = DefaultComputeTTL
	}
	return &RedisComputeCache{client: client, ttl: ttl}
}

// Load decodes the entry into dest. A miss is (false, nil); a corrupt entry
// is removed and reported as a miss.
func (c *RedisComputeCache) Load(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache: get %s: %w", key, err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		c.client.Del(ctx, key)
		return false, nil
	}
	return true, nil
}

func (c *RedisComputeCache) Store(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}
