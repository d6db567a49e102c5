// AngelaMos | 2026
// cache.go

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	activeServicesKey = "catalog:services:active"
	generationKey     = "catalog:services:generation"
)

// Cache holds the active service listing under a generation number.
// Invalidate moves to a new generation, so a listing read from the database
// before a mutation and written back after it lands under the old generation
// and is never served. A miss is reported as (nil, gen, false, nil).
type Cache interface {
	GetActive(ctx context.Context) ([]Service, int64, bool, error)
	SetActive(ctx context.Context, gen int64, services []Service) error
	Invalidate(ctx context.Context) error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func activeKey(gen int64) string {
	return activeServicesKey + ":" + strconv.FormatInt(gen, 10)
}

func (c *RedisCache) GetActive(ctx context.Context) ([]Service, int64, bool, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, 0, false, fmt.Errorf("get catalog generation: %w", err)
	}

	raw, err := c.client.Get(ctx, activeKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("get cached services: %w", err)
	}

	var services []Service
	if err := json.Unmarshal(raw, &services); err != nil {
		return nil, 0, false, fmt.Errorf("decode cached services: %w", err)
	}

	return services, gen, true, nil
}

func (c *RedisCache) SetActive(
	ctx context.Context,
	gen int64,
	services []Service,
) error {
	raw, err := json.Marshal(services)
	if err != nil {
		return fmt.Errorf("encode services: %w", err)
	}

	if err := c.client.Set(ctx, activeKey(gen), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache services: %w", err)
	}

	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("invalidate services: %w", err)
	}
	return nil
}
