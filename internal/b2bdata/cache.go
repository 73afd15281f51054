package b2bdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/PedroCariumaDev/b2b-shopify-linesheet-ui/internal/domain"
)

// DefaultCacheTTL is how long a location's B2B data stays cached. Catalog
// assignments change rarely; a reload past the TTL picks changes up.
const DefaultCacheTTL = 5 * time.Minute

// RedisCache is a read-through cache for location B2B data backed by Redis.
// Every failure degrades to a cache miss so the portal keeps working when
// Redis is down.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// RedisCacheConfig holds connection settings for the cache.
type RedisCacheConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration // zero uses DefaultCacheTTL
}

// NewRedisCache creates the cache and verifies connectivity.
func NewRedisCache(ctx context.Context, cfg RedisCacheConfig, logger *slog.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}

	return &RedisCache{client: client, ttl: ttl, logger: logger}, nil
}

// Get returns the cached data for a location, or (nil, false) on miss or
// any cache failure.
func (c *RedisCache) Get(ctx context.Context, locationID string) (*domain.BusinessData, bool) {
	raw, err := c.client.Get(ctx, c.key(locationID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("b2b data cache read failed", "location_id", locationID, "error", err)
		}
		return nil, false
	}

	var data domain.BusinessData
	if err := json.Unmarshal(raw, &data); err != nil {
		c.logger.Debug("b2b data cache entry corrupt", "location_id", locationID, "error", err)
		return nil, false
	}
	return &data, true
}

// Set stores the data for a location. Failures are logged and swallowed.
func (c *RedisCache) Set(ctx context.Context, locationID string, data *domain.BusinessData) {
	raw, err := json.Marshal(data)
	if err != nil {
		c.logger.Debug("b2b data cache encode failed", "location_id", locationID, "error", err)
		return
	}
	if err := c.client.Set(ctx, c.key(locationID), raw, c.ttl).Err(); err != nil {
		c.logger.Debug("b2b data cache write failed", "location_id", locationID, "error", err)
	}
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) key(locationID string) string {
	return "linesheet:b2bdata:" + locationID
}
