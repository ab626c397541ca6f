// Package cache stores commerce responses in Redis as JSON.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront/internal/logging"
)

const (
	keyPrefix       = "storefront:"
	defaultCacheTTL = 5 * time.Minute
)

var cacheLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_cache_lookups_total",
		Help: "Commerce response cache lookups by result",
	},
	[]string{"result"},
)

// RedisCache is a JSON value cache with a single TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logging.LoggerV2
}

// NewRedisCache connects to the configured Redis instance.
func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisCacheWithClient(client, cfg.TTL)
}

// NewRedisCacheWithClient wraps an existing client.
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl == 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
		logger: logging.NewLoggerV2("commerce-cache"),
	}
}

// Get decodes the value stored under key into dest. It reports false on a
// miss, including when the stored value no longer decodes into dest.
func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		cacheLookups.WithLabelValues("miss").Inc()
		c.logger.Debug("Cache miss", logging.Fields{"key": key})
		return false, nil
	}
	if err != nil {
		cacheLookups.WithLabelValues("error").Inc()
		c.logger.Error("Cache get error", logging.Fields{
			"key":   key,
			"error": err.Error(),
		})
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// Entries written by an older model shape are evicted and refetched.
		cacheLookups.WithLabelValues("unreadable").Inc()
		c.logger.Warn("Evicting unreadable cache entry", logging.Fields{
			"key":   key,
			"error": err.Error(),
		})
		if err := c.Delete(ctx, key); err != nil {
			return false, err
		}
		return false, nil
	}

	cacheLookups.WithLabelValues("hit").Inc()
	c.logger.Debug("Cache hit", logging.Fields{"key": key})
	return true, nil
}

// Set stores value under key for the cache TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Error("Cache set error", logging.Fields{
			"key":   key,
			"error": err.Error(),
		})
		return err
	}

	c.logger.Debug("Value cached", logging.Fields{
		"key": key,
		"ttl": c.ttl.String(),
	})
	return nil
}

// Delete removes key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, keyPrefix+key).Err()
}

// Ping checks connectivity for readiness probes.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
