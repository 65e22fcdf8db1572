// Package cache keeps short-lived copies of the seller directory and the
// dashboard metrics in Redis. A nil *Cache is valid and caches nothing.
package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rental_portal_backend/internal/leads/domain"
	"rental_portal_backend/internal/leads/metrics"
	"rental_portal_backend/platform/config"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "leads:"
	metricsKey = keyPrefix + "metrics"
	sellersKey = keyPrefix + "sellers"
)

type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisClient connects to cfg's Redis URL. It returns nil without error
// when no URL is configured.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.GetRedisURL() == "" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.GetRedisTLSInsecure() {
		if opt.TLSConfig == nil {
			opt.TLSConfig = &tls.Config{}
		}
		opt.TLSConfig.InsecureSkipVerify = true
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// New wraps rdb. A nil client or non-positive ttl yields a nil Cache.
func New(rdb *redis.Client, ttl time.Duration) *Cache {
	if rdb == nil || ttl <= 0 {
		return nil
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// GetMetrics returns the cached metrics, if any.
func (c *Cache) GetMetrics(ctx context.Context) (metrics.Metrics, bool, error) {
	var m metrics.Metrics
	ok, err := c.get(ctx, metricsKey, &m)
	return m, ok, err
}

// SetMetrics stores m for the configured TTL.
func (c *Cache) SetMetrics(ctx context.Context, m metrics.Metrics) error {
	return c.set(ctx, metricsKey, m)
}

// GetSellers returns the cached seller directory, if any.
func (c *Cache) GetSellers(ctx context.Context) ([]domain.Seller, bool, error) {
	var sellers []domain.Seller
	ok, err := c.get(ctx, sellersKey, &sellers)
	return sellers, ok, err
}

// SetSellers stores the seller directory for the configured TTL.
func (c *Cache) SetSellers(ctx context.Context, sellers []domain.Seller) error {
	return c.set(ctx, sellersKey, sellers)
}

// InvalidateMetrics drops the cached metrics after a lead changes.
func (c *Cache) InvalidateMetrics(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.rdb.Del(ctx, metricsKey).Err()
}

func (c *Cache) get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil {
		return false, nil
	}

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		// A payload from an older layout is treated as a miss.
		_ = c.rdb.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (c *Cache) set(ctx context.Context, key string, value any) error {
	if c == nil {
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, c.ttl).Err()
}
