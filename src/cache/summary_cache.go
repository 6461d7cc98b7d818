// Package cache stores computed performance summaries per owner.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	logger "github.com/sirupsen/logrus"

	"tradejournal/src/performance"
)

const keyPrefix = "performance:summary:"

type SummaryCache interface {
	// Get reports a miss as (nil, false, nil).
	Get(ctx context.Context, ownerID string) (*performance.Summary, bool, error)
	Set(ctx context.Context, ownerID string, summary *performance.Summary) error
	Invalidate(ctx context.Context, ownerID string) error
}

func Key(ownerID string) string {
	return keyPrefix + ownerID
}

// New returns a Redis backed cache when enabled and reachable, otherwise a no-op cache.
func New(ctx context.Context, config Config) SummaryCache {
	if !config.Enabled {
		logger.Info("Summary cache disabled")
		return Noop{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.WithError(err).WithField("addr", config.Addr).Warn("Failed to connect to Redis, summary cache disabled")
		_ = client.Close()
		return Noop{}
	}

	logger.WithField("addr", config.Addr).Info("Connected to Redis summary cache")
	return NewRedisSummaryCache(client, config.SummaryTTL)
}

type RedisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{client: client, ttl: ttl}
}

func (c *RedisSummaryCache) Get(ctx context.Context, ownerID string) (*performance.Summary, bool, error) {
	val, err := c.client.Get(ctx, Key(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", Key(ownerID), err)
	}

	var summary performance.Summary
	if err := json.Unmarshal(val, &summary); err != nil {
		return nil, false, fmt.Errorf("decode cached summary: %w", err)
	}
	return &summary, true, nil
}

func (c *RedisSummaryCache) Set(ctx context.Context, ownerID string, summary *performance.Summary) error {
	b, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := c.client.Set(ctx, Key(ownerID), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", Key(ownerID), err)
	}
	return nil
}

func (c *RedisSummaryCache) Invalidate(ctx context.Context, ownerID string) error {
	if err := c.client.Del(ctx, Key(ownerID)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", Key(ownerID), err)
	}
	return nil
}

func (c *RedisSummaryCache) Close() error {
	return c.client.Close()
}

// Noop never stores anything; every Get is a miss.
type Noop struct{}

func (Noop) Get(context.Context, string) (*performance.Summary, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, string, *performance.Summary) error { return nil }
func (Noop) Invalidate(context.Context, string) error { return nil }
