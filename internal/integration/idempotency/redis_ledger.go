// Package idempotency records delivered report messages in Redis.
package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sales-reporter/backend/internal/application/adapter"
)

// KeyPrefix namespaces ledger keys.
const KeyPrefix = "salesreport:delivered:"

// DefaultTTL bounds how long a delivery is remembered.
const DefaultTTL = 7 * 24 * time.Hour

// RedisLedger implements adapter.DeliveryLedger on Redis keys with a TTL.
type RedisLedger struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLedger creates a new RedisLedger. A non-positive ttl uses DefaultTTL.
func NewRedisLedger(client *redis.Client, ttl time.Duration) *RedisLedger {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisLedger{
		client: client,
		ttl:    ttl,
	}
}

// Seen reports whether key was recorded.
func (l *RedisLedger) Seen(ctx context.Context, key string) (bool, error) {
	n, err := l.client.Exists(ctx, KeyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("ledger lookup: %w", err)
	}
	return n > 0, nil
}

// Record marks key as delivered until the TTL expires.
func (l *RedisLedger) Record(ctx context.Context, key string) error {
	if err := l.client.Set(ctx, KeyPrefix+key, time.Now().UTC().Format(time.RFC3339), l.ttl).Err(); err != nil {
		return fmt.Errorf("ledger record: %w", err)
	}
	return nil
}

// Ping checks Redis connectivity.
func (l *RedisLedger) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// NewClient builds a Redis client from a redis:// URL, applying password and db
// overrides when set.
func NewClient(url, password string, db int) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	if db > 0 {
		opts.DB = db
	}
	return redis.NewClient(opts), nil
}

var _ adapter.DeliveryLedger = (*RedisLedger)(nil)
