// Package redisx wraps a Redis client with the operations the core's Seat
// Inventory uses: a belt-and-suspenders distributed lock layered over the
// database row lock (spec.md §5). It also carries plain TTL'd string
// get/set/delete helpers; nothing in this module caches through them.
package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"flightcore/internal/config"
)

// Client wraps *redis.Client with the core's higher-level operations.
type Client struct {
	*redis.Client
}

// NewClient creates a new Redis client.
func NewClient(cfg *config.RedisConfig) *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Client{rdb}
}

// Ping checks Redis connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

// SetString sets a string value in Redis with a TTL.
func (c *Client) SetString(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

// GetString gets a string value from Redis.
func (c *Client) GetString(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

// Delete deletes a key from Redis.
func (c *Client) Delete(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// AcquireLock acquires a distributed lock, flight-row-scoped (spec.md §5
// "Flight row: write-locked during booking creation"). This sits above, not
// instead of, the database row lock acquired inside the booking transaction;
// it reports whether the key was set and leaves it to the caller what a miss
// means (inventory's withFlightLock proceeds either way).
func (c *Client) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.Client.SetNX(ctx, key, "locked", ttl).Result()
}

// ReleaseLock releases a distributed lock.
func (c *Client) ReleaseLock(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}
