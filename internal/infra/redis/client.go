// Package redis caches resolved display names. Cached names are never
// invalidated: a reverse record changing after first resolution is out of
// scope, so entries are written without a TTL.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps Redis operations for the name cache.
type Client struct {
	rdb *redis.Client
}

// Config holds Redis connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// NewClient creates a new Redis client.
func NewClient(cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

func nameKey(address string) string {
	return fmt.Sprintf("ens_name:%s", address)
}

// GetName returns the cached display name for an address.
func (c *Client) GetName(ctx context.Context, address string) (name string, found bool, err error) {
	val, err := c.rdb.Get(ctx, nameKey(address)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get name failed: %w", err)
	}
	return val, true, nil
}

// SetName caches a resolved display name for an address, without expiry.
func (c *Client) SetName(ctx context.Context, address, name string) error {
	if err := c.rdb.Set(ctx, nameKey(address), name, 0).Err(); err != nil {
		return fmt.Errorf("set name failed: %w", err)
	}
	return nil
}
