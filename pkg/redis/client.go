// Package redis provides the shared Redis client for the application.
package redis

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/auto-zakaz/intake-bot/pkg/config"
)

// Client wraps the go-redis client so callers can reach both the raw
// client and app-level helpers.
type Client struct {
	*redis.Client
}

// New creates a Redis client configured with cfg and verifies the
// connection with Ping.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Client{rdb}, nil
}

// Close shuts down the Redis client.
func (c *Client) Close() error {
	return c.Client.Close()
}
