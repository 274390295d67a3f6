// Package redis dials the Redis instance backing the registry name cache.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"sponsorreg/internal/platform/config"
)

// Client wraps go-redis so the server can health check its connection.
type Client struct {
	*redis.Client
}

// New connects to the Redis URL in cfg and verifies it with a ping.
// A nil client is returned when no URL is configured, which the caller
// treats as "run without the name cache".
func New(cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health reports whether the connection still answers.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.Client.Close()
}
