// Package redis wraps the go-redis client with health checking.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Client wraps the go-redis client. Nil when Redis is not configured;
// callers fall back to the in-memory snapshot store.
type Client struct {
	*redis.Client
}

// New creates a Redis client from a URL. An empty URL returns nil, nil.
func New(ctx context.Context, url string) (*Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Client{Client: client}, nil
}

// Health checks connectivity.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
