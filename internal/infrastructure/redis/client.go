package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	dialTimeout = 3 * time.Second
	ioTimeout   = time.Second
)

// NewClient creates a Redis client from a redis:// URL and pings it. Read and
// write timeouts are kept short: the wallet treats Redis as an optional cache.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	if opts.DialTimeout == 0 || opts.DialTimeout > dialTimeout {
		opts.DialTimeout = dialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = ioTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = ioTimeout
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// Checker adapts a client to the readiness probe.
type Checker struct {
	client *redis.Client
}

// NewChecker creates a Checker.
func NewChecker(client *redis.Client) *Checker {
	return &Checker{client: client}
}

// Check pings Redis.
func (c *Checker) Check(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
