package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultDialTimeout = 5 * time.Second
	defaultIOTimeout   = time.Second
	defaultPoolSize    = 20
)

// Config holds the cache connection settings. Zero values fall back to the
// package defaults.
type Config struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	IOTimeout    time.Duration
	PoolSize     int
	MinIdleConns int
}

func (c Config) options() *redis.Options {
	dial := c.DialTimeout
	if dial <= 0 {
		dial = defaultDialTimeout
	}
	io := c.IOTimeout
	if io <= 0 {
		io = defaultIOTimeout
	}
	pool := c.PoolSize
	if pool <= 0 {
		pool = defaultPoolSize
	}
	idle := c.MinIdleConns
	if idle < 0 || idle > pool {
		idle = 0
	}

	return &redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		DialTimeout:  dial,
		ReadTimeout:  io,
		WriteTimeout: io,
		PoolSize:     pool,
		MinIdleConns: idle,
	}
}

// Connect opens the catalog cache client and pings it within the dial
// timeout. The cache is optional at request time but required at boot.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts := cfg.options()
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s/%d: %w", cfg.Addr, cfg.DB, err)
	}

	return client, nil
}

// Ping reports whether the cache answers. It backs the readiness check.
func Ping(client *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
