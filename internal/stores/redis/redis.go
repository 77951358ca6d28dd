package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type Option func(*goredis.Options)

func WithPassword(password string) Option {
	return func(o *goredis.Options) {
		o.Password = password
	}
}

func WithDB(db int) Option {
	return func(o *goredis.Options) {
		o.DB = db
	}
}

// OpenClient builds a client for address and verifies it answers PING.
func OpenClient(ctx context.Context, address string, options ...Option) (*goredis.Client, error) {
	if address == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	opts := &goredis.Options{Addr: address}
	for _, option := range options {
		option(opts)
	}
	client := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
