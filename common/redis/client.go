package redis

import (
	"context"
	"fmt"
	"time"

	"wave-client/common/config"

	"github.com/go-redis/redis/v8"
)

const dialTimeout = 3 * time.Second

// NewRedisClient builds a client from cfg without dialing.
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})
}

// Connect builds a client and pings it. The client is closed when the ping fails.
func Connect(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := NewRedisClient(cfg)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// Close closes client when non-nil.
func Close(client *redis.Client) error {
	if client == nil {
		return nil
	}
	return client.Close()
}
