package redis

import (
	"context"
	"fmt"

	"PartyHub/utils/logger"
)

// InitRedis connects to Redis and checks the connection is alive
func InitRedis(ctx context.Context, url string) (*RedisClient, error) {
	rc, err := NewRedisClient(url)
	if err != nil {
		return nil, err
	}

	if err := rc.client.Ping(ctx).Err(); err != nil {
		_ = rc.client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Infof("Successfully connected to Redis at %s", rc.client.Options().Addr)
	return rc, nil
}

// CloseRedis gracefully closes the Redis connection
func CloseRedis(rc *RedisClient) error {
	if rc == nil {
		return nil
	}
	if err := rc.client.Close(); err != nil {
		return fmt.Errorf("error closing Redis connection: %w", err)
	}
	return nil
}
