package redis

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	redis_utils "PartyHub/services/redis/utils"
)

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient builds a client from a redis:// or rediss:// URL. A bare
// host:port is accepted for local development.
func NewRedisClient(url string) (*RedisClient, error) {
	if !strings.Contains(url, "://") {
		return &RedisClient{client: redis.NewClient(&redis.Options{Addr: url})}, nil
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("error parsing Redis URL: %w", err)
	}
	return &RedisClient{client: redis.NewClient(opt)}, nil
}

// NewFromClient wraps an existing go-redis client.
func NewFromClient(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(ctx context.Context, keys []string) error {
	for _, key := range keys {
		if err := rc.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %w", key, err)
		}
	}
	return nil
}

// CountGameSessions returns how many sessions are live. It walks the keyspace
// with SCAN so it is meant for health checks, not hot paths.
func (rc *RedisClient) CountGameSessions(ctx context.Context) (int, error) {
	n := 0
	iter := rc.client.Scan(ctx, 0, redis_utils.FormatGameSessionPattern(), 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("error scanning game sessions: %w", err)
	}
	return n, nil
}

// Ping reports whether Redis answers.
func (rc *RedisClient) Ping(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}
