package config

import (
	"context"

	"PartyHub/services/redis"
	"PartyHub/utils/logger"
)

// ConnectRedis connects to REDIS_URL. It returns nil, nil when no URL is
// configured so callers can fall back to the in-process session store.
func ConnectRedis(ctx context.Context, cfg *Config) (*redis.RedisClient, error) {
	if cfg.RedisURL == "" {
		logger.Infof("[INFO] REDIS_URL not set, game sessions stay in process")
		return nil, nil
	}
	redisClient, err := redis.InitRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	logger.Infof("Redis connection established")
	return redisClient, nil
}
