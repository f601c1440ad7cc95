package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/studentflow/studentflow-backend/internal/config"
)

// NewRedisClient connects the Redis instance that holds the student blob and
// settings under redisKeyPrefix.
func NewRedisClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.MaxDBConns > 0 {
		opt.PoolSize = int(cfg.MaxDBConns)
	}

	rdb := redis.NewClient(opt)

	ping := func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	if err := pingWithRetry(ctx, log, "redis", ping); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	log.Info().
		Str("storage", config.StorageRedis).
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Str("key_prefix", redisKeyPrefix).
		Msg("Student store connected to Redis")

	return rdb, nil
}
