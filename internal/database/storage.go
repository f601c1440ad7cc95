package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/studentflow/studentflow-backend/internal/config"
	"github.com/studentflow/studentflow-backend/internal/repository"
)

// redisKeyPrefix namespaces every key this service writes to Redis.
const redisKeyPrefix = "studentflow:"

// Storage is the opened blob store plus the function that releases it.
type Storage struct {
	Store  repository.BlobStore
	Driver string
	Close  func()
}

// OpenStorage connects the backend selected by STORAGE_DRIVER.
func OpenStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Storage, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Warn().Msg("Using in-memory storage, data is lost on restart")
		return &Storage{Store: repository.NewMemoryStore(), Driver: cfg.StorageDriver, Close: func() {}}, nil

	case config.StorageRedis:
		rdb, err := NewRedisClient(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Storage{
			Store:  repository.NewRedisStore(rdb, redisKeyPrefix),
			Driver: cfg.StorageDriver,
			Close:  func() { _ = rdb.Close() },
		}, nil

	case config.StoragePostgres:
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Storage{
			Store:  repository.NewPostgresStore(pool),
			Driver: cfg.StorageDriver,
			Close:  pool.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
