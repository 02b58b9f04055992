package bootstrap

import (
	"context"
	"fmt"

	"docchat-client/internal/config"
	"docchat-client/internal/pkg/logger"
	"docchat-client/internal/repository/contract"
	"docchat-client/internal/repository/implementation"
	"docchat-client/internal/repository/memory"
	"docchat-client/pkg/database"

	"github.com/redis/go-redis/v9"
)

// NewStateRepository picks the StateRepository named by cfg.Kind. The
// returned close function releases the underlying connection.
func NewStateRepository(ctx context.Context, cfg config.StateConfig, log logger.ILogger) (contract.StateRepository, func(), error) {
	noop := func() {}

	switch cfg.Kind {
	case "memory":
		return memory.NewStateRepository(), noop, nil

	case "file", "":
		return implementation.NewFileStateRepository(cfg.FilePath), noop, nil

	case "redis":
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Warn("Bootstrap", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err})
			opt = &redis.Options{Addr: cfg.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, noop, fmt.Errorf("connect to redis: %w", err)
		}
		return implementation.NewRedisStateRepository(rdb, cfg.Key), func() { rdb.Close() }, nil

	case "postgres":
		db, err := database.NewGormDBFromDSN(cfg.DSN)
		if err != nil {
			return nil, noop, fmt.Errorf("connect to postgres: %w", err)
		}
		closeDB := func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}
		return implementation.NewPostgresStateRepository(db, cfg.Key), closeDB, nil

	default:
		return nil, noop, fmt.Errorf("unknown STATE_STORE %q", cfg.Kind)
	}
}
