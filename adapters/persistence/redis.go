package persistence

import (
	"context"
	"fmt"

	"github.com/khoahotran/devconnect/internal/config"
	"github.com/khoahotran/devconnect/pkg/logger"
	"github.com/redis/go-redis/v9"
)

func NewRedisClient(ctx context.Context, cfg config.Config, log logger.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("can not connect Redis: %w", err)
	}

	log.Info("Connect Redis successfully.")
	return rdb, nil
}
