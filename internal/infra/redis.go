package infra

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"stajdefteri/internal/config"
	"stajdefteri/pkg/logger"
)

// OpenRedis returns nil when REDIS_ADDR is empty; callers fall back to the
// in-process store.
func OpenRedis(cfg *config.Config, log *logger.Logger) (*goredis.Client, error) {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, working copies stay in process memory")
		return nil, nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.RedisAddr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Info("redis connected", "addr", cfg.RedisAddr)
	return rdb, nil
}
