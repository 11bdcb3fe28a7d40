package cache_fx

import (
	"context"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"stajdefteri/internal/config"
	"stajdefteri/internal/infra"
	"stajdefteri/internal/services"
	"stajdefteri/pkg/logger"
)

var Module = fx.Provide(
	provideRedis,
	provideWorkspaceStore)

func provideRedis(lc fx.Lifecycle, cfg *config.Config, log *logger.Logger) (*goredis.Client, error) {
	rdb, err := infra.OpenRedis(cfg, log)
	if err != nil || rdb == nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return rdb.Close()
		},
	})
	return rdb, nil
}

// provideWorkspaceStore keeps working copies and the per-student lock in Redis
// when it is configured, so several instances can serve the same student.
func provideWorkspaceStore(rdb *goredis.Client, cfg *config.Config) services.WorkspaceStore {
	if rdb == nil {
		return services.NewMemoryWorkspaceStore(cfg.WorkspaceTTL)
	}
	return services.NewRedisWorkspaceStore(rdb, cfg.WorkspaceTTL)
}
