package observability_fx

import (
	"context"

	"go.uber.org/fx"

	"stajdefteri/internal/config"
	"stajdefteri/internal/infra"
	"stajdefteri/pkg/logger"
)

var Module = fx.Invoke(registerTracing)

func registerTracing(lc fx.Lifecycle, cfg *config.Config, log *logger.Logger) {
	shutdown := infra.InitTracing(context.Background(), cfg, log)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return shutdown(ctx)
		},
	})
}
