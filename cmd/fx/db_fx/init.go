package db_fx

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"stajdefteri/internal/config"
	"stajdefteri/internal/infra"
	"stajdefteri/internal/repositories"
	"stajdefteri/pkg/logger"
)

var Module = fx.Provide(
	provideDB,
	repositories.NewPlanRepository,
	repositories.NewDayRepository)

func provideDB(lc fx.Lifecycle, cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	db, err := infra.OpenDatabase(cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.CloseDatabase(db, log)
			return nil
		},
	})
	return db, nil
}
