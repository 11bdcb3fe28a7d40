package config_fx

import (
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"stajdefteri/internal/config"
	"stajdefteri/pkg/logger"
)

var Module = fx.Provide(
	provideLogger,
	provideConfig)

func provideLogger() (*logger.Logger, error) {
	log, err := logger.New(os.Getenv("APP_ENV"))
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log.Zap())
	return log, nil
}

func provideConfig(log *logger.Logger) (*config.Config, error) {
	return config.Load(log)
}
