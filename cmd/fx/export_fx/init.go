package export_fx

import (
	"go.uber.org/fx"

	"stajdefteri/internal/export"
	"stajdefteri/internal/services"
	"stajdefteri/pkg/logger"
)

var Module = fx.Provide(
	provideCompiler,
	services.NewExportService)

func provideCompiler(fetcher *export.Fetcher, log *logger.Logger) *export.Compiler {
	return export.NewCompiler(fetcher, log)
}
