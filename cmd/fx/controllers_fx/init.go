package controllers_fx

import (
	"go.uber.org/fx"

	"stajdefteri/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewJournalController),
	fx.Provide(controllers.NewImageController),
	fx.Provide(controllers.NewExportController),
	fx.Provide(controllers.NewSearchProxyController),
	fx.Provide(controllers.NewHealthController))
