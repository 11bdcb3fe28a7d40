package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"stajdefteri/cmd/fx/ai_fx"
	"stajdefteri/cmd/fx/cache_fx"
	"stajdefteri/cmd/fx/config_fx"
	"stajdefteri/cmd/fx/controllers_fx"
	"stajdefteri/cmd/fx/db_fx"
	"stajdefteri/cmd/fx/export_fx"
	"stajdefteri/cmd/fx/image_fx"
	"stajdefteri/cmd/fx/journal_fx"
	"stajdefteri/cmd/fx/observability_fx"
	"stajdefteri/internal/api/controllers"
	"stajdefteri/internal/config"
	"stajdefteri/internal/infra"
	"stajdefteri/pkg/logger"
	"stajdefteri/pkg/middleware"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(log *logger.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Zap()}
		}),
		config_fx.Module,
		observability_fx.Module,
		db_fx.Module,
		cache_fx.Module,
		ai_fx.Module,
		journal_fx.Module,
		image_fx.Module,
		export_fx.Module,
		controllers_fx.Module,

		fx.Invoke(StartServer),
		fx.Provide(ProvideRouter),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config, log *logger.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("Starting HTTP server", "port", cfg.Port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("Failed to start server", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping HTTP server")
			defer log.Sync()
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg *config.Config,
	journalController *controllers.JournalController,
	imageController *controllers.ImageController,
	exportController *controllers.ExportController,
	searchProxyController *controllers.SearchProxyController,
	healthController *controllers.HealthController) *gin.Engine {

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(infra.ServiceName))
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())
	r.MaxMultipartMemory = 12 << 20

	RegisterRoutes(r, cfg, journalController, imageController, exportController, searchProxyController, healthController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	cfg *config.Config,
	journalController *controllers.JournalController,
	imageController *controllers.ImageController,
	exportController *controllers.ExportController,
	searchProxyController *controllers.SearchProxyController,
	healthController *controllers.HealthController) {

	r.GET("/healthz", healthController.Healthz)

	api := r.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	api.GET("/search-images", searchProxyController.SearchImages)

	journalGroup := api.Group("/journal")
	journalGroup.GET("", journalController.GetJournal)
	journalGroup.DELETE("", journalController.ResetJournal)
	journalGroup.POST("/plan", journalController.CreatePlan)
	journalGroup.PUT("/profile", journalController.UpdateProfile)
	journalGroup.GET("/export", exportController.ExportJournal)

	dayGroup := journalGroup.Group("/days/:day")
	dayGroup.DELETE("", journalController.DeleteDay)
	dayGroup.POST("/generate", journalController.GenerateDay)
	dayGroup.PUT("/plan", journalController.EditPlan)
	dayGroup.PUT("/content", journalController.EditContent)
	dayGroup.POST("/save", journalController.SaveDay)
	dayGroup.GET("/curriculum", journalController.GetCurriculum)

	imagesGroup := dayGroup.Group("/images")
	imagesGroup.DELETE("", imageController.ClearImage)
	imagesGroup.POST("/search", imageController.SearchImages)
	imagesGroup.POST("/pick", imageController.PickImage)
	imagesGroup.POST("/auto", imageController.AutoImage)
	imagesGroup.POST("/analyze", imageController.AnalyzeImage)
	imagesGroup.POST("/accept", imageController.AcceptAnalysis)
}
