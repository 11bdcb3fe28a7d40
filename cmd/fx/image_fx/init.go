package image_fx

import (
	"context"

	"go.uber.org/fx"

	"stajdefteri/internal/config"
	"stajdefteri/internal/export"
	"stajdefteri/internal/infra"
	"stajdefteri/internal/services"
	"stajdefteri/pkg/logger"
	"stajdefteri/pkg/utils"
)

var Module = fx.Provide(
	provideSearchers,
	provideStorage,
	provideFetcher,
	services.NewQueryGenerator,
	provideImageService,
	provideSearchProxyService)

// provideSearchers wires Custom Search for the picker and SerpAPI for the
// automatic path. Each one falls back to the other when only one is set.
func provideSearchers(cfg *config.Config, log *logger.Logger) (services.ImageSearchers, error) {
	var out services.ImageSearchers
	if cfg.SearchAPIKey != "" && cfg.SearchEngineID != "" {
		cse, err := services.NewGoogleCSESearcher(context.Background(), cfg.SearchAPIKey, cfg.SearchEngineID)
		if err != nil {
			return out, err
		}
		out.Stock = cse
	}
	if cfg.SerpAPIKey != "" {
		out.Auto = services.NewSerpAPISearcher(cfg.SerpAPIBaseURL, cfg.SerpAPIKey)
	}
	if out.Stock == nil && out.Auto != nil {
		out.Stock = out.Auto
	}
	if out.Stock == nil {
		log.Warn("no image search provider configured, search returns no results")
	}
	return out, nil
}

func provideStorage(lc fx.Lifecycle, cfg *config.Config, log *logger.Logger) (infra.ImageStorage, error) {
	storage, err := infra.NewImageStorage(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return storage.Close()
		},
	})
	return storage, nil
}

func provideFetcher(cfg *config.Config, log *logger.Logger) *export.Fetcher {
	return export.NewFetcher(cfg.ImageProxyURL, log)
}

func provideImageService(
	workspace *services.Workspace,
	searchers services.ImageSearchers,
	queries *services.QueryGenerator,
	ai utils.GenerativeClientInterface,
	fetcher *export.Fetcher,
	storage infra.ImageStorage,
	log *logger.Logger,
) services.ImageServiceInterface {
	return services.NewImageService(workspace, searchers, queries, ai, fetcher, storage, log)
}

func provideSearchProxyService(cfg *config.Config, log *logger.Logger) services.SearchProxyServiceInterface {
	return services.NewSearchProxyService(cfg.SerpAPIBaseURL, cfg.SerpAPIKey, log)
}
