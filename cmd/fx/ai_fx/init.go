package ai_fx

import (
	"context"

	"go.uber.org/fx"

	"stajdefteri/internal/config"
	"stajdefteri/pkg/logger"
	"stajdefteri/pkg/utils"
)

var Module = fx.Provide(provideGenerativeClient)

// provideGenerativeClient creates the model client selected by AI_PROVIDER.
func provideGenerativeClient(lc fx.Lifecycle, cfg *config.Config, log *logger.Logger) (utils.GenerativeClientInterface, error) {
	apiKey, model := cfg.GeminiAPIKey, cfg.GeminiModel
	if cfg.AIProvider == "openai" {
		apiKey, model = cfg.OpenAIAPIKey, cfg.OpenAIModel
	}

	log.Info("Initializing generative client", "provider", cfg.AIProvider, "model", model)
	client, err := utils.NewGenerativeClient(context.Background(), cfg.AIProvider, apiKey, model)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}
