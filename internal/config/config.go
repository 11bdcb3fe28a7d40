package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"stajdefteri/internal/planner"
	"stajdefteri/pkg/logger"
	"stajdefteri/pkg/utils"
)

type Config struct {
	Port   string `validate:"required,numeric"`
	AppEnv string `validate:"oneof=dev development prod production test"`

	DBDriver    string `validate:"oneof=postgres sqlite"`
	PostgresURL string `validate:"required_if=DBDriver postgres"`
	SQLitePath  string `validate:"required_if=DBDriver sqlite"`

	RedisAddr    string
	WorkspaceTTL time.Duration `validate:"gt=0"`

	AIProvider   string `validate:"oneof=gemini openai"`
	GeminiAPIKey string `validate:"required_if=AIProvider gemini"`
	GeminiModel  string
	OpenAIAPIKey string `validate:"required_if=AIProvider openai"`
	OpenAIModel  string

	SearchAPIKey   string
	SearchEngineID string
	SerpAPIKey     string
	SerpAPIBaseURL string `validate:"omitempty,url"`
	ImageProxyURL  string `validate:"omitempty,url"`
	GCSBucket      string

	JWTSecret string `validate:"required,min=16"`

	Plan          PlanSettings
	ContextWindow int `validate:"min=1,max=30"`

	OtelExporter string `validate:"oneof=none stdout otlp"`
	OtelEndpoint string
}

type PlanSettings struct {
	StartDate      string `validate:"required"`
	EndDate        string `validate:"required"`
	TotalDays      int    `validate:"min=1"`
	ProductionDays int    `validate:"min=0"`
	ManagementDays int    `validate:"min=0"`
	VisualDays     int    `validate:"min=0"`
	Holidays       []string
}

var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads .env when present, then the process environment.
func Load(log *logger.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil && log != nil {
		log.Debug("no .env file loaded", "error", err)
	}

	cfg := &Config{
		Port:   utils.GetEnv("PORT", "8080", log),
		AppEnv: utils.GetEnv("APP_ENV", "dev", log),

		DBDriver:    utils.GetEnv("DB_DRIVER", "sqlite", log),
		PostgresURL: utils.GetEnv("POSTGRES_URL", "", log),
		SQLitePath:  utils.GetEnv("SQLITE_PATH", "stajdefteri.db", log),

		RedisAddr:    utils.GetEnv("REDIS_ADDR", "", log),
		WorkspaceTTL: utils.GetEnvAsDuration("WORKSPACE_TTL", 24*time.Hour, log),

		AIProvider:   utils.GetEnv("AI_PROVIDER", "gemini", log),
		GeminiAPIKey: utils.GetEnv("GEMINI_API_KEY", "", log),
		GeminiModel:  utils.GetEnv("GEMINI_MODEL", "gemini-2.0-flash", log),
		OpenAIAPIKey: utils.GetEnv("OPENAI_API_KEY", "", log),
		OpenAIModel:  utils.GetEnv("OPENAI_MODEL", "gpt-4o-mini", log),

		SearchAPIKey:   utils.GetEnv("SEARCH_API_KEY", "", log),
		SearchEngineID: utils.GetEnv("SEARCH_ENGINE_ID", "", log),
		SerpAPIKey:     utils.GetEnv("SERPAPI_KEY", "", log),
		SerpAPIBaseURL: utils.GetEnv("SERPAPI_BASE_URL", "https://serpapi.com/search.json", log),
		ImageProxyURL:  utils.GetEnv("IMAGE_PROXY_URL", "", log),
		GCSBucket:      utils.GetEnv("GCS_BUCKET", "", log),

		JWTSecret: utils.GetEnv("JWT_SECRET", "", log),

		Plan: PlanSettings{
			StartDate:      utils.GetEnv("PLAN_START_DATE", "2025-09-01", log),
			EndDate:        utils.GetEnv("PLAN_END_DATE", "2025-10-10", log),
			TotalDays:      utils.GetEnvAsInt("PLAN_TOTAL_DAYS", 30, log),
			ProductionDays: utils.GetEnvAsInt("PLAN_PRODUCTION_DAYS", 20, log),
			ManagementDays: utils.GetEnvAsInt("PLAN_MANAGEMENT_DAYS", 10, log),
			VisualDays:     utils.GetEnvAsInt("PLAN_VISUAL_DAYS", 7, log),
			Holidays:       utils.GetEnvAsList("PLAN_HOLIDAYS", []string{"29.10.2025"}, log),
		},
		ContextWindow: utils.GetEnvAsInt("CONTEXT_WINDOW", 5, log),

		OtelExporter: utils.GetEnv("OTEL_EXPORTER", "none", log),
		OtelEndpoint: utils.GetEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := c.PlannerConfig(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// PlannerConfig converts the plan settings into the generator's input.
func (c *Config) PlannerConfig() (planner.Config, error) {
	start, err := utils.ParseDate(c.Plan.StartDate)
	if err != nil {
		return planner.Config{}, fmt.Errorf("PLAN_START_DATE: %w", err)
	}
	end, err := utils.ParseDate(c.Plan.EndDate)
	if err != nil {
		return planner.Config{}, fmt.Errorf("PLAN_END_DATE: %w", err)
	}
	holidays := make([]time.Time, 0, len(c.Plan.Holidays))
	for _, h := range c.Plan.Holidays {
		d, err := utils.ParseDate(h)
		if err != nil {
			return planner.Config{}, fmt.Errorf("PLAN_HOLIDAYS: %w", err)
		}
		holidays = append(holidays, d)
	}
	pc := planner.Config{
		Start:          start,
		End:            end,
		TotalDays:      c.Plan.TotalDays,
		ProductionDays: c.Plan.ProductionDays,
		ManagementDays: c.Plan.ManagementDays,
		VisualDays:     c.Plan.VisualDays,
		Holidays:       holidays,
	}
	return pc, pc.Validate()
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production"
}
