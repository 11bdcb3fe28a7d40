package config

import (
	"errors"
	"testing"

	"stajdefteri/pkg/logger"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("APP_ENV", "test")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load(logger.Nop())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port: want=%q got=%q", "8080", cfg.Port)
	}
	if cfg.ContextWindow != 5 {
		t.Fatalf("ContextWindow: want=5 got=%d", cfg.ContextWindow)
	}

	pc, err := cfg.PlannerConfig()
	if err != nil {
		t.Fatalf("PlannerConfig: %v", err)
	}
	if pc.TotalDays != 30 || pc.ProductionDays != 20 || pc.ManagementDays != 10 || pc.VisualDays != 7 {
		t.Fatalf("plan shape: got=%+v", pc)
	}
	if len(pc.Holidays) != 1 {
		t.Fatalf("holidays: want=1 got=%d", len(pc.Holidays))
	}
}

func TestLoadRejectsRatioMismatch(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PLAN_MANAGEMENT_DAYS", "9")

	_, err := Load(logger.Nop())
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Load: want ErrInvalidConfig got=%v", err)
	}
}

func TestLoadRequiresProviderKey(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := Load(logger.Nop()); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Load: want ErrInvalidConfig got=%v", err)
	}
}

func TestLoadRejectsBadHoliday(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PLAN_HOLIDAYS", "29.10.2025, yarın")

	if _, err := Load(logger.Nop()); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Load: want ErrInvalidConfig got=%v", err)
	}
}
