package config

import (
	"testing"
	"time"

	"github.com/goalcast/goalcast/internal/platform/logging"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("expected dev env, got %q", cfg.AppEnv)
	}
	if cfg.ServiceName != "goalcast-api" {
		t.Fatalf("unexpected service name: %q", cfg.ServiceName)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected http addr: %q", cfg.HTTPAddr)
	}
	if !cfg.UseMemoryRepositories() {
		t.Fatal("expected memory repositories with empty DB_URL")
	}
	if !cfg.SwaggerEnabled {
		t.Fatal("expected swagger enabled in dev")
	}
	if cfg.SportsDBMaxAttempts != 3 {
		t.Fatalf("unexpected provider attempts: %d", cfg.SportsDBMaxAttempts)
	}
	if cfg.SportsDBRequestSpacing != 2100*time.Millisecond {
		t.Fatalf("unexpected request spacing: %s", cfg.SportsDBRequestSpacing)
	}
	if cfg.AchievementCacheTTL != 30*time.Minute {
		t.Fatalf("unexpected achievement cache ttl: %s", cfg.AchievementCacheTTL)
	}
	if cfg.ResultsMaxAPICalls != 10 {
		t.Fatalf("unexpected max api calls: %d", cfg.ResultsMaxAPICalls)
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected log level: %v", cfg.LogLevel)
	}
}

func TestLoad_ProdRequiresJobToken(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("INTERNAL_JOB_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing INTERNAL_JOB_TOKEN in prod")
	}

	t.Setenv("INTERNAL_JOB_TOKEN", "job-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SwaggerEnabled {
		t.Fatal("expected swagger disabled in prod by default")
	}
	if cfg.InternalJobToken != "job-secret" {
		t.Fatalf("unexpected job token: %q", cfg.InternalJobToken)
	}
}

func TestLoad_InvalidAppEnv(t *testing.T) {
	t.Setenv("APP_ENV", "staging-2")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid APP_ENV")
	}
}

func TestLoad_WebhookRequiresBaseURL(t *testing.T) {
	t.Setenv("WEBHOOK_ENABLED", "true")
	t.Setenv("WEBHOOK_BASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing WEBHOOK_BASE_URL")
	}

	t.Setenv("WEBHOOK_BASE_URL", "https://hooks.goalcast.app")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WebhookBaseURL != "https://hooks.goalcast.app" {
		t.Fatalf("unexpected webhook base url: %q", cfg.WebhookBaseURL)
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `uptrace-dsn="https://token@api.uptrace.dev/42"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/42" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" https://goalcast.app , ,https://goalcast-web.vercel.app")
	if len(got) != 2 {
		t.Fatalf("expected 2 origins, got %v", got)
	}
	if got[0] != "https://goalcast.app" || got[1] != "https://goalcast-web.vercel.app" {
		t.Fatalf("unexpected origins: %v", got)
	}
}
