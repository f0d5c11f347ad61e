package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Port != "3000" {
		t.Fatalf("expected default port 3000, got %q", cfg.Port)
	}
	if cfg.SweepIntervalSeconds != 600 || cfg.IdleTimeoutSeconds != 1800 {
		t.Fatalf("unexpected sweep defaults %+v", cfg)
	}
	if cfg.StaticDir != "public" {
		t.Fatalf("expected public static dir, got %q", cfg.StaticDir)
	}
	if cfg.TelegramAPIURL != "https://api.telegram.org" {
		t.Fatalf("unexpected telegram api url %q", cfg.TelegramAPIURL)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("IDLE_TIMEOUT_SECONDS", "120")
	t.Setenv("SWEEP_INTERVAL_SECONDS", "not-a-number")
	t.Setenv("BOT_TOKEN", "token123")
	t.Setenv("MINI_APP_URL", "https://game.example/app")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected port override, got %q", cfg.Port)
	}
	if cfg.IdleTimeoutSeconds != 120 {
		t.Fatalf("expected idle timeout override, got %d", cfg.IdleTimeoutSeconds)
	}
	if cfg.SweepIntervalSeconds != 600 {
		t.Fatalf("expected invalid interval to keep the default, got %d", cfg.SweepIntervalSeconds)
	}
	if cfg.BotToken != "token123" || cfg.MiniAppURL != "https://game.example/app" {
		t.Fatalf("unexpected bot config %+v", cfg)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
}

func TestLoadDotEnvReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("STATIC_DIR=assets\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("STATIC_DIR", "")
	os.Unsetenv("STATIC_DIR")
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load dotenv: %v", err)
	}
	if got := os.Getenv("STATIC_DIR"); got != "assets" {
		t.Fatalf("expected STATIC_DIR from file, got %q", got)
	}
}
