package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Port                 string
	SweepIntervalSeconds int
	IdleTimeoutSeconds   int
	StaticDir            string
	BotToken             string
	TelegramAPIURL       string
	MiniAppURL           string
}

func Default() Config {
	return Config{
		Port:                 "3000",
		SweepIntervalSeconds: 600,
		IdleTimeoutSeconds:   1800,
		StaticDir:            "public",
		TelegramAPIURL:       "https://api.telegram.org",
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("PORT"); raw != "" {
		cfg.Port = raw
	}
	if raw := os.Getenv("SWEEP_INTERVAL_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.SweepIntervalSeconds = value
		}
	}
	if raw := os.Getenv("IDLE_TIMEOUT_SECONDS"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			cfg.IdleTimeoutSeconds = value
		}
	}
	if raw := os.Getenv("STATIC_DIR"); raw != "" {
		cfg.StaticDir = raw
	}
	if raw := os.Getenv("BOT_TOKEN"); raw != "" {
		cfg.BotToken = raw
	}
	if raw := os.Getenv("TELEGRAM_API_URL"); raw != "" {
		cfg.TelegramAPIURL = raw
	}
	if raw := os.Getenv("MINI_APP_URL"); raw != "" {
		cfg.MiniAppURL = raw
	}
	return cfg
}
