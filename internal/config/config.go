package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Supported values for DATABASE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Supported values for ID_STRATEGY.
const (
	IDStrategyTime = "time"
	IDStrategyAuto = "auto"
)

// Config holds all configuration for the application
type Config struct {
	DatabaseDriver string
	DatabaseURL    string
	LogLevel       string
	LogFormat      string
	Port           string
	PrometheusPort string
	UndoWindow     time.Duration
	AssetBaseURL   string
	SeedDefault    bool
	IDStrategy     string
	TelegramToken  string
	TelegramChatID int64
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; variables already set in
// the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		DatabaseDriver: getEnvOrDefault("DATABASE_DRIVER", DriverSQLite),
		DatabaseURL:    getEnvOrDefault("DATABASE_URL", "wishlistDB.db"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:      getEnvOrDefault("LOG_FORMAT", "text"),
		Port:           getEnvOrDefault("PORT", "8080"),
		PrometheusPort: os.Getenv("PROMETHEUS_PORT"),
		AssetBaseURL:   os.Getenv("ASSET_BASE_URL"),
		IDStrategy:     getEnvOrDefault("ID_STRATEGY", IDStrategyTime),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
	}
	if _, set := os.LookupEnv("PROMETHEUS_PORT"); !set {
		cfg.PrometheusPort = "9090"
	}

	switch cfg.DatabaseDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	switch cfg.IDStrategy {
	case IDStrategyTime, IDStrategyAuto:
	default:
		return nil, fmt.Errorf("unsupported ID_STRATEGY %q", cfg.IDStrategy)
	}

	var err error
	if cfg.UndoWindow, err = time.ParseDuration(getEnvOrDefault("UNDO_WINDOW", "4s")); err != nil {
		return nil, fmt.Errorf("invalid UNDO_WINDOW: %w", err)
	}
	if cfg.UndoWindow <= 0 {
		return nil, fmt.Errorf("UNDO_WINDOW must be positive, got %s", cfg.UndoWindow)
	}

	if cfg.SeedDefault, err = strconv.ParseBool(getEnvOrDefault("SEED_DEFAULT", "true")); err != nil {
		return nil, fmt.Errorf("invalid SEED_DEFAULT: %w", err)
	}

	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		if cfg.TelegramChatID, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
	}

	return cfg, nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
