package config

import (
	"os"
	"testing"
	"time"
)

// chdirTemp runs the test from an empty directory so no stray .env is read.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	for _, k := range []string{"DATABASE_DRIVER", "DATABASE_URL", "UNDO_WINDOW", "SEED_DEFAULT", "ID_STRATEGY", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DatabaseDriver != DriverSQLite {
		t.Errorf("DatabaseDriver = %q", cfg.DatabaseDriver)
	}
	if cfg.DatabaseURL != "wishlistDB.db" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.UndoWindow != 4*time.Second {
		t.Errorf("UndoWindow = %s", cfg.UndoWindow)
	}
	if !cfg.SeedDefault {
		t.Error("SeedDefault should default to true")
	}
	if cfg.IDStrategy != IDStrategyTime {
		t.Errorf("IDStrategy = %q", cfg.IDStrategy)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
}

func TestLoadFromDotEnv(t *testing.T) {
	chdirTemp(t)
	os.Unsetenv("UNDO_WINDOW")
	os.Unsetenv("TELEGRAM_CHAT_ID")
	t.Cleanup(func() {
		os.Unsetenv("UNDO_WINDOW")
		os.Unsetenv("TELEGRAM_CHAT_ID")
	})

	env := "UNDO_WINDOW=250ms\nTELEGRAM_CHAT_ID=-1001\n"
	if err := os.WriteFile(".env", []byte(env), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UndoWindow != 250*time.Millisecond {
		t.Errorf("UndoWindow = %s", cfg.UndoWindow)
	}
	if cfg.TelegramChatID != -1001 {
		t.Errorf("TelegramChatID = %d", cfg.TelegramChatID)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"DATABASE_DRIVER", "mysql"},
		{"ID_STRATEGY", "random"},
		{"UNDO_WINDOW", "soon"},
		{"UNDO_WINDOW", "-1s"},
		{"SEED_DEFAULT", "maybe"},
		{"TELEGRAM_CHAT_ID", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			chdirTemp(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() accepted %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestPrometheusPortCanBeDisabled(t *testing.T) {
	chdirTemp(t)
	t.Setenv("PROMETHEUS_PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PrometheusPort != "" {
		t.Errorf("PrometheusPort = %q, want empty", cfg.PrometheusPort)
	}
}
