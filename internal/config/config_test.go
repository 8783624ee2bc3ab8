package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv сбрасывает переменные, которые могут прийти из окружения разработчика
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TG_TOKEN", "TG_CHAT_ID", "PORT", "STORAGE", "DB_PATH", "DATA_DIR",
		"STORAGE_KEY", "TZ_NAME", "TARGET_DATE", "TOTAL_DAYS", "LOG_DIR", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TZ_NAME", "UTC")

	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.Key != "1796-days-data" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Journey.TotalDays != 1796 {
		t.Errorf("TotalDays = %d, want 1796", cfg.Journey.TotalDays)
	}
	if want := time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC); !cfg.Journey.TargetDate.Equal(want) {
		t.Errorf("TargetDate = %v, want %v", cfg.Journey.TargetDate, want)
	}
	if cfg.BotEnabled() {
		t.Error("BotEnabled() = true without token")
	}
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	env := "PORT=9090\nSTORAGE=file\nTG_TOKEN=abc\nTG_CHAT_ID=42\nTZ_NAME=Europe/Moscow\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "7070")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Errorf("Port = %q, environment must win over .env", cfg.Server.Port)
	}
	if cfg.Storage.Driver != "file" {
		t.Errorf("Driver = %q, want file", cfg.Storage.Driver)
	}
	if !cfg.BotEnabled() || cfg.Telegram.ChatID != 42 {
		t.Errorf("Telegram = %+v", cfg.Telegram)
	}
	if cfg.Journey.Location.String() != "Europe/Moscow" {
		t.Errorf("Location = %s", cfg.Journey.Location)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name, key, value string
	}{
		{"storage driver", "STORAGE", "postgres"},
		{"chat id", "TG_CHAT_ID", "me"},
		{"time zone", "TZ_NAME", "Mars/Olympus"},
		{"target date", "TARGET_DATE", "01.01.2031"},
		{"total days", "TOTAL_DAYS", "-3"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("TZ_NAME", "UTC")
			t.Setenv(tc.key, tc.value)
			if _, err := LoadFrom(t.TempDir()); err == nil {
				t.Errorf("LoadFrom() with %s=%q error = nil", tc.key, tc.value)
			}
		})
	}
}

func TestInitLoggerRejectsUnknownLevel(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	if err := InitLogger("", "loud"); err == nil {
		t.Error("InitLogger(loud) error = nil")
	}
	if err := InitLogger(t.TempDir(), "debug"); err != nil {
		t.Errorf("InitLogger(debug) error = %v", err)
	}
}
