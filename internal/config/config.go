package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Telegram struct {
		Token  string
		ChatID int64
	}
	Server struct {
		Port string
	}
	Storage struct {
		Driver string // sqlite, file или memory
		Path   string // файл SQLite
		Dir    string // каталог для file
		Key    string
	}
	Journey struct {
		TargetDate time.Time
		TotalDays  int
		Location   *time.Location
	}
	Log struct {
		Dir   string
		Level string
	}
}

// BotEnabled бот запускается только при заданных токене и чате
func (c *Config) BotEnabled() bool {
	return c.Telegram.Token != "" && c.Telegram.ChatID != 0
}

var defaults = map[string]any{
	"PORT":        "8080",
	"STORAGE":     "sqlite",
	"DB_PATH":     "data/journey.db",
	"DATA_DIR":    "data",
	"STORAGE_KEY": "1796-days-data",
	"TZ_NAME":     "Local",
	"TARGET_DATE": "2031-01-01",
	"TOTAL_DAYS":  1796,
	"LOG_DIR":     "",
	"LOG_LEVEL":   "info",
}

// Load читает конфигурацию из переменных окружения и необязательного .env в текущем каталоге
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom как Load, но ищет .env в каталоге path
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		// .env не обязателен, значения берутся из окружения
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read .env: %w", err)
		}
	}

	cfg := &Config{}
	cfg.Telegram.Token = v.GetString("TG_TOKEN")
	if chatID := v.GetString("TG_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TG_CHAT_ID %q: %w", chatID, err)
		}
		cfg.Telegram.ChatID = id
	}

	cfg.Server.Port = v.GetString("PORT")

	cfg.Storage.Driver = v.GetString("STORAGE")
	switch cfg.Storage.Driver {
	case "sqlite", "file", "memory":
	default:
		return nil, fmt.Errorf("invalid STORAGE %q, want sqlite, file or memory", cfg.Storage.Driver)
	}
	cfg.Storage.Path = v.GetString("DB_PATH")
	cfg.Storage.Dir = v.GetString("DATA_DIR")
	cfg.Storage.Key = v.GetString("STORAGE_KEY")

	loc, err := time.LoadLocation(v.GetString("TZ_NAME"))
	if err != nil {
		return nil, fmt.Errorf("invalid TZ_NAME: %w", err)
	}
	cfg.Journey.Location = loc

	target, err := time.ParseInLocation("2006-01-02", v.GetString("TARGET_DATE"), loc)
	if err != nil {
		return nil, fmt.Errorf("invalid TARGET_DATE: %w", err)
	}
	cfg.Journey.TargetDate = target

	cfg.Journey.TotalDays = v.GetInt("TOTAL_DAYS")
	if cfg.Journey.TotalDays <= 0 {
		return nil, fmt.Errorf("invalid TOTAL_DAYS %d", cfg.Journey.TotalDays)
	}

	cfg.Log.Dir = v.GetString("LOG_DIR")
	cfg.Log.Level = v.GetString("LOG_LEVEL")

	return cfg, nil
}
