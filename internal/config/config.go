// Package config loads process settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/studyplan/internal/validation"
)

// Store backends
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

type Config struct {
	Store     StoreConfig
	Redis     RedisConfig
	Bot       BotConfig
	Scheduler SchedulerConfig
	LogMode   string
	Location  *time.Location
}

type StoreConfig struct {
	Backend     string
	SQLitePath  string
	DatabaseURL string
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type BotConfig struct {
	Token string
}

type SchedulerConfig struct {
	Enabled          bool
	NotificationHour int
}

// Load reads the configuration. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	backend := strings.ToLower(getEnv("STORE_BACKEND", BackendSQLite))
	switch backend {
	case BackendSQLite, BackendPostgres, BackendRedis, BackendMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", backend)
	}

	cfg := &Config{
		Store: StoreConfig{
			Backend:     backend,
			SQLitePath:  getEnv("SQLITE_PATH", "data/studyplan.db"),
			DatabaseURL: getEnv("DATABASE_URL", ""),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "localhost:6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getInt("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_PREFIX", "studyplan:"),
		},
		Bot: BotConfig{
			Token: getEnv("TELEGRAM_BOT_TOKEN", ""),
		},
		Scheduler: SchedulerConfig{
			Enabled:          getEnv("ENABLE_SCHEDULER", "true") != "false",
			NotificationHour: getInt("NOTIFICATION_HOUR", 9),
		},
		LogMode: getEnv("LOG_MODE", "development"),
	}

	if backend == BackendPostgres && cfg.Store.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for the postgres backend")
	}
	if err := validation.ValidateIntRange(cfg.Scheduler.NotificationHour, 0, 23); err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_HOUR: %w", err)
	}

	loc, err := time.LoadLocation(getEnv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return defaultValue
	}
	return i
}
