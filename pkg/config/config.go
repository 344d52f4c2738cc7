// Package config loads Shiftward configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv       string
	LogLevel     string
	DepartmentID string

	// Database
	DatabaseURL string
	SQLitePath  string

	// Redis snapshot cache
	RedisURL string

	// RabbitMQ
	RabbitMQURL      string
	PublisherEnabled bool

	// Planning
	SnapshotTTL          time.Duration
	WeeklyCapMax         int
	ScarcityThreshold    int
	SkipManualOnlyTasks  bool
	AllowSingleRelief    bool
	ReliefMaxPerSchedule int
}

// Load loads configuration from environment variables, reading a .env file
// first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:       getEnv("APP_ENV", "development"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DepartmentID: getEnv("SHIFTWARD_DEPARTMENT_ID", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SQLitePath:  getEnv("SHIFTWARD_SQLITE_PATH", ""),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		PublisherEnabled: getBoolEnv("SHIFTWARD_PUBLISHER_ENABLED", false),

		SnapshotTTL:          getDurationEnv("SHIFTWARD_SNAPSHOT_TTL", 5*time.Minute),
		WeeklyCapMax:         getIntEnv("SHIFTWARD_WEEKLY_CAP_MAX", 3),
		ScarcityThreshold:    getIntEnv("SHIFTWARD_SCARCITY_THRESHOLD", 3),
		SkipManualOnlyTasks:  getBoolEnv("SHIFTWARD_SKIP_MANUAL_TASKS", true),
		AllowSingleRelief:    getBoolEnv("SHIFTWARD_ALLOW_RELIEF", false),
		ReliefMaxPerSchedule: getIntEnv("SHIFTWARD_RELIEF_MAX", 1),
	}

	return cfg, nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
