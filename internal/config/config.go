package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port string
	Env  string // "development", "production"

	// Database
	DatabaseURL string

	// Storage backend: "postgres" or "memory"
	StorageBackend string

	// Path to a legacy JSON export to migrate when the store is empty
	LegacyDataFile string

	// CORS
	AllowedOrigins []string

	// Recurrence rollover job
	RolloverEnabled  bool
	RolloverSchedule string        // Cron expression (e.g., "0 3 * * *" for 3am daily)
	RolloverTimeout  time.Duration // Timeout for a complete rollover run
}

func Load() *Config {
	env := getEnv("ENV", "development")

	return &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  env,

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/grana?sslmode=disable"),

		StorageBackend: getEnv("STORAGE_BACKEND", "postgres"),
		LegacyDataFile: os.Getenv("LEGACY_DATA_FILE"),

		// CORS
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),

		// Recurrence rollover job
		RolloverEnabled:  getBoolEnv("ROLLOVER_ENABLED", true),
		RolloverSchedule: getEnv("ROLLOVER_SCHEDULE", "0 3 * * *"), // Default: daily at 3am
		RolloverTimeout:  getDurationEnv("ROLLOVER_TIMEOUT", time.Minute),
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
