package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gstledger/internal/logger"
)

// Store drivers
const (
	StoreFile  = "file"
	StoreRedis = "redis"
)

type Config struct {
	// Snapshot Store Configuration
	StoreDriver    string
	SnapshotFile   string
	RedisAddress   string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string
	RedisTimeout   time.Duration
	CacheDir       string

	// Legacy Inventory Import
	LegacyXLSX  string
	LegacySheet string

	// HTTP API Configuration
	HTTPAddr string

	// Google Sheets Configuration
	GoogleSheetURL    string
	GoogleSheetPrefix string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		StoreDriver:       getEnv("STORE_DRIVER", StoreFile),
		SnapshotFile:      getEnv("SNAPSHOT_FILE", "data/snapshot.json"),
		RedisAddress:      getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisKeyPrefix:    getEnv("REDIS_KEY_PREFIX", "gstledger:"),
		CacheDir:          getEnv("CACHE_DIR", ".cache/gstledger"),
		LegacyXLSX:        getEnv("LEGACY_XLSX", ""),
		LegacySheet:       getEnv("LEGACY_SHEET", ""),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		GoogleSheetURL:    getEnv("GOOGLE_SHEET_URL", ""),
		GoogleSheetPrefix: getEnv("GOOGLE_SHEET_PREFIX", ""),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:     getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:         getEnv("LOG_OUTPUT", "stderr"),
	}

	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("config validation failed: REDIS_DB must be a number: %w", err)
	}
	config.RedisDB = db

	timeout, err := time.ParseDuration(getEnv("REDIS_TIMEOUT", "3s"))
	if err != nil {
		return nil, fmt.Errorf("config validation failed: REDIS_TIMEOUT must be a duration: %w", err)
	}
	config.RedisTimeout = timeout

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreFile:
		if c.SnapshotFile == "" {
			return fmt.Errorf("SNAPSHOT_FILE is required for the file store")
		}
	case StoreRedis:
		if c.RedisAddress == "" {
			return fmt.Errorf("REDIS_ADDRESS is required for the redis store")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreFile, StoreRedis, c.StoreDriver)
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("REDIS_DB must not be negative")
	}
	if c.LegacySheet != "" && c.GoogleSheetURL == "" {
		return fmt.Errorf("GOOGLE_SHEET_URL is required when LEGACY_SHEET is set")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
