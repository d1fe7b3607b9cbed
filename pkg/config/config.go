// ABOUTME: Configuration management for the scraper with environment variable support
// ABOUTME: Defines configuration structures for the site, sinks and logging

package config

import (
	"errors"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Scraper contains target-site configuration
	Scraper ScraperConfig

	// Tabular contains tabular sink configuration
	Tabular TabularSinkConfig

	// Images contains image sink configuration
	Images ImageSinkConfig

	// Log contains logging configuration
	Log LogConfig
}

// ScraperConfig holds target-site configuration
type ScraperConfig struct {
	// BaseURL is the site root every URL extension is appended to
	BaseURL string

	// TimeoutSeconds is the HTTP timeout for page and image fetches
	TimeoutSeconds int
}

// TabularSinkConfig holds tabular sink configuration
type TabularSinkConfig struct {
	// Backend specifies the tabular sink variant (localfile/sqlite)
	Backend string

	// Dir is the output directory for the localfile backend
	Dir string

	// SQLitePath is the database file for the sqlite backend
	SQLitePath string
}

// ImageSinkConfig holds image sink configuration
type ImageSinkConfig struct {
	// Backend specifies the image sink variant (localfile/redis)
	Backend string

	// Dir is the output directory for the localfile backend
	Dir string

	// Redis contains Redis-specific configuration for the remote backend
	Redis RedisConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Level is the minimum emitted log level (debug/info/warn/error)
	Level string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Scraper: ScraperConfig{
			BaseURL:        getEnvOrDefault("OTODOM_BASE_URL", "https://www.otodom.pl"),
			TimeoutSeconds: getEnvAsIntOrDefault("HTTP_TIMEOUT_SECONDS", 30),
		},
		Tabular: TabularSinkConfig{
			Backend:    getEnvOrDefault("TABULAR_SINK", "localfile"),
			Dir:        getEnvOrDefault("TABULAR_DIR", "data/tabular"),
			SQLitePath: getEnvOrDefault("SQLITE_PATH", "real_estate.db"),
		},
		Images: ImageSinkConfig{
			Backend: getEnvOrDefault("IMAGE_SINK", "localfile"),
			Dir:     getEnvOrDefault("IMAGES_DIR", "data/images"),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Scraper.BaseURL == "" {
		return errors.New("base URL cannot be empty")
	}

	if c.Scraper.TimeoutSeconds < 1 {
		return errors.New("HTTP timeout must be at least 1 second")
	}

	if c.Tabular.Backend != "localfile" && c.Tabular.Backend != "sqlite" {
		return errors.New("tabular sink must be 'localfile' or 'sqlite'")
	}

	if c.Tabular.Backend == "sqlite" && c.Tabular.SQLitePath == "" {
		return errors.New("sqlite path cannot be empty when using the sqlite sink")
	}

	if c.Images.Backend != "localfile" && c.Images.Backend != "redis" {
		return errors.New("image sink must be 'localfile' or 'redis'")
	}

	if c.Images.Backend == "redis" && c.Images.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using the redis sink")
	}

	return nil
}
