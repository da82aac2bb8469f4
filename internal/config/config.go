package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	defaultMaxUploadBytes     = 16 << 20
	defaultRateLimitPerMinute = 120
)

type Config struct {
	Port               string
	MongoDBURI         string
	MongoDBPassword    string
	MongoDBDatabase    string
	Environment        string
	LogLevel           string
	CORSAllowOrigins   []string
	MaxUploadBytes     int64
	RedisURL           string
	RateLimitPerMinute int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:             getEnvWithDefault("PORT", "8080"),
		MongoDBURI:       os.Getenv("MONGODB_URI"),
		MongoDBPassword:  os.Getenv("MONGODB_PASSWORD"),
		MongoDBDatabase:  getEnvWithDefault("MONGODB_DATABASE", "test"),
		Environment:      getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:         getEnvWithDefault("LOG_LEVEL", "info"),
		CORSAllowOrigins: splitList(getEnvWithDefault("CORS_ALLOW_ORIGINS", "*")),
		RedisURL:         os.Getenv("REDIS_URL"),
	}

	// Validate required fields
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}

	maxUpload, err := getIntWithDefault("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}
	if maxUpload <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	cfg.MaxUploadBytes = int64(maxUpload)

	cfg.RateLimitPerMinute, err = getIntWithDefault("RATE_LIMIT_PER_MINUTE", defaultRateLimitPerMinute)
	if err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// RateLimitEnabled reports whether a Redis instance was configured.
func (c *Config) RateLimitEnabled() bool {
	return c.RedisURL != ""
}

// SlogLevel parses LogLevel, falling back to info for unknown values.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
