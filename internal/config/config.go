// Package config manages application configuration
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

// MemoryStorage selects the in-process storage instead of a database file
const MemoryStorage = "memory"

// Config holds all application configuration
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"

	// Backend
	APIBaseURL string

	// Local storage
	StoragePath string
	StorageKey  string // optional secret sealing stored values

	ShutdownTimeout time.Duration
	LogLevel        string
	LogRequests     bool
}

// Load reads an optional .env file and then configuration from environment
// variables with sensible defaults. Variables already set win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return FromEnv(), nil
}

// FromEnv reads configuration from the environment only
func FromEnv() *Config {
	return &Config{
		Port:            getEnv("JETTER_PORT", "5173"),
		Environment:     getEnv("JETTER_ENV", "development"),
		APIBaseURL:      getEnv("JETTER_API_BASE_URL", "https://admin.go-jetter.com/api"),
		StoragePath:     getEnv("JETTER_STORAGE_PATH", "jetter.db"),
		StorageKey:      getEnv("JETTER_STORAGE_KEY", ""),
		ShutdownTimeout: getDurationEnv("JETTER_SHUTDOWN_TIMEOUT", 10*time.Second),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogRequests:     getBoolEnv("JETTER_LOG_REQUESTS", true),
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// InMemoryStorage reports whether local storage should live in process memory
func (c *Config) InMemoryStorage() bool {
	return c.StoragePath == MemoryStorage
}

// Addr is the listen address of the local web front
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
