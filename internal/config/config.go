package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"order-management-api/internal/logging"
)

// Config holds all configuration for the application
type Config struct {
	Port               string
	DataDir            string
	LogLevel           string
	Environment        string
	BackendURL         string
	BackendAPIKey      string
	APIKeys            string
	RequestTimeout     time.Duration
	CatalogFreshness   time.Duration
	RevalidateInterval time.Duration
}

// Load loads configuration from .env file and environment variables
func Load() *Config {
	// Load .env file if it exists; it does not override existing variables
	if err := godotenv.Load(); err != nil {
		slog.Warn("Could not load .env file, continuing with system environment variables only", "error", err)
	}

	cfg := &Config{
		Port:               getEnvWithDefault("PORT", "8080"),
		DataDir:            getEnvWithDefault("DATA_DIR", "data"),
		LogLevel:           getEnvWithDefault("LOG_LEVEL", "info"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "development"),
		BackendURL:         getEnvWithDefault("BACKEND_URL", "http://localhost:9090"),
		BackendAPIKey:      getEnvWithDefault("BACKEND_API_KEY", ""),
		APIKeys:            getEnvWithDefault("API_KEYS", "demo"),
		RequestTimeout:     getDurationWithDefault("REQUEST_TIMEOUT", 30*time.Second),
		CatalogFreshness:   getDurationWithDefault("CATALOG_FRESHNESS", 5*time.Minute),
		RevalidateInterval: getDurationWithDefault("REVALIDATE_INTERVAL", time.Minute),
	}

	logging.Setup(cfg.LogLevel)

	slog.Info("Configuration loaded",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"logLevel", cfg.LogLevel,
		"dataDir", cfg.DataDir,
		"backendURL", cfg.BackendURL,
		"requestTimeout", cfg.RequestTimeout,
		"catalogFreshness", cfg.CatalogFreshness,
		"revalidateInterval", cfg.RevalidateInterval)

	return cfg
}

// getEnvWithDefault gets an environment variable with a default fallback
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationWithDefault parses a duration environment variable, falling back
// on the default when unset or invalid
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		slog.Warn("Invalid duration value, using default", "key", key, "value", value, "default", defaultValue)
		return defaultValue
	}
	return d
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
