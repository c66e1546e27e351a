package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"exoml/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Database  DatabaseConfig
	Modes     ModesConfig
	Session   SessionConfig
	Charts    ChartConfig
	Profiling ProfilingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string
	APIPort     string
	GinMode     string
	CORSOrigins []string
}

// CatalogConfig selects where samples are loaded from
type CatalogConfig struct {
	File     string // .json, .csv or .xlsx; empty uses the bundled samples
	DataPath string // gjson path to the sample array in JSON catalogs
}

// DatabaseConfig holds the optional persistence backend
type DatabaseConfig struct {
	URL string
}

// Driver returns the database/sql driver name for the URL, or "" when
// persistence is disabled.
func (d DatabaseConfig) Driver() string {
	switch {
	case d.URL == "":
		return ""
	case strings.HasPrefix(d.URL, "postgres://"), strings.HasPrefix(d.URL, "postgresql://"):
		return "postgres"
	default:
		return "sqlite"
	}
}

// DSN strips the sqlite:// scheme so the driver gets a bare path
func (d DatabaseConfig) DSN() string {
	if strings.HasPrefix(d.URL, "sqlite://") {
		return strings.TrimPrefix(d.URL, "sqlite://")
	}
	return d.URL
}

// ModesConfig holds the timed action durations
type ModesConfig struct {
	TestDuration    time.Duration
	RetrainDuration time.Duration
	RetrainCooldown time.Duration
}

// SessionConfig holds browser session settings
type SessionConfig struct {
	IdleTimeout time.Duration
}

// ChartConfig holds chart rendering settings
type ChartConfig struct {
	Population           string // "per-sample" or "per-render"
	Width                int
	Height               int
	MaxConcurrentRenders int64
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it.
// Every setting has a default.
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:        getEnvOrDefault("PORT", "8080"),
			APIPort:     getEnvOrDefault("API_PORT", "5000"),
			GinMode:     getEnvOrDefault("GIN_MODE", "debug"),
			CORSOrigins: splitList(getEnvOrDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		},
		Catalog: CatalogConfig{
			File:     getEnvOrDefault("CATALOG_FILE", ""),
			DataPath: getEnvOrDefault("CATALOG_DATA_PATH", "samples"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Modes: ModesConfig{
			TestDuration:    getEnvDurationOrDefault("TEST_MODE_DURATION", 25*time.Second),
			RetrainDuration: getEnvDurationOrDefault("RETRAIN_DURATION", 2*time.Second),
			RetrainCooldown: getEnvDurationOrDefault("RETRAIN_COOLDOWN", 1500*time.Millisecond),
		},
		Session: SessionConfig{
			IdleTimeout: getEnvDurationOrDefault("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		},
		Charts: ChartConfig{
			Population:           getEnvOrDefault("CHART_POPULATION", "per-sample"),
			Width:                getEnvIntOrDefault("CHART_WIDTH", 800),
			Height:               getEnvIntOrDefault("CHART_HEIGHT", 500),
			MaxConcurrentRenders: int64(getEnvIntOrDefault("CHART_MAX_CONCURRENT_RENDERS", 4)),
		},
		Profiling: ProfilingConfig{
			Port:    getEnvOrDefault("PPROF_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	switch config.Charts.Population {
	case "per-sample", "per-render":
	default:
		return errors.ConfigInvalid("CHART_POPULATION must be per-sample or per-render")
	}
	if config.Charts.Width < 100 || config.Charts.Height < 100 {
		return errors.ConfigInvalid("chart dimensions must be at least 100x100")
	}
	if config.Charts.MaxConcurrentRenders < 1 {
		return errors.ConfigInvalid("CHART_MAX_CONCURRENT_RENDERS must be positive")
	}
	if config.Modes.TestDuration <= 0 || config.Modes.RetrainDuration <= 0 || config.Modes.RetrainCooldown < 0 {
		return errors.ConfigInvalid("mode durations must be positive")
	}
	if config.Session.IdleTimeout <= 0 {
		return errors.ConfigInvalid("SESSION_IDLE_TIMEOUT must be positive")
	}
	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
