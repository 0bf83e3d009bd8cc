// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/aristath/tnuos/internal/utils"
)

// Config holds application configuration
type Config struct {
	// Server
	Host string
	Port int

	// Data directory holding the three published tariff CSVs. Empty means
	// the embedded sample data set.
	DataDir string

	// Charging years
	DefaultYear  int
	BaselineYear int
	HorizonYear  int

	// Logging
	LogLevel  string
	LogPretty bool

	// CORS
	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		Host:               getEnv("TNUOS_HOST", "0.0.0.0"),
		Port:               getEnvAsInt("TNUOS_PORT", 8080),
		DataDir:            getEnv("TNUOS_DATA_DIR", ""),
		DefaultYear:        getEnvAsInt("TNUOS_DEFAULT_YEAR", 2027),
		BaselineYear:       getEnvAsInt("TNUOS_BASELINE_YEAR", 2026),
		HorizonYear:        getEnvAsInt("TNUOS_HORIZON_YEAR", 2031),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogPretty:          getEnvAsBool("LOG_PRETTY", true),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	if cfg.DataDir != "" {
		absPath, err := filepath.Abs(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
		}
		cfg.DataDir = absPath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.BaselineYear > c.HorizonYear {
		return fmt.Errorf("baseline year %d is after horizon year %d", c.BaselineYear, c.HorizonYear)
	}
	if c.DefaultYear < c.BaselineYear || c.DefaultYear > c.HorizonYear {
		return fmt.Errorf("default year %d is outside the forecast window %d-%d", c.DefaultYear, c.BaselineYear, c.HorizonYear)
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool gets an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsSlice gets a comma-separated environment variable or returns a default value
func getEnvAsSlice(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	parsed := utils.ParseCSV(value)
	if parsed == nil {
		return defaultValue
	}
	return parsed
}
