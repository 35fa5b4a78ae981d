package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"zhypo/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	Simulation SimulationConfig
	Logging    LoggingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

// SimulationConfig holds defaults and edge bounds for z-test runs
type SimulationConfig struct {
	DefaultAlpha  float64
	MinSampleSize int
	CurvePoints   int
	CurveSpanSE   float64
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:     *loadServerConfig(),
		Simulation: *loadSimulationConfig(),
		Logging:    *loadLoggingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:            getEnvOrDefault("PORT", "8080"),
		GinMode:         getEnvOrDefault("GIN_MODE", "release"),
		ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

func loadSimulationConfig() *SimulationConfig {
	return &SimulationConfig{
		DefaultAlpha:  getEnvFloatOrDefault("DEFAULT_ALPHA", 0.05),
		MinSampleSize: getEnvIntOrDefault("MIN_SAMPLE_SIZE", 1),
		CurvePoints:   getEnvIntOrDefault("CURVE_POINTS", 100),
		CurveSpanSE:   getEnvFloatOrDefault("CURVE_SPAN_SE", 4),
	}
}

func loadLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	if a := config.Simulation.DefaultAlpha; !(a > 0 && a < 1) {
		return errors.ConfigInvalid("DEFAULT_ALPHA must be in (0, 1)")
	}
	if config.Simulation.MinSampleSize < 1 {
		return errors.ConfigInvalid("MIN_SAMPLE_SIZE must be at least 1")
	}
	if config.Simulation.CurvePoints < 2 {
		return errors.ConfigInvalid("CURVE_POINTS must be at least 2")
	}
	if config.Simulation.CurveSpanSE <= 0 {
		return errors.ConfigInvalid("CURVE_SPAN_SE must be positive")
	}
	return nil
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

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
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
