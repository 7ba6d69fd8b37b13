package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/cesargomez89/songbook/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port           string
	DBPath         string
	RemoteBaseURL  string
	LogLevel       string
	LogFormat      string
	LogFile        string
	Offline        bool
	ReconcileDelay time.Duration
	ProbeTimeout   time.Duration
	HTTPTimeout    time.Duration
}

// Load loads configuration from environment variables with defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", constants.DefaultPort),
		DBPath:         getEnv("DB_PATH", constants.DefaultDBPath),
		RemoteBaseURL:  getEnv("REMOTE_BASE_URL", constants.DefaultRemoteBaseURL),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		LogFile:        getEnv("LOG_FILE", ""),
		Offline:        getEnvBool("OFFLINE", false),
		ReconcileDelay: getEnvDuration("RECONCILE_DELAY", constants.DefaultReconcileDelay),
		ProbeTimeout:   getEnvDuration("PROBE_TIMEOUT", constants.DefaultProbeTimeout),
		HTTPTimeout:    getEnvDuration("HTTP_TIMEOUT", constants.DefaultHTTPTimeout),
	}
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	if c.RemoteBaseURL == "" {
		errors = append(errors, "REMOTE_BASE_URL cannot be empty")
	} else if u, err := url.Parse(c.RemoteBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("REMOTE_BASE_URL is not a valid URL: %s", c.RemoteBaseURL))
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if c.ReconcileDelay < 0 {
		errors = append(errors, fmt.Sprintf("RECONCILE_DELAY cannot be negative, got: %v", c.ReconcileDelay))
	}
	if c.ProbeTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("PROBE_TIMEOUT must be positive, got: %v", c.ProbeTimeout))
	}
	if c.HTTPTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("HTTP_TIMEOUT must be positive, got: %v", c.HTTPTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

// getEnvDuration parses a Go duration string; invalid values fall back to the default.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
