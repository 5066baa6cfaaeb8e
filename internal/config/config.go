// Package config provides configuration management for the todo service.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default configuration values.
const (
	DefaultServerPort      = 8080
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMetricsEnabled  = true
	DefaultAuthMode        = "none"
	DefaultStorageBackend  = "memory"
	DefaultMigrationsPath  = "migrations"
)

// Environment variable names.
const (
	EnvServerPort      = "APP_SERVER_PORT"
	EnvLogLevel        = "APP_LOG_LEVEL"
	EnvShutdownTimeout = "APP_SHUTDOWN_TIMEOUT"
	EnvMetricsEnabled  = "APP_METRICS_ENABLED"
	EnvOTLPEndpoint    = "APP_OTLP_ENDPOINT"
	EnvAuthMode        = "APP_AUTH_MODE"
	EnvBasicAuthUsers  = "APP_BASIC_AUTH_USERS"
	EnvAPIKeys         = "APP_API_KEYS" //nolint:gosec // env var name, not a credential
	EnvStorageBackend  = "APP_STORAGE_BACKEND"
	EnvDatabaseURL     = "APP_DATABASE_URL"
	EnvMigrationsPath  = "APP_MIGRATIONS_PATH"
)

// Config holds the application configuration.
type Config struct {
	// Server settings.
	ServerPort      int
	LogLevel        string
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
	OTLPEndpoint    string

	// Authentication mode: none, basic, apikey.
	AuthMode string

	// Basic auth settings (format: "user1:bcrypt_hash,user2:bcrypt_hash").
	BasicAuthUsers string

	// API key settings (format: "key1:name1,key2:name2").
	APIKeys string

	// Storage backend: memory, postgres.
	StorageBackend string

	// Postgres settings, required for the postgres backend.
	DatabaseURL    string
	MigrationsPath string
}

// Validation errors.
var (
	ErrInvalidServerPort      = errors.New("server port must be between 1 and 65535")
	ErrInvalidLogLevel        = errors.New("log level must be one of: debug, info, warn, error")
	ErrInvalidShutdownTimeout = errors.New("shutdown timeout must be positive")
	ErrInvalidAuthMode        = errors.New(
		"auth mode must be one of: none, basic, apikey",
	)
	ErrInvalidBasicAuthConfig = errors.New(
		"basic auth users must be set when auth mode is basic",
	)
	ErrInvalidAPIKeyConfig = errors.New(
		"API keys must be set when auth mode is apikey",
	)
	ErrInvalidStorageBackend = errors.New(
		"storage backend must be one of: memory, postgres",
	)
	ErrInvalidDatabaseConfig = errors.New(
		"database URL must be set when storage backend is postgres",
	)
)

// Load reads configuration from environment variables with defaults.
// A .env file in the working directory, if present, is loaded first;
// real environment variables take priority over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:      DefaultServerPort,
		LogLevel:        DefaultLogLevel,
		ShutdownTimeout: DefaultShutdownTimeout,
		MetricsEnabled:  DefaultMetricsEnabled,
		AuthMode:        DefaultAuthMode,
		StorageBackend:  DefaultStorageBackend,
		MigrationsPath:  DefaultMigrationsPath,
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("loading config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadFromEnv loads configuration values from environment variables.
func (c *Config) loadFromEnv() error {
	if err := c.loadServerEnv(); err != nil {
		return err
	}

	c.loadAuthEnv()
	c.loadStorageEnv()

	return nil
}

// loadServerEnv loads server-related environment variables.
func (c *Config) loadServerEnv() error {
	if val := os.Getenv(EnvServerPort); val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvServerPort, err)
		}
		c.ServerPort = port
	}

	if val := os.Getenv(EnvLogLevel); val != "" {
		c.LogLevel = val
	}

	if val := os.Getenv(EnvShutdownTimeout); val != "" {
		timeout, err := time.ParseDuration(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvShutdownTimeout, err)
		}
		c.ShutdownTimeout = timeout
	}

	if val := os.Getenv(EnvMetricsEnabled); val != "" {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvMetricsEnabled, err)
		}
		c.MetricsEnabled = enabled
	}

	if val := os.Getenv(EnvOTLPEndpoint); val != "" {
		c.OTLPEndpoint = val
	}

	return nil
}

// loadAuthEnv loads authentication environment variables.
func (c *Config) loadAuthEnv() {
	if val := os.Getenv(EnvAuthMode); val != "" {
		c.AuthMode = val
	}

	if val := os.Getenv(EnvBasicAuthUsers); val != "" {
		c.BasicAuthUsers = val
	}

	if val := os.Getenv(EnvAPIKeys); val != "" {
		c.APIKeys = val
	}
}

// loadStorageEnv loads storage environment variables.
func (c *Config) loadStorageEnv() {
	if val := os.Getenv(EnvStorageBackend); val != "" {
		c.StorageBackend = val
	}

	if val := os.Getenv(EnvDatabaseURL); val != "" {
		c.DatabaseURL = val
	}

	if val := os.Getenv(EnvMigrationsPath); val != "" {
		c.MigrationsPath = val
	}
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAuth(); err != nil {
		return err
	}

	return c.validateStorage()
}

// validateServer validates server-related configuration.
func (c *Config) validateServer() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return ErrInvalidServerPort
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return ErrInvalidLogLevel
	}

	if c.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTimeout
	}

	return nil
}

// validateAuth validates authentication configuration.
func (c *Config) validateAuth() error {
	switch c.AuthMode {
	case "none":
	case "basic":
		if c.BasicAuthUsers == "" {
			return ErrInvalidBasicAuthConfig
		}
	case "apikey":
		if c.APIKeys == "" {
			return ErrInvalidAPIKeyConfig
		}
	default:
		return ErrInvalidAuthMode
	}

	return nil
}

// validateStorage validates storage configuration.
func (c *Config) validateStorage() error {
	switch c.StorageBackend {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return ErrInvalidDatabaseConfig
		}
	default:
		return ErrInvalidStorageBackend
	}

	return nil
}

// Address returns the server address in host:port format.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
