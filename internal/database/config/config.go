// Package config provides database configuration management.
package config

import (
	"fmt"
	"strings"
	"time"

	appconfig "github.com/festy23/useradmin/internal/config"
	"github.com/festy23/useradmin/pkg/retry"
)

// Driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds database connection configuration.
type Config struct {
	// Driver selects the backend: sqlite (default, local dev) or postgres.
	Driver string

	// SQLitePath is the database file path for the sqlite driver.
	SQLitePath string

	// Postgres connection parts.
	Host     string
	User     string
	Password string
	DBName   string
	Port     string
	SSLMode  string
	TimeZone string
}

// LoadConfigFromEnv loads database configuration from environment variables.
func LoadConfigFromEnv() Config {
	return Config{
		Driver:     appconfig.GetEnv("DB_DRIVER", DriverSQLite),
		SQLitePath: appconfig.GetEnv("DB_SQLITE_PATH", "useradmin.db"),
		Host:       appconfig.GetEnv("DB_HOST", "localhost"),
		User:       appconfig.GetEnv("DB_USER", "postgres"),
		Password:   appconfig.GetEnv("DB_PASSWORD", "postgres"),
		DBName:     appconfig.GetEnv("DB_NAME", "useradmin"),
		Port:       appconfig.GetEnv("DB_PORT", "5432"),
		SSLMode:    appconfig.GetEnv("DB_SSLMODE", "disable"),
		TimeZone:   appconfig.GetEnv("DB_TIMEZONE", "UTC"),
	}
}

// Validate validates database configuration.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("DB_SQLITE_PATH must not be empty")
		}
	case DriverPostgres:
		if c.Host == "" || c.Port == "" || c.DBName == "" {
			return fmt.Errorf("postgres driver requires DB_HOST, DB_PORT and DB_NAME")
		}
	default:
		return fmt.Errorf("invalid DB_DRIVER: %s (must be: sqlite, postgres)", c.Driver)
	}
	return nil
}

// BuildDSN constructs the PostgreSQL DSN string from configuration.
func BuildDSN(cfg Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode, cfg.TimeZone)
}

// SanitizeError removes sensitive information (password) from error messages.
func SanitizeError(err error, cfg Config) error {
	if err == nil {
		return nil
	}
	errMsg := err.Error()
	if cfg.Password != "" {
		errMsg = strings.ReplaceAll(errMsg, cfg.Password, "***")
	}
	safeDSN := fmt.Sprintf("host=%s user=%s password=*** dbname=%s port=%s sslmode=%s TimeZone=%s",
		cfg.Host, cfg.User, cfg.DBName, cfg.Port, cfg.SSLMode, cfg.TimeZone)
	errMsg = strings.ReplaceAll(errMsg, BuildDSN(cfg), safeDSN)
	return fmt.Errorf("failed to connect to database: %s", errMsg)
}

// connectRetryableErrors lists error patterns worth retrying when connecting.
func connectRetryableErrors() []string {
	return []string{
		"connection refused",
		"i/o timeout",
		"connection reset",
		"server closed the connection",
		"too many connections",
		"the database system is starting up",
		"no connection could be made",
		"network is unreachable",
		"dial tcp",
		"connection timed out",
	}
}

// LoadRetryConfigFromEnv loads connection retry configuration from environment variables.
func LoadRetryConfigFromEnv() retry.Config {
	cfg := retry.DefaultConfig()
	cfg.RetryableErrors = connectRetryableErrors()
	cfg.MaxAttempts = appconfig.GetEnvInt("DB_RETRY_MAX_ATTEMPTS", cfg.MaxAttempts)
	cfg.InitialDelay = appconfig.GetEnvDuration("DB_RETRY_INITIAL_DELAY", cfg.InitialDelay)
	cfg.MaxDelay = appconfig.GetEnvDuration("DB_RETRY_MAX_DELAY", cfg.MaxDelay)
	return cfg
}

// LoadConnMaxLifetimeFromEnv is kept separate so pool settings stay env-tunable.
func LoadConnMaxLifetimeFromEnv(defaultValue time.Duration) time.Duration {
	return appconfig.GetEnvDuration("DB_CONN_MAX_LIFETIME", defaultValue)
}
