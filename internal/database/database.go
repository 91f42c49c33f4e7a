// Package database provides database connection management for the users API.
// Local development runs on sqlite; deployed instances use PostgreSQL.
package database

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appconfig "github.com/festy23/useradmin/internal/config"
	"github.com/festy23/useradmin/internal/database/config"
	"github.com/festy23/useradmin/internal/database/pool"
	"github.com/festy23/useradmin/pkg/retry"
)

// New creates a new database connection using environment variables.
func New(ctx context.Context) (*gorm.DB, error) {
	cfg := config.LoadConfigFromEnv()
	return NewWithConfig(ctx, cfg)
}

// NewWithConfig creates a new database connection with custom configuration.
// Connecting is retried with backoff; postgres connections get pool settings.
func NewWithConfig(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := retry.DoWithResult(ctx, config.LoadRetryConfigFromEnv(), func() (*gorm.DB, error) {
		return open(cfg)
	})
	if err != nil {
		return nil, config.SanitizeError(err, cfg)
	}

	if cfg.Driver == config.DriverPostgres {
		if err := pool.SetupConnectionPool(db, loadPoolConfigFromEnv()); err != nil {
			return nil, fmt.Errorf("failed to set up connection pool: %w", err)
		}
	}

	return db, nil
}

func open(cfg config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		return gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
	case config.DriverPostgres:
		return gorm.Open(postgres.Open(config.BuildDSN(cfg)), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported driver: %s", cfg.Driver)
	}
}

// loadPoolConfigFromEnv loads pool settings with env overrides.
func loadPoolConfigFromEnv() pool.Config {
	cfg := pool.DefaultPoolConfig()
	cfg.MaxOpenConns = appconfig.GetEnvInt("DB_MAX_OPEN_CONNS", cfg.MaxOpenConns)
	cfg.MaxIdleConns = appconfig.GetEnvInt("DB_MAX_IDLE_CONNS", cfg.MaxIdleConns)
	cfg.ConnMaxLifetime = config.LoadConnMaxLifetimeFromEnv(cfg.ConnMaxLifetime)
	cfg.ConnMaxIdleTime = appconfig.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", cfg.ConnMaxIdleTime)
	return cfg
}

// HealthCheck verifies database connection availability.
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
