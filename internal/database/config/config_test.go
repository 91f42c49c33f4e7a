package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Run("defaults to sqlite", func(t *testing.T) {
		cfg := LoadConfigFromEnv()

		assert.Equal(t, DriverSQLite, cfg.Driver)
		assert.Equal(t, "useradmin.db", cfg.SQLitePath)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("postgres from env", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "postgres")
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("DB_NAME", "users")

		cfg := LoadConfigFromEnv()

		assert.Equal(t, DriverPostgres, cfg.Driver)
		assert.Equal(t, "db.internal", cfg.Host)
		assert.NoError(t, cfg.Validate())
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "sqlite needs a path",
			cfg:     Config{Driver: DriverSQLite},
			wantErr: true,
		},
		{
			name:    "postgres needs host port and name",
			cfg:     Config{Driver: DriverPostgres, Host: "localhost", Port: ""},
			wantErr: true,
		},
		{
			name:    "unknown driver",
			cfg:     Config{Driver: "mysql"},
			wantErr: true,
		},
		{
			name:    "valid sqlite",
			cfg:     Config{Driver: DriverSQLite, SQLitePath: ":memory:"},
			wantErr: false,
		},
		{
			name:    "valid postgres",
			cfg:     Config{Driver: DriverPostgres, Host: "localhost", Port: "5432", DBName: "users"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuildDSN(t *testing.T) {
	cfg := Config{
		Host: "localhost", User: "postgres", Password: "secret",
		DBName: "users", Port: "5432", SSLMode: "disable", TimeZone: "UTC",
	}

	dsn := BuildDSN(cfg)

	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=users")
	assert.Contains(t, dsn, "password=secret")
}

func TestSanitizeError(t *testing.T) {
	cfg := Config{
		Host: "localhost", User: "postgres", Password: "secret",
		DBName: "users", Port: "5432", SSLMode: "disable", TimeZone: "UTC",
	}

	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, SanitizeError(nil, cfg))
	})

	t.Run("password redacted", func(t *testing.T) {
		err := errors.New("auth failed for password=secret")

		sanitized := SanitizeError(err, cfg)

		require.Error(t, sanitized)
		assert.NotContains(t, sanitized.Error(), "secret")
		assert.Contains(t, sanitized.Error(), "***")
	})

	t.Run("full DSN redacted", func(t *testing.T) {
		err := errors.New("cannot connect: " + BuildDSN(cfg))

		sanitized := SanitizeError(err, cfg)

		assert.NotContains(t, sanitized.Error(), "secret")
	})
}

func TestLoadRetryConfigFromEnv(t *testing.T) {
	t.Setenv("DB_RETRY_MAX_ATTEMPTS", "7")

	cfg := LoadRetryConfigFromEnv()

	assert.Equal(t, 7, cfg.MaxAttempts)
	assert.Contains(t, cfg.RetryableErrors, "connection refused")
}
