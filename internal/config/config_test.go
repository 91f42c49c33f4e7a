package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Run("defaults validate", func(t *testing.T) {
		cfg := LoadFromEnv()

		require.NoError(t, cfg.Validate())
		assert.Equal(t, "release", cfg.GinMode)
		assert.Equal(t, ":3001", cfg.Server.Port)
	})

	t.Run("reads env overrides", func(t *testing.T) {
		t.Setenv("GIN_MODE", "test")
		t.Setenv("USERS_API_BASE_URL", "http://users.internal:8080")

		cfg := LoadFromEnv()

		assert.Equal(t, "test", cfg.GinMode)
		assert.Equal(t, "http://users.internal:8080", cfg.Client.BaseURL)
	})
}

func TestConfig_Validate(t *testing.T) {
	base := LoadFromEnv()

	t.Run("invalid gin mode", func(t *testing.T) {
		cfg := base
		cfg.GinMode = "production"
		assert.Error(t, cfg.Validate())
	})

	t.Run("invalid client config propagates", func(t *testing.T) {
		cfg := base
		cfg.Client.BaseURL = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "client config")
	})

	t.Run("invalid server config propagates", func(t *testing.T) {
		cfg := base
		cfg.Server.ReadTimeout = 0
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server config")
	})
}
