package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadServerConfigFromEnv(t *testing.T) {
	t.Run("defaults to the users API port", func(t *testing.T) {
		cfg := LoadServerConfigFromEnv()

		assert.Equal(t, ":3001", cfg.Port)
		assert.Empty(t, cfg.Host)
		assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
		assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
		assert.Equal(t, 120*time.Second, cfg.IdleTimeout)
	})

	t.Run("overrides from env", func(t *testing.T) {
		t.Setenv("SERVER_HOST", "127.0.0.1")
		t.Setenv("SERVER_PORT", ":9090")
		t.Setenv("SERVER_READ_TIMEOUT", "5s")

		cfg := LoadServerConfigFromEnv()

		assert.Equal(t, "127.0.0.1", cfg.Host)
		assert.Equal(t, ":9090", cfg.Port)
		assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	})
}

func TestServerConfig_GetAddress(t *testing.T) {
	tests := []struct {
		name string
		cfg  ServerConfig
		want string
	}{
		{"port only", ServerConfig{Port: ":3001"}, ":3001"},
		{"host and colon port", ServerConfig{Host: "localhost", Port: ":3001"}, "localhost:3001"},
		{"host and bare port", ServerConfig{Host: "localhost", Port: "3001"}, "localhost:3001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.GetAddress())
		})
	}
}

func TestServerConfig_Validate(t *testing.T) {
	valid := ServerConfig{
		Port:         ":3001",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*ServerConfig)
	}{
		{"zero read timeout", func(c *ServerConfig) { c.ReadTimeout = 0 }},
		{"zero write timeout", func(c *ServerConfig) { c.WriteTimeout = 0 }},
		{"negative idle timeout", func(c *ServerConfig) { c.IdleTimeout = -time.Second }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
