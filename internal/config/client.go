package config

import (
	"fmt"
	"net/url"
	"time"
)

// ClientConfig holds users API client configuration.
type ClientConfig struct {
	// BaseURL is the users API base URL.
	BaseURL string
	// Timeout is the per-request timeout.
	Timeout time.Duration
	// CacheTTL is how long fetched data is considered fresh.
	CacheTTL time.Duration
	// ReadRetries is the number of retries after a failed read (0 disables).
	ReadRetries int
}

// LoadClientConfigFromEnv loads users API client configuration from environment variables.
func LoadClientConfigFromEnv() ClientConfig {
	return ClientConfig{
		BaseURL:     GetEnv("USERS_API_BASE_URL", "http://localhost:3001"),
		Timeout:     GetEnvDuration("USERS_API_TIMEOUT", 10*time.Second),
		CacheTTL:    GetEnvDuration("USERS_CACHE_TTL", 30*time.Second),
		ReadRetries: GetEnvInt("USERS_READ_RETRIES", 1),
	}
}

// Validate validates users API client configuration.
func (c ClientConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base URL: %s", c.BaseURL)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("Timeout must be greater than 0")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CacheTTL must be greater than 0")
	}
	if c.ReadRetries < 0 {
		return fmt.Errorf("ReadRetries must not be negative")
	}

	return nil
}
