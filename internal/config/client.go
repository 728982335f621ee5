package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ClientConfig holds settings for the terminal community client.
type ClientConfig struct {
	APIBaseURL            string `mapstructure:"API_BASE_URL"`
	SessionFile           string `mapstructure:"SESSION_FILE"`
	RequestTimeoutSeconds int    `mapstructure:"REQUEST_TIMEOUT_SECONDS"`
	Env                   string `mapstructure:"APP_ENV"`
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *ClientConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// LoadClientConfig reads client settings from the same config files and environment as the server.
func LoadClientConfig() (*ClientConfig, error) {
	v := newViper()

	v.SetDefault("API_BASE_URL", "http://localhost:8375")
	v.SetDefault("SESSION_FILE", defaultSessionFile())
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 15)
	v.SetDefault("APP_ENV", "development")

	var cfg ClientConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode client config: %w", err)
	}
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the client settings.
func (c *ClientConfig) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("API_BASE_URL is required")
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("API_BASE_URL must be an http(s) URL, got %q", c.APIBaseURL)
	}
	if c.SessionFile == "" {
		return errors.New("SESSION_FILE is required")
	}
	if c.RequestTimeoutSeconds <= 0 {
		return errors.New("REQUEST_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".studentvoice-session.yml"
	}
	return filepath.Join(home, ".studentvoice", "session.yml")
}
