package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:                "production",
		DBDriver:           "postgres",
		DBSSLMode:          "require",
		JWTSecret:          "secure-secret-at-least-32-chars-long",
		DBPassword:         "secure-password",
		Port:               "8080",
		FaceMatchThreshold: 75,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"valid production", func(c *Config) {}, false},
		{"production with disabled SSL", func(c *Config) { c.DBSSLMode = "disable" }, true},
		{"production with empty SSL", func(c *Config) { c.DBSSLMode = "" }, true},
		{"production with default secret", func(c *Config) { c.JWTSecret = defaultJWTSecret }, true},
		{"production with short secret", func(c *Config) { c.JWTSecret = "short" }, true},
		{"production with sqlite", func(c *Config) { c.DBDriver = "sqlite" }, true},
		{"production with weak db password", func(c *Config) { c.DBPassword = "password" }, true},
		{"development with sqlite", func(c *Config) { c.Env = "development"; c.DBDriver = "sqlite" }, false},
		{"development with disabled SSL", func(c *Config) { c.Env = "development"; c.DBSSLMode = "disable" }, false},
		{"unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"threshold out of range", func(c *Config) { c.FaceMatchThreshold = 120 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_Normalization(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("DB_DRIVER", " SQLite ")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "gemini-2.0-flash", c.GeminiModel)
	assert.InDelta(t, 75.0, c.FaceMatchThreshold, 0.001)
}

func TestLoadClientConfig(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://api.example.test/")
	t.Setenv("SESSION_FILE", "/tmp/session.yml")

	c, err := LoadClientConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://api.example.test", c.APIBaseURL)
	assert.Equal(t, "/tmp/session.yml", c.SessionFile)
	assert.Equal(t, 15, c.RequestTimeoutSeconds)
}

func TestClientConfig_ValidateRejectsBadURL(t *testing.T) {
	c := &ClientConfig{APIBaseURL: "ftp://nope", SessionFile: "s.yml", RequestTimeoutSeconds: 5}
	assert.Error(t, c.Validate())
}
