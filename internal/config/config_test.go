package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:                 "8340",
		JWTSecret:            "0123456789abcdef0123456789abcdef",
		DBPassword:           "s3cret-db-password",
		DBSSLMode:            "require",
		Env:                  "development",
		MediaMaxUploadSizeMB: 10,
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid development config", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})

	t.Run("missing port", func(t *testing.T) {
		cfg := validConfig()
		cfg.Port = ""
		assert.EqualError(t, cfg.Validate(), "PORT is required")
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		cfg := validConfig()
		cfg.JWTSecret = ""
		assert.EqualError(t, cfg.Validate(), "JWT_SECRET is required")
	})

	t.Run("non-positive media size", func(t *testing.T) {
		cfg := validConfig()
		cfg.MediaMaxUploadSizeMB = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("default secret rejected in production", func(t *testing.T) {
		cfg := validConfig()
		cfg.Env = "production"
		cfg.JWTSecret = "your-secret-key-change-in-production"
		assert.Error(t, cfg.Validate())
	})

	t.Run("short secret rejected in production", func(t *testing.T) {
		cfg := validConfig()
		cfg.Env = "production"
		cfg.JWTSecret = "short"
		assert.Error(t, cfg.Validate())
	})

	t.Run("weak db password rejected in production", func(t *testing.T) {
		cfg := validConfig()
		cfg.Env = "prod"
		cfg.DBPassword = "password"
		assert.Error(t, cfg.Validate())
	})
}
