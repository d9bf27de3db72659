package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		APIBaseURL:   "http://localhost:5000/",
		APILoginPath: "/api/auth/login",
		MaxUploadMB:  5,
	}
}

func TestValidate(t *testing.T) {
	t.Run("trims trailing slash from base url", func(t *testing.T) {
		cfg := validConfig()
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:5000", cfg.APIBaseURL)
	})

	t.Run("rejects relative base url", func(t *testing.T) {
		cfg := validConfig()
		cfg.APIBaseURL = "localhost:5000"
		var invalid *InvalidValueError
		require.ErrorAs(t, cfg.Validate(), &invalid)
		assert.Equal(t, "API_BASE_URL", invalid.Key)
	})

	t.Run("rejects login path without leading slash", func(t *testing.T) {
		cfg := validConfig()
		cfg.APILoginPath = "api/login"
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects non-positive upload limit", func(t *testing.T) {
		cfg := validConfig()
		cfg.MaxUploadMB = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestMaxUploadBytes(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, int64(5*1024*1024), cfg.MaxUploadBytes())
}
