package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardsage/cardsage/internal/logging"
)

func TestLoadConfig(t *testing.T) {
	t.Run("fails without API key", func(t *testing.T) {
		t.Setenv("PERPLEXITY_API_KEY", "")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("PERPLEXITY_API_KEY", "pplx-test-key")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "perplexity", cfg.Provider)
		assert.Equal(t, "sonar", cfg.Model)
		assert.Equal(t, 3, cfg.MaxRetries)
		assert.Equal(t, time.Second, cfg.RetryDelay)
		assert.Equal(t, 60*time.Second, cfg.RateWindow)
		assert.Equal(t, 10, cfg.RateLimit)
		assert.Equal(t, "cardsage-dev-session-secret", cfg.SessionSecret)
	})

	t.Run("reads overrides from environment", func(t *testing.T) {
		t.Setenv("PERPLEXITY_API_KEY", "pplx-test-key")
		t.Setenv("CHAT_MODEL", "sonar-pro")
		t.Setenv("CHAT_MAX_RETRIES", "5")
		t.Setenv("LOG_LEVEL", "DEBUG")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "sonar-pro", cfg.Model)
		assert.Equal(t, 5, cfg.MaxRetries)
		assert.Equal(t, logging.LogLevelDebug, cfg.LogLevel)
	})
}

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		SetModel("sonar-pro"),
		SetAPIKey("pplx-key"),
		SetMaxRetries(1),
		SetRetryDelay(10*time.Millisecond),
		SetRateLimit(time.Second, 2),
	)

	assert.Equal(t, "sonar-pro", cfg.Model)
	assert.Equal(t, "pplx-key", cfg.PerplexityAPIKey)
	assert.Equal(t, 1, cfg.MaxRetries)
	assert.Equal(t, 10*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, time.Second, cfg.RateWindow)
	assert.Equal(t, 2, cfg.RateLimit)
}

func TestSetMaxTokensFloor(t *testing.T) {
	cfg := NewConfig(SetMaxTokens(0))
	assert.Equal(t, 1, cfg.MaxTokens)
}
