package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/cardsage/cardsage/internal/logging"
)

// Config carries every tunable for the service. Values come from the
// environment; LoadConfig fails if the Perplexity key is absent so the
// process never starts half-configured.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`

	PerplexityAPIKey string `env:"PERPLEXITY_API_KEY" validate:"required"`

	// SessionSecret falls back to a fixed placeholder when unset. Fine for
	// local development, a weakness in production; deployments must set it.
	SessionSecret string `env:"SESSION_SECRET" envDefault:"cardsage-dev-session-secret"`
	AdminUser     string `env:"ADMIN_USER" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin"`

	Provider    string        `env:"CHAT_PROVIDER" envDefault:"perplexity"`
	Model       string        `env:"CHAT_MODEL" envDefault:"sonar"`
	Temperature float64       `env:"CHAT_TEMPERATURE" envDefault:"0.2"`
	TopP        float64       `env:"CHAT_TOP_P" envDefault:"0.9"`
	MaxTokens   int           `env:"CHAT_MAX_TOKENS" envDefault:"1024"`
	Timeout     time.Duration `env:"CHAT_TIMEOUT" envDefault:"30s"`

	MaxRetries int           `env:"CHAT_MAX_RETRIES" envDefault:"3"`
	RetryDelay time.Duration `env:"CHAT_RETRY_DELAY" envDefault:"1s"`

	RateWindow time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`
	RateLimit  int           `env:"RATE_LIMIT_MAX" envDefault:"10"`

	// HistoryTokens bounds the conversation payload sent upstream.
	HistoryTokens int `env:"CHAT_HISTORY_TOKENS" envDefault:"3000"`

	// OutboundRPS smooths calls toward the provider. Zero disables it.
	OutboundRPS float64 `env:"CHAT_OUTBOUND_RPS" envDefault:"0"`

	LogLevel logging.LogLevel `env:"LOG_LEVEL" envDefault:"INFO"`
}

var validate = validator.New()

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

type ConfigOption func(*Config)

// NewConfig returns a Config with the production defaults, for callers that
// configure programmatically instead of through the environment.
func NewConfig(options ...ConfigOption) *Config {
	cfg := &Config{
		Port:          "8080",
		SessionSecret: "cardsage-dev-session-secret",
		AdminUser:     "admin",
		AdminPassword: "admin",
		Provider:      "perplexity",
		Model:         "sonar",
		Temperature:   0.2,
		TopP:          0.9,
		MaxTokens:     1024,
		Timeout:       30 * time.Second,
		MaxRetries:    3,
		RetryDelay:    time.Second,
		RateWindow:    60 * time.Second,
		RateLimit:     10,
		HistoryTokens: 3000,
		LogLevel:      logging.LogLevelInfo,
	}
	for _, option := range options {
		option(cfg)
	}
	return cfg
}

func SetProvider(provider string) ConfigOption {
	return func(c *Config) {
		c.Provider = provider
	}
}

func SetModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

func SetAPIKey(apiKey string) ConfigOption {
	return func(c *Config) {
		c.PerplexityAPIKey = apiKey
	}
}

func SetTemperature(temperature float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = temperature
	}
}

func SetMaxTokens(maxTokens int) ConfigOption {
	return func(c *Config) {
		if maxTokens < 1 {
			maxTokens = 1
		}
		c.MaxTokens = maxTokens
	}
}

func SetTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

func SetMaxRetries(maxRetries int) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = maxRetries
	}
}

func SetRetryDelay(retryDelay time.Duration) ConfigOption {
	return func(c *Config) {
		c.RetryDelay = retryDelay
	}
}

func SetRateLimit(window time.Duration, limit int) ConfigOption {
	return func(c *Config) {
		c.RateWindow = window
		c.RateLimit = limit
	}
}

func SetLogLevel(level logging.LogLevel) ConfigOption {
	return func(c *Config) {
		c.LogLevel = level
	}
}
