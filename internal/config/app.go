// Package config assembles the process configuration from the environment.
//
// The configuration is read once at startup, validated, and then passed by value
// to the constructors that need it. Values that fail to parse fall back to their
// defaults with a warning; values that parse but are out of range fail Validate.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"

	envconfig "digestbot/pkg/config"
)

// ErrMissingEndpoint is returned when EXO_API_ENDPOINT is not configured.
var ErrMissingEndpoint = errors.New("EXO_API_ENDPOINT is required")

// CompletionConfig holds the settings of the chat completion endpoint.
type CompletionConfig struct {
	// Endpoint is the base URL of the OpenAI-compatible server, without /v1.
	Endpoint string
	// Model is the model name sent with every request.
	Model string
	// Temperature is the sampling temperature (0.0 to 2.0).
	Temperature float64
	// ContextLength is the model's context window in tokens. Informational only.
	ContextLength int
	// APIKey is sent as a bearer token when set. Local servers usually need none.
	APIKey string
	// Timeout bounds a single completion request.
	Timeout time.Duration
}

// MessageConfig holds the settings of the chat message formatter.
type MessageConfig struct {
	// ChunkSize is the maximum message length in runes.
	ChunkSize int
}

// NotifyConfig holds the delivery webhook settings. An empty URL disables the
// matching channel.
type NotifyConfig struct {
	DiscordWebhookURL string
	SlackWebhookURL   string
	Timeout           time.Duration
}

// FeedsConfig holds the feed watcher settings.
type FeedsConfig struct {
	// File is an optional YAML file listing the feeds to watch at startup.
	File string
	// PollInterval is the time between two polls of every watched feed.
	PollInterval time.Duration
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string
	Format string
}

// AppConfig is the complete process configuration.
type AppConfig struct {
	Completion CompletionConfig
	Message    MessageConfig
	Notify     NotifyConfig
	Feeds      FeedsConfig
	Log        LogConfig
	// MetricsPort is the port of the worker's /metrics and /health server.
	MetricsPort int
}

const (
	defaultModel         = "llama-3.1-8b"
	defaultTemperature   = 0.7
	defaultContextLength = 10000
	defaultCompletionTTL = 120 * time.Second
	defaultChunkSize     = 1500
	defaultNotifyTimeout = 10 * time.Second
	defaultPollInterval  = 60 * time.Second
	defaultMetricsPort   = 9090

	minPollInterval = 10 * time.Second
	maxPollInterval = 24 * time.Hour
)

// LoadDotEnv loads variables from the given .env files into the environment.
// Variables already set in the environment win. Missing files are ignored so
// that deployments without a .env file keep working.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			slog.Debug("no .env file found", slog.String("path", p))
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// LoadAppConfig reads the configuration from environment variables and validates
// it. Call LoadDotEnv first when a .env file should be honoured.
func LoadAppConfig() (AppConfig, error) {
	cfg := AppConfig{
		Completion: CompletionConfig{
			Endpoint:      envconfig.GetEnvString("EXO_API_ENDPOINT", ""),
			Model:         envconfig.GetEnvString("EXO_MODEL", defaultModel),
			Temperature:   envconfig.GetEnvFloat("EXO_TEMPERATURE", defaultTemperature),
			ContextLength: envconfig.GetEnvInt("CONTEXT_LENGTH", defaultContextLength),
			APIKey:        envconfig.GetEnvString("EXO_API_KEY", ""),
			Timeout:       envconfig.GetEnvDuration("COMPLETION_TIMEOUT", defaultCompletionTTL),
		},
		Message: MessageConfig{
			ChunkSize: envconfig.GetEnvInt("MAX_RESPONSE_LENGTH", defaultChunkSize),
		},
		Notify: NotifyConfig{
			DiscordWebhookURL: envconfig.GetEnvString("DISCORD_WEBHOOK_URL", ""),
			SlackWebhookURL:   envconfig.GetEnvString("SLACK_WEBHOOK_URL", ""),
			Timeout:           envconfig.GetEnvDuration("NOTIFY_TIMEOUT", defaultNotifyTimeout),
		},
		Feeds: FeedsConfig{
			File:         envconfig.GetEnvString("FEEDS_FILE", ""),
			PollInterval: envconfig.GetEnvDuration("RSS_POLL_INTERVAL", defaultPollInterval),
		},
		Log: LogConfig{
			Level:  envconfig.GetEnvString("LOG_LEVEL", "info"),
			Format: envconfig.GetEnvString("LOG_FORMAT", "json"),
		},
		MetricsPort: envconfig.GetEnvInt("METRICS_PORT", defaultMetricsPort),
	}

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks every section of the configuration.
func (c AppConfig) Validate() error {
	if err := c.Completion.Validate(); err != nil {
		return err
	}
	if c.Message.ChunkSize < 1 {
		return fmt.Errorf("MAX_RESPONSE_LENGTH must be positive, got %d", c.Message.ChunkSize)
	}
	if err := c.Notify.Validate(); err != nil {
		return err
	}
	if err := envconfig.ValidateDurationRange(c.Feeds.PollInterval, minPollInterval, maxPollInterval); err != nil {
		return fmt.Errorf("RSS_POLL_INTERVAL: %w", err)
	}
	if c.MetricsPort < 1 || c.MetricsPort > 65535 {
		return fmt.Errorf("METRICS_PORT must be between 1 and 65535, got %d", c.MetricsPort)
	}
	return nil
}

// Validate checks the completion settings.
func (c CompletionConfig) Validate() error {
	if c.Endpoint == "" {
		return ErrMissingEndpoint
	}
	if err := validateHTTPURL(c.Endpoint); err != nil {
		return fmt.Errorf("EXO_API_ENDPOINT: %w", err)
	}
	if c.Model == "" {
		return errors.New("EXO_MODEL must not be empty")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("EXO_TEMPERATURE must be between 0.0 and 2.0, got %v", c.Temperature)
	}
	if c.ContextLength <= 0 {
		return fmt.Errorf("CONTEXT_LENGTH must be positive, got %d", c.ContextLength)
	}
	if err := envconfig.ValidatePositiveDuration(c.Timeout); err != nil {
		return fmt.Errorf("COMPLETION_TIMEOUT: %w", err)
	}
	return nil
}

// Validate checks the webhook settings.
func (c NotifyConfig) Validate() error {
	if c.DiscordWebhookURL != "" {
		if err := validateHTTPURL(c.DiscordWebhookURL); err != nil {
			return fmt.Errorf("DISCORD_WEBHOOK_URL: %w", err)
		}
	}
	if c.SlackWebhookURL != "" {
		if err := validateHTTPURL(c.SlackWebhookURL); err != nil {
			return fmt.Errorf("SLACK_WEBHOOK_URL: %w", err)
		}
	}
	if err := envconfig.ValidatePositiveDuration(c.Timeout); err != nil {
		return fmt.Errorf("NOTIFY_TIMEOUT: %w", err)
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("url has no host")
	}
	return nil
}
