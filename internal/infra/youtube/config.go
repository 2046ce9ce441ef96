package youtube

import (
	"fmt"
	"time"

	"digestbot/pkg/config"
)

// Config holds the innertube client settings.
type Config struct {
	// BaseURL is the YouTube origin. Tests point it at an httptest server.
	BaseURL string
	// Timeout bounds every HTTP request made by the client.
	Timeout time.Duration
	// Language is the interface language (hl) sent in the client context. It
	// affects track display names only.
	Language string
	// MaxBodySize limits the size of player and caption responses in bytes.
	MaxBodySize int64
}

// DefaultConfig returns the production settings.
func DefaultConfig() Config {
	return Config{
		BaseURL:     "https://www.youtube.com",
		Timeout:     30 * time.Second,
		Language:    "en",
		MaxBodySize: 5 * 1024 * 1024,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("youtube base URL must not be empty")
	}
	if err := config.ValidatePositiveDuration(c.Timeout); err != nil {
		return fmt.Errorf("youtube timeout: %w", err)
	}
	if c.MaxBodySize <= 0 {
		return fmt.Errorf("youtube max body size must be positive, got %d", c.MaxBodySize)
	}
	return nil
}

// LoadConfigFromEnv reads YOUTUBE_BASE_URL, YOUTUBE_TIMEOUT, YOUTUBE_LANGUAGE and
// YOUTUBE_MAX_BODY_SIZE over the defaults. An invalid combination falls back to
// DefaultConfig with the validation error returned.
func LoadConfigFromEnv() (Config, error) {
	def := DefaultConfig()
	cfg := Config{
		BaseURL:     config.GetEnvString("YOUTUBE_BASE_URL", def.BaseURL),
		Timeout:     config.GetEnvDuration("YOUTUBE_TIMEOUT", def.Timeout),
		Language:    config.GetEnvString("YOUTUBE_LANGUAGE", def.Language),
		MaxBodySize: int64(config.GetEnvInt("YOUTUBE_MAX_BODY_SIZE", int(def.MaxBodySize))),
	}
	if err := cfg.Validate(); err != nil {
		return def, err
	}
	return cfg, nil
}
