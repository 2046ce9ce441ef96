package fetcher

import (
	"fmt"
	"strings"
	"time"

	"digestbot/pkg/config"
)

// Mode selects how the article body is located in a page.
type Mode string

const (
	// ModeDOM cleans the whole document.
	ModeDOM Mode = "dom"
	// ModeReadability isolates the main article node first and falls back to
	// ModeDOM when no article is found.
	ModeReadability Mode = "readability"
)

// DefaultUserAgent identifies the fetcher to the sites it reads.
const DefaultUserAgent = "DigestBot/1.0"

// ContentFetchConfig holds the configuration for webpage fetching.
//
// Security settings:
//   - DenyPrivateIPs: Prevents SSRF attacks by blocking private IP addresses
//   - MaxBodySize: Prevents memory exhaustion from oversized responses
//   - MaxRedirects: Prevents infinite redirect loops
//   - Timeout: Bounds a single fetch
type ContentFetchConfig struct {
	// Mode selects the extraction strategy.
	// Default: dom
	Mode Mode

	// Timeout is the maximum duration for a single HTTP request, redirects included.
	// Default: 10s
	Timeout time.Duration

	// MaxBodySize is the maximum HTTP response body size in bytes.
	// This is enforced during response reading, not based on Content-Length header.
	// Default: 10485760 (10MB)
	MaxBodySize int64

	// MaxRedirects is the maximum number of HTTP redirects to follow.
	// Each redirect target is validated like the requested URL.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs controls whether to block access to private IP addresses.
	// Should always be true in production.
	// Default: true
	DenyPrivateIPs bool

	// UserAgent is sent with every request.
	// Default: DigestBot/1.0
	UserAgent string
}

// DefaultConfig returns the default configuration for webpage fetching.
func DefaultConfig() ContentFetchConfig {
	return ContentFetchConfig{
		Mode:           ModeDOM,
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		UserAgent:      DefaultUserAgent,
	}
}

// Validate checks if the configuration values are valid and safe.
//
// Validation rules:
//   - Mode: dom or readability
//   - Timeout: > 0 (must have timeout)
//   - MaxBodySize: 1KB-100MB (prevent memory issues)
//   - MaxRedirects: 0-10 (reasonable redirect limit)
func (c *ContentFetchConfig) Validate() error {
	if c.Mode != ModeDOM && c.Mode != ModeReadability {
		return fmt.Errorf("mode must be %q or %q, got %q", ModeDOM, ModeReadability, c.Mode)
	}

	if err := config.ValidatePositiveDuration(c.Timeout); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	if strings.TrimSpace(c.UserAgent) == "" {
		return fmt.Errorf("user agent must not be empty")
	}

	return nil
}

// LoadConfigFromEnv loads configuration from environment variables.
// Unset or unparsable variables keep their default. The result is validated.
//
// Environment variables:
//   - ARTICLE_EXTRACTOR: "dom" or "readability" (default: dom)
//   - CONTENT_FETCH_TIMEOUT: duration, e.g. "10s" (default: 10s)
//   - CONTENT_FETCH_MAX_BODY_SIZE: integer in bytes (default: 10485760)
//   - CONTENT_FETCH_MAX_REDIRECTS: integer (default: 5)
//   - CONTENT_FETCH_DENY_PRIVATE_IPS: boolean (default: true)
//   - CONTENT_FETCH_USER_AGENT: string (default: DigestBot/1.0)
func LoadConfigFromEnv() (ContentFetchConfig, error) {
	def := DefaultConfig()
	cfg := ContentFetchConfig{
		Mode:           Mode(strings.ToLower(config.GetEnvString("ARTICLE_EXTRACTOR", string(def.Mode)))),
		Timeout:        config.GetEnvDuration("CONTENT_FETCH_TIMEOUT", def.Timeout),
		MaxBodySize:    int64(config.GetEnvInt("CONTENT_FETCH_MAX_BODY_SIZE", int(def.MaxBodySize))),
		MaxRedirects:   config.GetEnvInt("CONTENT_FETCH_MAX_REDIRECTS", def.MaxRedirects),
		DenyPrivateIPs: config.GetEnvBool("CONTENT_FETCH_DENY_PRIVATE_IPS", def.DenyPrivateIPs),
		UserAgent:      config.GetEnvString("CONTENT_FETCH_USER_AGENT", def.UserAgent),
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
