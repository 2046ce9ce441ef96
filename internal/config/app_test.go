package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digestbot/internal/config"
)

var appEnvVars = []string{
	"EXO_API_ENDPOINT", "EXO_MODEL", "EXO_TEMPERATURE", "CONTEXT_LENGTH",
	"EXO_API_KEY", "COMPLETION_TIMEOUT", "MAX_RESPONSE_LENGTH",
	"DISCORD_WEBHOOK_URL", "SLACK_WEBHOOK_URL", "NOTIFY_TIMEOUT",
	"FEEDS_FILE", "RSS_POLL_INTERVAL", "LOG_LEVEL", "LOG_FORMAT", "METRICS_PORT",
}

// clearAppEnvVars blanks every variable read by LoadAppConfig for the duration
// of the test.
func clearAppEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range appEnvVars {
		t.Setenv(key, "")
	}
}

func TestLoadAppConfig_Defaults(t *testing.T) {
	clearAppEnvVars(t)
	t.Setenv("EXO_API_ENDPOINT", "http://localhost:52415")

	cfg, err := config.LoadAppConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:52415", cfg.Completion.Endpoint)
	assert.Equal(t, "llama-3.1-8b", cfg.Completion.Model)
	assert.InDelta(t, 0.7, cfg.Completion.Temperature, 1e-9)
	assert.Equal(t, 10000, cfg.Completion.ContextLength)
	assert.Empty(t, cfg.Completion.APIKey)
	assert.Equal(t, 120*time.Second, cfg.Completion.Timeout)
	assert.Equal(t, 1500, cfg.Message.ChunkSize)
	assert.Empty(t, cfg.Notify.DiscordWebhookURL)
	assert.Empty(t, cfg.Notify.SlackWebhookURL)
	assert.Equal(t, 10*time.Second, cfg.Notify.Timeout)
	assert.Equal(t, 60*time.Second, cfg.Feeds.PollInterval)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.MetricsPort)
}

func TestLoadAppConfig_Overrides(t *testing.T) {
	clearAppEnvVars(t)
	t.Setenv("EXO_API_ENDPOINT", "https://llm.internal")
	t.Setenv("EXO_MODEL", "qwen2.5")
	t.Setenv("EXO_TEMPERATURE", "0.2")
	t.Setenv("CONTEXT_LENGTH", "32000")
	t.Setenv("COMPLETION_TIMEOUT", "45")
	t.Setenv("MAX_RESPONSE_LENGTH", "2000")
	t.Setenv("DISCORD_WEBHOOK_URL", "https://discord.com/api/webhooks/1/abc")
	t.Setenv("RSS_POLL_INTERVAL", "5m")

	cfg, err := config.LoadAppConfig()
	require.NoError(t, err)

	assert.Equal(t, "qwen2.5", cfg.Completion.Model)
	assert.InDelta(t, 0.2, cfg.Completion.Temperature, 1e-9)
	assert.Equal(t, 32000, cfg.Completion.ContextLength)
	assert.Equal(t, 45*time.Second, cfg.Completion.Timeout)
	assert.Equal(t, 2000, cfg.Message.ChunkSize)
	assert.Equal(t, "https://discord.com/api/webhooks/1/abc", cfg.Notify.DiscordWebhookURL)
	assert.Equal(t, 5*time.Minute, cfg.Feeds.PollInterval)
}

func TestLoadAppConfig_MissingEndpoint(t *testing.T) {
	clearAppEnvVars(t)

	_, err := config.LoadAppConfig()
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrMissingEndpoint))
}

func TestLoadAppConfig_InvalidValueFallsBackToDefault(t *testing.T) {
	clearAppEnvVars(t)
	t.Setenv("EXO_API_ENDPOINT", "http://localhost:52415")
	t.Setenv("EXO_TEMPERATURE", "warm")
	t.Setenv("MAX_RESPONSE_LENGTH", "lots")

	cfg, err := config.LoadAppConfig()
	require.NoError(t, err)
	assert.InDelta(t, 0.7, cfg.Completion.Temperature, 1e-9)
	assert.Equal(t, 1500, cfg.Message.ChunkSize)
}

func TestAppConfig_Validate(t *testing.T) {
	valid := func() config.AppConfig {
		return config.AppConfig{
			Completion: config.CompletionConfig{
				Endpoint:      "http://localhost:52415",
				Model:         "llama-3.1-8b",
				Temperature:   0.7,
				ContextLength: 10000,
				Timeout:       time.Minute,
			},
			Message:     config.MessageConfig{ChunkSize: 1500},
			Notify:      config.NotifyConfig{Timeout: 10 * time.Second},
			Feeds:       config.FeedsConfig{PollInterval: time.Minute},
			MetricsPort: 9090,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.AppConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(*config.AppConfig) {}},
		{
			name:    "endpoint without scheme",
			mutate:  func(c *config.AppConfig) { c.Completion.Endpoint = "localhost:52415" },
			wantErr: "EXO_API_ENDPOINT",
		},
		{
			name:    "temperature too high",
			mutate:  func(c *config.AppConfig) { c.Completion.Temperature = 2.5 },
			wantErr: "EXO_TEMPERATURE",
		},
		{
			name:    "negative temperature",
			mutate:  func(c *config.AppConfig) { c.Completion.Temperature = -0.1 },
			wantErr: "EXO_TEMPERATURE",
		},
		{
			name:    "zero context length",
			mutate:  func(c *config.AppConfig) { c.Completion.ContextLength = 0 },
			wantErr: "CONTEXT_LENGTH",
		},
		{
			name:    "zero completion timeout",
			mutate:  func(c *config.AppConfig) { c.Completion.Timeout = 0 },
			wantErr: "COMPLETION_TIMEOUT",
		},
		{
			name:    "zero chunk size",
			mutate:  func(c *config.AppConfig) { c.Message.ChunkSize = 0 },
			wantErr: "MAX_RESPONSE_LENGTH",
		},
		{
			name:    "bad slack webhook",
			mutate:  func(c *config.AppConfig) { c.Notify.SlackWebhookURL = "ftp://hooks.slack.com/x" },
			wantErr: "SLACK_WEBHOOK_URL",
		},
		{
			name:    "poll interval too short",
			mutate:  func(c *config.AppConfig) { c.Feeds.PollInterval = time.Second },
			wantErr: "RSS_POLL_INTERVAL",
		},
		{
			name:    "metrics port out of range",
			mutate:  func(c *config.AppConfig) { c.MetricsPort = 70000 },
			wantErr: "METRICS_PORT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	const key = "DIGESTBOT_DOTENV_PROBE"
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0o600))

	require.NoError(t, config.LoadDotEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv(key))
}

func TestLoadDotEnv_DoesNotOverrideEnvironment(t *testing.T) {
	const key = "DIGESTBOT_DOTENV_PROBE"
	t.Setenv(key, "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=from-dotenv\n"), 0o600))

	require.NoError(t, config.LoadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv(key))
}

func TestLoadDotEnv_MissingFileIsIgnored(t *testing.T) {
	assert.NoError(t, config.LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
