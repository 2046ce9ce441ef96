package notifier

import (
	"context"
	"net/http"
	"time"
)

// discordContentLimit is the maximum length of a Discord message body.
const discordContentLimit = 2000

// DiscordConfig holds the Discord webhook settings.
type DiscordConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

// DiscordNotifier posts messages to a Discord webhook.
type DiscordNotifier struct {
	config     DiscordConfig
	httpClient *http.Client
}

type discordPayload struct {
	Content string `json:"content"`
}

// NewDiscordNotifier creates a new DiscordNotifier with the specified configuration.
//
// The notifier is initialized with an HTTP client using the configured
// timeout. A zero timeout means 10s.
//
// Parameters:
//   - config: Discord configuration including webhook URL and timeout
//
// Returns:
//   - *DiscordNotifier: Configured Discord notifier instance
func NewDiscordNotifier(config DiscordConfig) *DiscordNotifier {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &DiscordNotifier{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// Post sends message as the content of one Discord message. Messages over the
// Discord limit are truncated.
func (d *DiscordNotifier) Post(ctx context.Context, message string) error {
	payload := discordPayload{Content: truncateMessage(message, discordContentLimit, "...")}
	return postJSON(ctx, d.httpClient, "discord", d.config.WebhookURL, payload)
}
