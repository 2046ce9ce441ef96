package notifier

import (
	"context"
	"net/http"
	"time"
)

// slackTextLimit is the maximum length of the text field of a Slack message.
const slackTextLimit = 40000

// SlackConfig holds the Slack incoming webhook settings.
type SlackConfig struct {
	WebhookURL string
	Timeout    time.Duration
}

// SlackNotifier posts messages to a Slack incoming webhook.
type SlackNotifier struct {
	config     SlackConfig
	httpClient *http.Client
}

type slackPayload struct {
	Text string `json:"text"`
}

// NewSlackNotifier creates a new SlackNotifier with the specified configuration.
//
// The notifier is initialized with an HTTP client using the configured
// timeout. A zero timeout means 10s.
//
// Parameters:
//   - config: Slack configuration including webhook URL and timeout
//
// Returns:
//   - *SlackNotifier: Configured Slack notifier instance
func NewSlackNotifier(config SlackConfig) *SlackNotifier {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &SlackNotifier{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

// Post sends message as the text of one Slack message.
func (s *SlackNotifier) Post(ctx context.Context, message string) error {
	payload := slackPayload{Text: truncateMessage(message, slackTextLimit, "...")}
	return postJSON(ctx, s.httpClient, "slack", s.config.WebhookURL, payload)
}
