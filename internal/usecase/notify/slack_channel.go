package notify

import (
	"context"
	"fmt"
	"time"

	"digestbot/internal/infra/notifier"
)

// SlackChannel adapts a Slack incoming webhook notifier to the Channel
// interface.
type SlackChannel struct {
	notifier notifier.Notifier
	enabled  bool
}

// NewSlackChannel creates a Slack channel for webhookURL. An empty URL yields a
// disabled channel.
func NewSlackChannel(webhookURL string, timeout time.Duration) *SlackChannel {
	if webhookURL == "" {
		return &SlackChannel{notifier: notifier.NoOpNotifier{}}
	}
	return &SlackChannel{
		notifier: notifier.NewSlackNotifier(notifier.SlackConfig{
			WebhookURL: webhookURL,
			Timeout:    timeout,
		}),
		enabled: true,
	}
}

// Name returns "slack".
func (c *SlackChannel) Name() string {
	return "slack"
}

// IsEnabled reports whether a webhook URL was configured.
func (c *SlackChannel) IsEnabled() bool {
	return c.enabled
}

// Send posts message to the Slack webhook.
func (c *SlackChannel) Send(ctx context.Context, message string) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	if err := c.notifier.Post(ctx, message); err != nil {
		return fmt.Errorf("slack: %w", err)
	}
	return nil
}
