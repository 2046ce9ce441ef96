package notify

import (
	"context"
	"fmt"
	"time"

	"digestbot/internal/infra/notifier"
)

// DiscordChannel adapts a Discord webhook notifier to the Channel interface.
// An empty webhook URL yields a disabled channel backed by a NoOpNotifier.
type DiscordChannel struct {
	notifier notifier.Notifier
	enabled  bool
}

// NewDiscordChannel creates a Discord channel for webhookURL.
func NewDiscordChannel(webhookURL string, timeout time.Duration) *DiscordChannel {
	if webhookURL == "" {
		return &DiscordChannel{notifier: notifier.NoOpNotifier{}}
	}
	return &DiscordChannel{
		notifier: notifier.NewDiscordNotifier(notifier.DiscordConfig{
			WebhookURL: webhookURL,
			Timeout:    timeout,
		}),
		enabled: true,
	}
}

// Name returns "discord".
func (c *DiscordChannel) Name() string {
	return "discord"
}

// IsEnabled reports whether a webhook URL was configured.
func (c *DiscordChannel) IsEnabled() bool {
	return c.enabled
}

// Send posts message to the Discord webhook.
func (c *DiscordChannel) Send(ctx context.Context, message string) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	if err := c.notifier.Post(ctx, message); err != nil {
		return fmt.Errorf("discord: %w", err)
	}
	return nil
}
