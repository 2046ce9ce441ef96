// Package notifier posts plain chat messages to Discord and Slack webhooks.
//
// Each notifier sends exactly one HTTP request per message. Non-2xx responses
// are classified into ClientError, ServerError or RateLimitError so callers can
// tell a bad webhook URL from a temporary outage. Nothing is retried.
package notifier

import "context"

// Notifier posts a single message to a chat service.
type Notifier interface {
	// Post sends message as one chat message.
	Post(ctx context.Context, message string) error
}
