// Package notify delivers formatted digest chunks to chat channels.
//
// A Service holds the configured channels and posts every chunk, in order, to
// each enabled one. Delivery is sequential and never retried; a channel that
// fails on one chunk is skipped for the rest of that delivery so readers never
// see a summary with a hole in the middle.
package notify

import "context"

// Channel is a chat destination such as a Discord or Slack webhook.
type Channel interface {
	// Name returns the lowercase channel identifier used in logs and metrics.
	Name() string

	// IsEnabled reports whether the channel is configured.
	IsEnabled() bool

	// Send posts one message. It returns ErrChannelDisabled when the channel is
	// not configured.
	Send(ctx context.Context, message string) error
}
