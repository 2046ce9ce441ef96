package notify

import "errors"

// Sentinel errors for notify use case operations.
var (
	// ErrChannelDisabled indicates that Send was called on a disabled channel.
	ErrChannelDisabled = errors.New("channel is disabled")

	// ErrEmptyMessage indicates that there was nothing to deliver: no chunks,
	// or only blank ones.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrNoChannels indicates that no delivery channel is enabled.
	ErrNoChannels = errors.New("no delivery channel is enabled")
)
