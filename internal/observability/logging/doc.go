// Package logging builds the process logger and carries request ids through
// contexts.
//
// Every log call made with a context (slog.InfoContext and friends) picks up the
// request id stored in that context, so one digest request can be followed from
// extraction through delivery.
//
//	logger := logging.NewLogger(logging.Options{Level: "debug", Format: "text"})
//	slog.SetDefault(logger)
//
//	ctx = logging.WithRequestID(ctx, logging.NewRequestID())
//	slog.InfoContext(ctx, "summarizing video", slog.String("video_id", id))
package logging
