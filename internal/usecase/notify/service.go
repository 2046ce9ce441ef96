package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"digestbot/internal/observability/logging"
	"digestbot/internal/observability/tracing"
)

// Service delivers chunk sequences to every enabled channel.
type Service struct {
	channels []Channel
}

// NewService creates a delivery service over channels. Disabled channels are
// kept so that Channels can report them.
func NewService(channels ...Channel) *Service {
	enabled := 0
	for _, ch := range channels {
		if ch.IsEnabled() {
			enabled++
		}
	}
	SetChannelsEnabled(enabled)

	return &Service{channels: channels}
}

// Channels returns the names of the enabled channels.
func (s *Service) Channels() []string {
	names := make([]string, 0, len(s.channels))
	for _, ch := range s.channels {
		if ch.IsEnabled() {
			names = append(names, ch.Name())
		}
	}
	return names
}

// Deliver posts chunks, in order, to every enabled channel. Blank chunks are
// skipped. When a channel fails, the remaining chunks are not sent to that
// channel but delivery to the other channels continues. The returned error
// joins every channel failure.
func (s *Service) Deliver(ctx context.Context, chunks []string) error {
	ctx = logging.EnsureRequestID(ctx)
	ctx, span := tracing.GetTracer().Start(ctx, "notify.Deliver")
	defer span.End()

	messages := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if strings.TrimSpace(c) != "" {
			messages = append(messages, c)
		}
	}
	blank := len(chunks) - len(messages)

	span.SetAttributes(
		attribute.Int("notify.chunks", len(messages)),
		attribute.Int("notify.blank_chunks", blank),
	)

	if len(messages) == 0 {
		return ErrEmptyMessage
	}

	enabled := s.enabledChannels()
	if len(enabled) == 0 {
		return ErrNoChannels
	}

	logger := logging.FromContext(ctx)
	var errs []error
	for _, ch := range enabled {
		if blank > 0 {
			RecordDropped(ch.Name(), "blank", blank)
		}
		if err := s.sendAll(ctx, ch, messages); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		tracing.RecordError(span, err)
		return err
	}

	logger.InfoContext(ctx, "digest delivered",
		slog.Int("chunks", len(messages)),
		slog.Int("channels", len(enabled)))
	return nil
}

func (s *Service) enabledChannels() []Channel {
	enabled := make([]Channel, 0, len(s.channels))
	for _, ch := range s.channels {
		if ch.IsEnabled() {
			enabled = append(enabled, ch)
		}
	}
	return enabled
}

// sendAll posts messages to ch one at a time and stops at the first failure.
func (s *Service) sendAll(ctx context.Context, ch Channel, messages []string) error {
	logger := logging.FromContext(ctx)

	for i, msg := range messages {
		if err := ctx.Err(); err != nil {
			RecordDropped(ch.Name(), "aborted", len(messages)-i)
			return fmt.Errorf("%s: chunk %d/%d: %w", ch.Name(), i+1, len(messages), err)
		}

		RecordDispatch(ch.Name())
		start := time.Now()
		err := ch.Send(ctx, msg)
		duration := time.Since(start)

		if err != nil {
			RecordFailure(ch.Name(), duration)
			RecordDropped(ch.Name(), "aborted", len(messages)-i-1)
			logger.WarnContext(ctx, "chunk delivery failed",
				slog.String("channel", ch.Name()),
				slog.Int("chunk", i+1),
				slog.Int("total", len(messages)),
				slog.Duration("send_duration", duration),
				slog.Any("error", err))
			return fmt.Errorf("chunk %d/%d: %w", i+1, len(messages), err)
		}

		RecordSuccess(ch.Name(), duration)
		logger.DebugContext(ctx, "chunk delivered",
			slog.String("channel", ch.Name()),
			slog.Int("chunk", i+1),
			slog.Int("total", len(messages)),
			slog.Duration("send_duration", duration))
	}
	return nil
}
