// Package digest wires extraction, summarization and formatting into the two
// request pipelines: YouTube video to chat chunks, and webpage to chat chunks.
//
// Every pipeline returns text. Failures along the way become model-written
// explanations or the completion fallback message, never errors.
package digest

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"digestbot/internal/observability/logging"
	"digestbot/internal/observability/tracing"
	"digestbot/internal/usecase/summarize"
	"digestbot/internal/utils/text"
)

// ErrDeliveryDisabled is returned by Deliver when no Deliverer was configured.
var ErrDeliveryDisabled = errors.New("delivery is not configured")

// VideoIDParser extracts a video id from a URL or bare id.
type VideoIDParser func(raw string) (string, bool)

// TranscriptExtractor returns the transcript text of a video.
type TranscriptExtractor interface {
	Extract(ctx context.Context, videoID, targetLang string) (string, bool)
}

// ArticleExtractor returns the article text of a webpage.
type ArticleExtractor interface {
	Extract(ctx context.Context, url string) (string, bool)
}

// Summarizer writes summaries and failure explanations.
type Summarizer interface {
	Summarize(ctx context.Context, subject summarize.Subject, content, targetLang string) string
	Explain(ctx context.Context, reason string) string
}

// Deliverer posts chunks to chat channels.
type Deliverer interface {
	Deliver(ctx context.Context, chunks []string) error
}

// Deps are the collaborators of a Service. Deliverer may be nil.
type Deps struct {
	ParseVideoID VideoIDParser
	Transcripts  TranscriptExtractor
	Articles     ArticleExtractor
	Summarizer   Summarizer
	Formatter    text.Formatter
	Deliverer    Deliverer
}

// Service runs the digest pipelines.
type Service struct {
	deps Deps
}

// NewService creates a Service from deps.
func NewService(deps Deps) *Service {
	return &Service{deps: deps}
}

// YouTube summarizes the video at rawURL and returns the formatted chunks.
func (s *Service) YouTube(ctx context.Context, rawURL, targetLang string) []string {
	return s.deps.Formatter.Split(s.YouTubeSummary(ctx, rawURL, targetLang))
}

// YouTubeSummary returns the formatted, unsplit summary of the video at rawURL.
// An unrecognized URL is explained without touching the transcript source.
func (s *Service) YouTubeSummary(ctx context.Context, rawURL, targetLang string) string {
	ctx = logging.EnsureRequestID(ctx)
	ctx, span := tracing.GetTracer().Start(ctx, "digest.YouTube")
	defer span.End()

	logger := logging.FromContext(ctx)

	videoID, ok := s.deps.ParseVideoID(rawURL)
	if !ok {
		span.SetAttributes(attribute.Bool("video.invalid_url", true))
		logger.WarnContext(ctx, "invalid YouTube URL", slog.String("url", rawURL))
		return text.DowngradeHeadings(s.deps.Summarizer.Explain(ctx, summarize.ReasonInvalidVideo))
	}
	span.SetAttributes(attribute.String("video.id", videoID))

	transcript, found := s.deps.Transcripts.Extract(ctx, videoID, targetLang)
	if !found {
		transcript = ""
	}

	summary := s.deps.Summarizer.Summarize(ctx, summarize.Transcript, transcript, targetLang)
	logger.InfoContext(ctx, "video summarized",
		slog.String("video_id", videoID),
		slog.Bool("transcript_found", found),
		slog.Int("summary_length", text.CountRunes(summary)))
	return text.DowngradeHeadings(summary)
}

// Web summarizes the article at url and returns the formatted chunks.
func (s *Service) Web(ctx context.Context, url, targetLang string) []string {
	return s.deps.Formatter.Split(s.WebSummary(ctx, url, targetLang))
}

// WebSummary returns the formatted, unsplit summary of the article at url.
func (s *Service) WebSummary(ctx context.Context, url, targetLang string) string {
	ctx = logging.EnsureRequestID(ctx)
	ctx, span := tracing.GetTracer().Start(ctx, "digest.Web")
	defer span.End()
	span.SetAttributes(attribute.String("http.url", url))

	content, found := s.deps.Articles.Extract(ctx, url)
	if !found {
		content = ""
	}

	summary := s.deps.Summarizer.Summarize(ctx, summarize.Article, content, targetLang)
	logging.FromContext(ctx).InfoContext(ctx, "webpage summarized",
		slog.String("url", url),
		slog.Bool("content_found", found),
		slog.Int("summary_length", text.CountRunes(summary)))
	return text.DowngradeHeadings(summary)
}

// Deliver posts chunks through the configured Deliverer.
func (s *Service) Deliver(ctx context.Context, chunks []string) error {
	if s.deps.Deliverer == nil {
		return ErrDeliveryDisabled
	}
	return s.deps.Deliverer.Deliver(ctx, chunks)
}
