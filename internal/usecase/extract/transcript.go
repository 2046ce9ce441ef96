package extract

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"digestbot/internal/domain/entity"
	"digestbot/internal/observability/tracing"
)

// TranscriptExtractor produces the plain text of a video's captions.
type TranscriptExtractor struct {
	source TranscriptSource
}

// NewTranscriptExtractor returns an extractor backed by source.
func NewTranscriptExtractor(source TranscriptSource) *TranscriptExtractor {
	return &TranscriptExtractor{source: source}
}

// Extract returns the transcript of videoID as fragments joined by single spaces
// in chronological order.
//
// The lookup first asks for targetLang (or the default track when targetLang is
// empty). If no track matches, it lists the available tracks and retries with
// every listed language code in listing order. Any other failure, an empty
// listing, or a transcript without text yields ("", false).
func (e *TranscriptExtractor) Extract(ctx context.Context, videoID, targetLang string) (string, bool) {
	ctx, span := tracing.GetTracer().Start(ctx, "extract.Transcript")
	defer span.End()
	span.SetAttributes(
		attribute.String("video.id", videoID),
		attribute.String("transcript.language", targetLang),
	)

	text, ok := e.extract(ctx, videoID, targetLang)
	span.SetAttributes(attribute.Bool("transcript.found", ok))
	recordExtraction("transcript", ok)
	return text, ok
}

func (e *TranscriptExtractor) extract(ctx context.Context, videoID, targetLang string) (string, bool) {
	var languages []string
	if targetLang != "" {
		languages = []string{targetLang}
	}

	transcript, err := e.source.FetchTranscript(ctx, videoID, languages)
	if err == nil {
		return transcriptText(ctx, videoID, transcript)
	}
	if !errors.Is(err, ErrNoTranscriptFound) {
		slog.WarnContext(ctx, "transcript unavailable",
			slog.String("video_id", videoID),
			slog.String("language", targetLang),
			slog.Any("error", err))
		return "", false
	}

	slog.InfoContext(ctx, "no transcript in requested language, trying every listed language",
		slog.String("video_id", videoID),
		slog.String("language", targetLang))
	transcriptFallbackTotal.Inc()

	tracks, err := e.source.ListTracks(ctx, videoID)
	if err != nil {
		slog.WarnContext(ctx, "failed to list transcript tracks",
			slog.String("video_id", videoID),
			slog.Any("error", err))
		return "", false
	}
	codes := entity.LanguageCodes(tracks)
	if len(codes) == 0 {
		slog.WarnContext(ctx, "video lists no transcript tracks",
			slog.String("video_id", videoID))
		return "", false
	}

	transcript, err = e.source.FetchTranscript(ctx, videoID, codes)
	if err != nil {
		slog.WarnContext(ctx, "transcript fallback failed",
			slog.String("video_id", videoID),
			slog.Any("languages", codes),
			slog.Any("error", err))
		return "", false
	}
	return transcriptText(ctx, videoID, transcript)
}

func transcriptText(ctx context.Context, videoID string, transcript entity.Transcript) (string, bool) {
	text := transcript.Text()
	if text == "" {
		slog.WarnContext(ctx, "transcript has no text",
			slog.String("video_id", videoID),
			slog.Int("fragments", len(transcript)))
		return "", false
	}
	slog.DebugContext(ctx, "transcript extracted",
		slog.String("video_id", videoID),
		slog.Int("fragments", len(transcript)),
		slog.Int("length", len([]rune(text))))
	return text, true
}
