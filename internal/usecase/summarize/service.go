// Package summarize turns extracted text into a model-written summary, or into a
// model-written apology when there is nothing to summarize.
package summarize

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"digestbot/internal/observability/tracing"
	"digestbot/internal/utils/text"
)

// Completer sends one prompt to a language model and returns its reply. It never
// fails: implementations return a fixed fallback text instead.
type Completer interface {
	Complete(ctx context.Context, prompt string) string
}

// Subject names the kind of content being summarized.
type Subject int

const (
	// Transcript is a video transcript.
	Transcript Subject = iota
	// Article is the text of a webpage.
	Article
)

// Reasons passed to Explain.
const (
	ReasonNoTranscript = "no transcript is available"
	ReasonNoWebContent = "the webpage content could not be retrieved"
	ReasonInvalidVideo = "the provided YouTube URL is invalid"
)

// MissingReason is the reason explained to the user when the subject has no text.
func (s Subject) MissingReason() string {
	if s == Article {
		return ReasonNoWebContent
	}
	return ReasonNoTranscript
}

func (s Subject) String() string {
	if s == Article {
		return "article"
	}
	return "transcript"
}

const summaryPrompt = "Please summarize the following article. Give it a title and use bullet points when necessary:\n\n"

const errorPromptFormat = "Please generate a friendly error message explaining that there was an error processing " +
	"the request because %s, and do not respond further."

// Service builds prompts and forwards them to a Completer.
type Service struct {
	completer     Completer
	contextLength int
}

// NewService returns a Service. contextLength is the model's context window in
// tokens; longer inputs are logged but still sent.
func NewService(completer Completer, contextLength int) *Service {
	return &Service{completer: completer, contextLength: contextLength}
}

// SummaryPrompt builds the summarization prompt for content, asking for the
// target language when one is given.
func SummaryPrompt(content, targetLang string) string {
	prompt := summaryPrompt + content
	if targetLang != "" {
		prompt += fmt.Sprintf("\n\nWrite the article in %s.", targetLang)
	}
	return prompt
}

// ErrorPrompt builds the prompt asking the model to explain a failure.
func ErrorPrompt(reason string) string {
	return fmt.Sprintf(errorPromptFormat, reason)
}

// Summarize returns a summary of content. Empty content is never sent for
// summarization; the subject's missing-content reason is explained instead.
// The completer's reply is returned verbatim.
func (s *Service) Summarize(ctx context.Context, subject Subject, content, targetLang string) string {
	ctx, span := tracing.GetTracer().Start(ctx, "summarize.Summarize")
	defer span.End()
	span.SetAttributes(
		attribute.String("summary.subject", subject.String()),
		attribute.Int("summary.input_length", text.CountRunes(content)),
	)

	if content == "" {
		span.SetAttributes(attribute.Bool("summary.explained", true))
		return s.Explain(ctx, subject.MissingReason())
	}

	if s.contextLength > 0 {
		// Rough estimate of four characters per token.
		if estimated := text.CountRunes(content) / 4; estimated > s.contextLength {
			slog.WarnContext(ctx, "input may exceed the model context length",
				slog.String("subject", subject.String()),
				slog.Int("estimated_tokens", estimated),
				slog.Int("context_length", s.contextLength))
		}
	}

	slog.InfoContext(ctx, "summarizing content",
		slog.String("subject", subject.String()),
		slog.Int("input_length", text.CountRunes(content)),
		slog.String("target_language", targetLang))

	return s.completer.Complete(ctx, SummaryPrompt(content, targetLang))
}

// Explain asks the model for a friendly message explaining that the request
// failed because of reason.
func (s *Service) Explain(ctx context.Context, reason string) string {
	slog.InfoContext(ctx, "explaining failed request", slog.String("reason", reason))
	return s.completer.Complete(ctx, ErrorPrompt(reason))
}
