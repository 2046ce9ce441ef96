package extract

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"digestbot/internal/observability/tracing"
)

// ArticleExtractor produces the cleaned text of a webpage.
type ArticleExtractor struct {
	fetcher ContentFetcher
}

// NewArticleExtractor returns an extractor backed by fetcher.
func NewArticleExtractor(fetcher ContentFetcher) *ArticleExtractor {
	return &ArticleExtractor{fetcher: fetcher}
}

// Extract fetches url and returns its article text. Any failure, and a page
// without text, yields ("", false).
func (e *ArticleExtractor) Extract(ctx context.Context, url string) (string, bool) {
	ctx, span := tracing.GetTracer().Start(ctx, "extract.Article")
	defer span.End()
	span.SetAttributes(attribute.String("url.full", url))

	text, err := e.fetcher.FetchContent(ctx, url)
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch webpage content",
			slog.String("url", url),
			slog.Any("error", err))
		recordExtraction("article", false)
		return "", false
	}
	if text == "" {
		slog.WarnContext(ctx, "webpage has no readable content", slog.String("url", url))
		recordExtraction("article", false)
		return "", false
	}

	recordExtraction("article", true)
	return text, true
}
