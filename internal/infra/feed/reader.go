// Package feed reads RSS and Atom feeds with gofeed.
package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"digestbot/internal/domain/entity"
)

// DefaultUserAgent is sent with every feed request.
const DefaultUserAgent = "DigestBot/1.0"

// Reader fetches and parses feeds over HTTP.
type Reader struct {
	client    *http.Client
	userAgent string
}

// NewReader creates a Reader using client. A nil client gets a 30s timeout.
func NewReader(client *http.Client) *Reader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Reader{client: client, userAgent: DefaultUserAgent}
}

// Read fetches feedURL and returns its title and entries in document order.
// Entries without a publication date keep a nil Published.
func (r *Reader) Read(ctx context.Context, feedURL string) (entity.ParsedFeed, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = r.userAgent
	fp.Client = r.client

	parsed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return entity.ParsedFeed{}, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	entries := make([]entity.FeedEntry, 0, len(parsed.Items))
	for _, it := range parsed.Items {
		if it == nil {
			continue
		}
		published := it.PublishedParsed
		if published == nil {
			published = it.UpdatedParsed
		}
		entries = append(entries, entity.FeedEntry{
			Title:     strings.TrimSpace(it.Title),
			Link:      strings.TrimSpace(it.Link),
			Published: published,
		})
	}

	return entity.ParsedFeed{
		Title:   strings.TrimSpace(parsed.Title),
		Entries: entries,
	}, nil
}
