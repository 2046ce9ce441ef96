// Package feedwatch announces new RSS and Atom entries with a summary of the
// linked article.
//
// The watch list and the last seen publication time of every feed live in
// memory. Adding a feed marks everything already published as seen, so only
// entries published afterwards are announced.
package feedwatch

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"digestbot/internal/domain/entity"
	"digestbot/internal/observability/logging"
	"digestbot/internal/observability/tracing"
	"digestbot/internal/utils/text"
)

// NoSummaryMessage replaces a blank summary in an announcement.
const NoSummaryMessage = "Could not retrieve a summary for this article."

const announcementFormat = "📰 **New article from %s**\n**%s**\n%s\n\n%s"

// FeedReader fetches and parses a feed.
type FeedReader interface {
	Read(ctx context.Context, feedURL string) (entity.ParsedFeed, error)
}

// ArticleSummarizer returns the formatted summary of the article at url.
type ArticleSummarizer interface {
	WebSummary(ctx context.Context, url, targetLang string) string
}

// Deliverer posts announcement chunks.
type Deliverer interface {
	Deliver(ctx context.Context, chunks []string) error
}

// Report summarizes one Poll.
type Report struct {
	Feeds     int
	Failed    int
	Announced int
	// Undelivered counts announcements whose delivery failed. Their entries are
	// still marked as seen.
	Undelivered int
}

// Option customizes a Watcher.
type Option func(*Watcher)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(w *Watcher) { w.now = now }
}

// WithTargetLanguage sets the language summaries are written in.
func WithTargetLanguage(lang string) Option {
	return func(w *Watcher) { w.targetLang = lang }
}

// Watcher keeps the watch list and polls it.
type Watcher struct {
	reader     FeedReader
	summarizer ArticleSummarizer
	deliverer  Deliverer
	formatter  text.Formatter
	targetLang string
	now        func() time.Time

	mu    sync.Mutex
	feeds map[string]entity.Feed
}

// NewWatcher creates an empty Watcher.
func NewWatcher(reader FeedReader, summarizer ArticleSummarizer, deliverer Deliverer, formatter text.Formatter, opts ...Option) *Watcher {
	w := &Watcher{
		reader:     reader,
		summarizer: summarizer,
		deliverer:  deliverer,
		formatter:  formatter,
		now:        time.Now,
		feeds:      make(map[string]entity.Feed),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Add starts watching feedURL. See AddFeed.
func (w *Watcher) Add(ctx context.Context, feedURL string) (entity.Feed, error) {
	return w.AddFeed(ctx, entity.Feed{URL: feedURL})
}

// AddFeed reads the feed once and starts watching it. Unless feed.LastSeen is
// already set, its last seen time is the newest publication time in the feed,
// or now when no entry is dated. A configured Title takes precedence over the
// feed's own title. Adding a feed that is already watched resets its last seen
// time.
func (w *Watcher) AddFeed(ctx context.Context, feed entity.Feed) (entity.Feed, error) {
	feed.URL = strings.TrimSpace(feed.URL)
	if err := feed.Validate(); err != nil {
		return entity.Feed{}, err
	}

	parsed, err := w.reader.Read(ctx, feed.URL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to read feed",
			slog.String("url", feed.URL),
			slog.Any("error", err))
		return entity.Feed{}, fmt.Errorf("%w: %w", ErrFeedUnreadable, err)
	}

	if strings.TrimSpace(feed.Title) == "" {
		feed.Title = parsed.Title
	}
	if feed.LastSeen.IsZero() {
		if newest, ok := parsed.Newest(); ok {
			feed.LastSeen = newest
		} else {
			feed.LastSeen = w.now()
		}
	}

	w.mu.Lock()
	w.feeds[feed.URL] = feed
	feedsWatched.Set(float64(len(w.feeds)))
	w.mu.Unlock()

	slog.InfoContext(ctx, "feed added",
		slog.String("url", feed.URL),
		slog.String("title", feed.DisplayTitle()),
		slog.Time("last_seen", feed.LastSeen))
	return feed, nil
}

// Remove stops watching feedURL.
func (w *Watcher) Remove(feedURL string) error {
	feedURL = strings.TrimSpace(feedURL)

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.feeds[feedURL]; !ok {
		return ErrFeedNotWatched
	}
	delete(w.feeds, feedURL)
	feedsWatched.Set(float64(len(w.feeds)))

	slog.Info("feed removed", slog.String("url", feedURL))
	return nil
}

// List returns the watched feeds sorted by URL.
func (w *Watcher) List() []entity.Feed {
	w.mu.Lock()
	feeds := make([]entity.Feed, 0, len(w.feeds))
	for _, f := range w.feeds {
		feeds = append(feeds, f)
	}
	w.mu.Unlock()

	slices.SortFunc(feeds, func(a, b entity.Feed) int { return cmp.Compare(a.URL, b.URL) })
	return feeds
}

// Poll reads every watched feed once and announces the entries published
// after the feed's last seen time, oldest first. A feed that cannot be read
// is skipped until the next poll.
func (w *Watcher) Poll(ctx context.Context) Report {
	ctx = logging.EnsureRequestID(ctx)
	ctx, span := tracing.GetTracer().Start(ctx, "feedwatch.Poll")
	defer span.End()

	var report Report
	for _, feed := range w.List() {
		if ctx.Err() != nil {
			break
		}
		report.Feeds++

		announced, undelivered, err := w.pollFeed(ctx, feed)
		report.Announced += announced
		report.Undelivered += undelivered
		if err != nil {
			report.Failed++
			slog.ErrorContext(ctx, "failed to poll feed",
				slog.String("url", feed.URL),
				slog.Any("error", err))
		}
	}

	span.SetAttributes(
		attribute.Int("feeds.polled", report.Feeds),
		attribute.Int("feeds.failed", report.Failed),
		attribute.Int("feeds.announced", report.Announced),
	)
	slog.InfoContext(ctx, "feed poll finished",
		slog.Int("feeds", report.Feeds),
		slog.Int("failed", report.Failed),
		slog.Int("announced", report.Announced),
		slog.Int("undelivered", report.Undelivered))
	return report
}

func (w *Watcher) pollFeed(ctx context.Context, feed entity.Feed) (announced, undelivered int, err error) {
	parsed, err := w.reader.Read(ctx, feed.URL)
	recordPoll(err == nil)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrFeedUnreadable, err)
	}

	title := feed.Title
	if strings.TrimSpace(title) == "" {
		title = parsed.Title
	}
	display := entity.Feed{URL: feed.URL, Title: title}.DisplayTitle()

	fresh := newEntries(parsed.Entries, feed.LastSeen)
	lastSeen := feed.LastSeen
	for _, entry := range fresh {
		if ctx.Err() != nil {
			break
		}
		if !w.announce(ctx, display, entry) {
			if ctx.Err() != nil {
				// Cancelled mid-entry: leave it for the next poll.
				break
			}
			undelivered++
		}
		announced++
		lastSeen = *entry.Published
	}

	w.advance(feed.URL, lastSeen)
	return announced, undelivered, nil
}

// newEntries returns the dated entries published after lastSeen, oldest first.
func newEntries(entries []entity.FeedEntry, lastSeen time.Time) []entity.FeedEntry {
	fresh := make([]entity.FeedEntry, 0, len(entries))
	for _, e := range entries {
		if e.Published != nil && e.Published.After(lastSeen) {
			fresh = append(fresh, e)
		}
	}
	slices.SortStableFunc(fresh, func(a, b entity.FeedEntry) int {
		return a.Published.Compare(*b.Published)
	})
	return fresh
}

// announce summarizes the entry's link and delivers the announcement. It
// reports whether delivery succeeded.
func (w *Watcher) announce(ctx context.Context, feedTitle string, entry entity.FeedEntry) bool {
	slog.InfoContext(ctx, "processing feed entry",
		slog.String("feed", feedTitle),
		slog.String("title", entry.EntryTitle()),
		slog.String("link", entry.Link))

	summary := NoSummaryMessage
	if entry.Link != "" {
		if s := w.summarizer.WebSummary(ctx, entry.Link, w.targetLang); strings.TrimSpace(s) != "" {
			summary = s
		}
	}

	chunks := w.formatter.Split(Announcement(feedTitle, entry, summary))
	if err := w.deliverer.Deliver(ctx, chunks); err != nil {
		recordAnnouncement(false)
		slog.ErrorContext(ctx, "failed to deliver announcement",
			slog.String("link", entry.Link),
			slog.Any("error", err))
		return false
	}
	recordAnnouncement(true)
	return true
}

// advance moves the stored last seen time forward. Feeds removed during the
// poll stay removed.
func (w *Watcher) advance(feedURL string, lastSeen time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	current, ok := w.feeds[feedURL]
	if !ok || !lastSeen.After(current.LastSeen) {
		return
	}
	current.LastSeen = lastSeen
	w.feeds[feedURL] = current
}

// Announcement builds the chat message for a new entry.
func Announcement(feedTitle string, entry entity.FeedEntry, summary string) string {
	return fmt.Sprintf(announcementFormat, feedTitle, entry.EntryTitle(), entry.Link, summary)
}
