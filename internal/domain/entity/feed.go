package entity

import (
	"strings"
	"time"
)

// Feed is a watched RSS/Atom feed.
type Feed struct {
	URL   string
	Title string
	// LastSeen is the publication time of the newest entry already announced.
	LastSeen time.Time
}

// FeedEntry is one item of a parsed feed.
type FeedEntry struct {
	Title     string
	Link      string
	Published *time.Time
}

// ParsedFeed is the content of a feed at one point in time.
type ParsedFeed struct {
	Title   string
	Entries []FeedEntry
}

// Newest returns the latest publication time among the entries and false when
// no entry carries one.
func (p ParsedFeed) Newest() (time.Time, bool) {
	var newest time.Time
	found := false
	for _, e := range p.Entries {
		if e.Published == nil {
			continue
		}
		if !found || e.Published.After(newest) {
			newest = *e.Published
			found = true
		}
	}
	return newest, found
}

// DisplayTitle returns the feed title, or its URL when the feed has none.
func (f Feed) DisplayTitle() string {
	if strings.TrimSpace(f.Title) == "" {
		return f.URL
	}
	return f.Title
}

// Validate checks the feed URL.
func (f Feed) Validate() error {
	return ValidateURL(f.URL)
}

// EntryTitle returns the entry title, or "No Title" when it is blank.
func (e FeedEntry) EntryTitle() string {
	if strings.TrimSpace(e.Title) == "" {
		return "No Title"
	}
	return e.Title
}
