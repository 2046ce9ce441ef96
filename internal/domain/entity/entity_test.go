package entity_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"digestbot/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestTranscript_Text(t *testing.T) {
	transcript := entity.Transcript{
		{Text: "world", Start: 1.5},
		{Text: "hello", Start: 0},
		{Text: "", Start: 2.0},
		{Text: "again", Start: 3.25},
	}

	assert.Equal(t, "hello world again", transcript.Text())
	// The receiver is left untouched.
	assert.Equal(t, "world", transcript[0].Text)
}

func TestTranscript_TextEmpty(t *testing.T) {
	assert.Equal(t, "", entity.Transcript(nil).Text())
}

func TestLanguageCodes(t *testing.T) {
	tracks := []entity.TranscriptTrack{
		{LanguageCode: "en", Name: "English"},
		{LanguageCode: "fr", Name: "French (auto-generated)", Generated: true},
	}

	assert.Equal(t, []string{"en", "fr"}, entity.LanguageCodes(tracks))
	assert.Empty(t, entity.LanguageCodes(nil))
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "https", url: "https://example.com/feed.xml"},
		{name: "http", url: "http://example.com/rss"},
		{name: "empty", url: "", wantErr: true},
		{name: "ftp scheme", url: "ftp://example.com/file", wantErr: true},
		{name: "no host", url: "https:///path", wantErr: true},
		{name: "too long", url: "https://example.com/" + strings.Repeat("a", 2048), wantErr: true},
		{name: "unparsable", url: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := entity.ValidateURL(tt.url)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.True(t, errors.Is(err, entity.ErrInvalidInput))
		})
	}
}

func TestFeed_DisplayTitle(t *testing.T) {
	assert.Equal(t, "Go Blog", entity.Feed{URL: "https://go.dev/blog/feed.atom", Title: "Go Blog"}.DisplayTitle())
	assert.Equal(t, "https://go.dev/blog/feed.atom", entity.Feed{URL: "https://go.dev/blog/feed.atom"}.DisplayTitle())
}

func TestFeedEntry_EntryTitle(t *testing.T) {
	now := time.Now()
	assert.Equal(t, "No Title", entity.FeedEntry{Link: "https://example.com", Published: &now}.EntryTitle())
	assert.Equal(t, "Release notes", entity.FeedEntry{Title: "Release notes"}.EntryTitle())
}

func TestParsedFeed_Newest(t *testing.T) {
	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	feed := entity.ParsedFeed{Entries: []entity.FeedEntry{
		{Title: "a", Published: &older},
		{Title: "undated"},
		{Title: "b", Published: &newer},
	}}
	got, ok := feed.Newest()
	assert.True(t, ok)
	assert.Equal(t, newer, got)

	_, ok = entity.ParsedFeed{Entries: []entity.FeedEntry{{Title: "undated"}}}.Newest()
	assert.False(t, ok)
}
