package extract_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"digestbot/internal/usecase/extract"
)

type stubFetcher struct {
	content string
	err     error
	urls    []string
}

func (s *stubFetcher) FetchContent(_ context.Context, url string) (string, error) {
	s.urls = append(s.urls, url)
	return s.content, s.err
}

func TestArticleExtractor_Extract(t *testing.T) {
	tests := []struct {
		name     string
		fetcher  *stubFetcher
		wantText string
		wantOK   bool
	}{
		{name: "content", fetcher: &stubFetcher{content: "Title\nBody"}, wantText: "Title\nBody", wantOK: true},
		{name: "fetch error", fetcher: &stubFetcher{err: errors.Join(extract.ErrUnexpectedStatus, errors.New("404"))}},
		{name: "empty page", fetcher: &stubFetcher{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, ok := extract.NewArticleExtractor(tt.fetcher).Extract(context.Background(), "https://example.com/post")

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, []string{"https://example.com/post"}, tt.fetcher.urls)
		})
	}
}
