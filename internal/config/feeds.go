package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"digestbot/internal/domain/entity"
)

// feedsFile is the on-disk layout of FEEDS_FILE:
//
//	feeds:
//	  - url: https://go.dev/blog/feed.atom
//	    title: Go Blog
//	  - url: https://example.com/rss
type feedsFile struct {
	Feeds []struct {
		URL   string `yaml:"url"`
		Title string `yaml:"title"`
	} `yaml:"feeds"`
}

// LoadFeedsFile reads the list of feeds to watch from a YAML file.
// Duplicate URLs are dropped, keeping the first occurrence.
func LoadFeedsFile(path string) ([]entity.Feed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feeds file: %w", err)
	}
	return ParseFeeds(data)
}

// ParseFeeds decodes and validates a feeds document.
func ParseFeeds(data []byte) ([]entity.Feed, error) {
	var doc feedsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode feeds file: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Feeds))
	feeds := make([]entity.Feed, 0, len(doc.Feeds))
	for i, f := range doc.Feeds {
		feed := entity.Feed{
			URL:   strings.TrimSpace(f.URL),
			Title: strings.TrimSpace(f.Title),
		}
		if err := feed.Validate(); err != nil {
			return nil, fmt.Errorf("feed #%d: %w", i+1, err)
		}
		if _, dup := seen[feed.URL]; dup {
			continue
		}
		seen[feed.URL] = struct{}{}
		feeds = append(feeds, feed)
	}
	return feeds, nil
}
