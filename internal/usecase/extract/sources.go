package extract

import (
	"context"

	"digestbot/internal/domain/entity"
)

// TranscriptSource lists and downloads caption tracks of a video.
//
// FetchTranscript picks the first language in languages that has a manually
// created track, then the first that has a generated one. A nil or empty
// languages slice selects the video's default track. When no language matches it
// returns an error wrapping ErrNoTranscriptFound.
type TranscriptSource interface {
	ListTracks(ctx context.Context, videoID string) ([]entity.TranscriptTrack, error)
	FetchTranscript(ctx context.Context, videoID string, languages []string) (entity.Transcript, error)
}

// ContentFetcher fetches a webpage and returns its cleaned article text.
//
// Implementations must validate the URL, bound the request time and body size,
// and treat any status other than 200 as a failure.
type ContentFetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}
