package feedwatch

import "errors"

var (
	// ErrFeedUnreadable indicates that a feed could not be fetched or parsed.
	ErrFeedUnreadable = errors.New("feed could not be read")

	// ErrFeedNotWatched indicates that the URL is not in the watch list.
	ErrFeedNotWatched = errors.New("feed is not watched")
)
