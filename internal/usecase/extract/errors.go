// Package extract turns a video identifier or a webpage URL into plain text.
//
// Extractors never fail loudly: every failure is logged and reported as absent
// text, so the summarizer can explain the problem to the user instead.
package extract

import "errors"

// Sentinel errors for transcript lookups. Infrastructure clients wrap these with
// %w so the extractor can pick the next step of its fallback chain.
var (
	// ErrNoTranscriptFound indicates that the video has captions, but none in
	// the requested languages.
	ErrNoTranscriptFound = errors.New("no transcript found for the requested languages")

	// ErrTranscriptsDisabled indicates that the video has no caption tracks at all.
	ErrTranscriptsDisabled = errors.New("transcripts are disabled for this video")

	// ErrVideoUnavailable indicates that the video does not exist or cannot be played.
	ErrVideoUnavailable = errors.New("video is unavailable")
)

// Sentinel errors for article fetching.
var (
	// ErrInvalidURL indicates the URL format is invalid or uses an unsupported scheme.
	// Only http:// and https:// schemes are supported.
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrPrivateIP indicates the URL resolves to a private IP address.
	//
	// Example:
	//   - "http://localhost" → ErrPrivateIP
	//   - "http://192.168.1.1" → ErrPrivateIP
	ErrPrivateIP = errors.New("private IP access denied (SSRF prevention)")

	// ErrTooManyRedirects indicates the redirect chain exceeded the configured maximum.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response body exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("request timeout")

	// ErrUnexpectedStatus indicates the server answered with a status other than 200.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrNoContent indicates the page was fetched but held no readable text.
	ErrNoContent = errors.New("no readable content")
)
