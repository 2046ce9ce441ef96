// Package youtube reads video captions through YouTube's innertube player API.
package youtube

import (
	"net/url"
	"regexp"
	"strings"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ParseVideoID extracts the video id from a YouTube link or a bare id.
//
// Recognized shapes:
//
//	https://www.youtube.com/watch?v=ID   (also youtube.com, m.youtube.com, music.youtube.com)
//	https://youtu.be/ID
//	https://www.youtube.com/shorts/ID    (also /embed/ID, /live/ID, /v/ID)
//	ID                                   (11 characters of [A-Za-z0-9_-])
//
// The scheme may be omitted. Anything else returns ("", false). The v= query
// is only read on /watch and ids must have the 11-character shape, so a link
// like youtube.com/?v=ID is reported as an invalid URL instead of being sent
// to the transcript fetcher.
func ParseVideoID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if videoIDPattern.MatchString(raw) {
		return raw, true
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	var id string
	switch host := strings.ToLower(u.Hostname()); host {
	case "youtu.be", "www.youtu.be":
		id = firstSegment(u.Path)
	case "youtube.com", "www.youtube.com", "m.youtube.com", "music.youtube.com":
		if strings.TrimSuffix(u.Path, "/") == "/watch" {
			id = u.Query().Get("v")
			break
		}
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(segments) == 2 {
			switch segments[0] {
			case "shorts", "embed", "live", "v":
				id = segments[1]
			}
		}
	default:
		return "", false
	}

	if !videoIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

func firstSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}
