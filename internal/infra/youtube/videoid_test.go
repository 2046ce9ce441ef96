package youtube_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"digestbot/internal/infra/youtube"
)

func TestParseVideoID(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID string
		wantOK bool
	}{
		{name: "watch url", input: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ", wantOK: true},
		{name: "watch without www", input: "https://youtube.com/watch?v=dQw4w9WgXcQ&t=42s", wantID: "dQw4w9WgXcQ", wantOK: true},
		{name: "mobile host", input: "https://m.youtube.com/watch?v=dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ", wantOK: true},
		{name: "no scheme", input: "youtube.com/watch?v=dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ", wantOK: true},
		{name: "short link", input: "https://youtu.be/dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ", wantOK: true},
		{name: "short link with query", input: "https://youtu.be/dQw4w9WgXcQ?si=abc", wantID: "dQw4w9WgXcQ", wantOK: true},
		{name: "shorts", input: "https://www.youtube.com/shorts/dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ", wantOK: true},
		{name: "embed", input: "https://www.youtube.com/embed/dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ", wantOK: true},
		{name: "bare id", input: "dQw4w9WgXcQ", wantID: "dQw4w9WgXcQ", wantOK: true},
		{name: "bare id with spaces", input: "  dQw4w9WgXcQ \n", wantID: "dQw4w9WgXcQ", wantOK: true},
		{name: "watch without v", input: "https://www.youtube.com/watch?list=PL123", wantOK: false},
		{name: "channel page", input: "https://www.youtube.com/@golang", wantOK: false},
		{name: "other host", input: "https://vimeo.com/123456789", wantOK: false},
		{name: "lookalike host", input: "https://notyoutube.com/watch?v=dQw4w9WgXcQ", wantOK: false},
		{name: "id too short", input: "https://youtu.be/abc", wantOK: false},
		{name: "v query off the watch path", input: "https://www.youtube.com/?v=dQw4w9WgXcQ", wantOK: false},
		{name: "watch id of wrong length", input: "https://www.youtube.com/watch?v=dQw4w9WgXcQxyz", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := youtube.ParseVideoID(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}
