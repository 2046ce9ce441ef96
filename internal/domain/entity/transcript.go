package entity

import (
	"sort"
	"strings"
)

// TranscriptTrack is one available language variant of a video's captions.
type TranscriptTrack struct {
	LanguageCode string
	Name         string
	// Generated marks automatic speech recognition tracks.
	Generated bool
	// BaseURL is the timedtext endpoint serving the track.
	BaseURL string
}

// TranscriptFragment is a single caption cue.
type TranscriptFragment struct {
	Text     string
	Start    float64
	Duration float64
}

// Transcript is the ordered list of fragments of one track.
type Transcript []TranscriptFragment

// Text joins every non-empty fragment with single spaces in chronological order.
func (t Transcript) Text() string {
	ordered := make(Transcript, len(t))
	copy(ordered, t)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start < ordered[j].Start
	})

	parts := make([]string, 0, len(ordered))
	for _, f := range ordered {
		if f.Text != "" {
			parts = append(parts, f.Text)
		}
	}
	return strings.Join(parts, " ")
}

// LanguageCodes returns the language code of every track in listing order.
func LanguageCodes(tracks []TranscriptTrack) []string {
	codes := make([]string, 0, len(tracks))
	for _, t := range tracks {
		codes = append(codes, t.LanguageCode)
	}
	return codes
}
