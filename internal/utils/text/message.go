package text

import "strings"

// DefaultChunkSize is the maximum message length, in runes, used when no
// explicit size is configured.
const DefaultChunkSize = 1500

// DowngradeHeadings rewrites every "### " marker as "# ".
//
// The substitution is textual, not a markdown parse: in "#### x" only the
// trailing "### " matches, so the result is "## x".
func DowngradeHeadings(s string) string {
	return strings.ReplaceAll(s, "### ", "# ")
}

// SplitMessage splits content into chunks of at most chunkSize runes.
//
// Each cut prefers the last newline inside the window, then the last space, and
// falls back to a hard cut at chunkSize. The text before the cut becomes a chunk
// as is; the rest is trimmed of surrounding whitespace before the next round.
// Whatever remains is appended as the final chunk, even when it is empty.
//
// A chunkSize below 1 is replaced by DefaultChunkSize.
func SplitMessage(content string, chunkSize int) []string {
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
	}

	var parts []string
	remaining := []rune(content)
	for len(remaining) > chunkSize {
		window := remaining[:chunkSize]

		cut := lastIndexRune(window, '\n')
		if cut == -1 {
			cut = lastIndexRune(window, ' ')
		}
		if cut == -1 {
			cut = chunkSize
		}

		parts = append(parts, string(remaining[:cut]))
		remaining = []rune(strings.TrimSpace(string(remaining[cut:])))
	}

	return append(parts, string(remaining))
}

func lastIndexRune(rs []rune, r rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == r {
			return i
		}
	}
	return -1
}

// Formatter prepares summary text for a chat surface.
type Formatter struct {
	// ChunkSize is the maximum chunk length in runes. Zero means DefaultChunkSize.
	ChunkSize int
}

// NewFormatter returns a Formatter that splits at chunkSize runes.
func NewFormatter(chunkSize int) Formatter {
	return Formatter{ChunkSize: chunkSize}
}

// Format downgrades headings and splits the result into ordered chunks.
func (f Formatter) Format(summary string) []string {
	return SplitMessage(DowngradeHeadings(summary), f.ChunkSize)
}

// Split splits already formatted content, such as an announcement that embeds a
// formatted summary.
func (f Formatter) Split(content string) []string {
	return SplitMessage(content, f.ChunkSize)
}
