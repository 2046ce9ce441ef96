// Package text provides the text utilities shared by every digest pipeline:
// rune counting, heading downgrade and bounded message splitting.
package text

// CountRunes counts the number of Unicode characters (runes) in the given text.
// Chat surfaces limit messages by characters, not bytes, so every length in this
// module is measured with this function.
//
// Examples:
//
//	CountRunes("hello")      // returns 5 (ASCII text)
//	CountRunes("こんにちは")   // returns 5 (Japanese text)
//	CountRunes("")           // returns 0 (empty string)
func CountRunes(text string) int {
	return len([]rune(text))
}
