// Package util holds small text helpers shared by the rendering and
// logging paths.
package util

import (
	"strings"
	"unicode/utf8"
)

// TruncateRunes truncates text to a maximum number of runes, appending an
// ellipsis when it was cut.
func TruncateRunes(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "…"
}

// Snippet returns a single-line preview of text bounded to maxRunes, with
// newlines and runs of whitespace collapsed to single spaces. Used when
// logging model responses.
func Snippet(text string, maxRunes int) string {
	return TruncateRunes(strings.Join(strings.Fields(text), " "), maxRunes)
}
