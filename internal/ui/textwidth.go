package ui

import (
	"github.com/mattn/go-runewidth"
)

// Unicode-aware text width calculations for proper handling of wide
// characters (emoji, CJK, combining marks). All functions work with
// display width (screen columns), not byte length.

// RuneWidth returns the display width of a single rune
// - ASCII and most Unicode: 1 column
// - Wide characters (emoji, CJK): 2 columns
// - Combining marks, zero-width spaces: 0 columns
// - Control characters: 0 columns
func RuneWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w < 0 {
		// Negative width means control/combining character, treat as 0
		return 0
	}
	return w
}

// StringWidth returns the display width of a string
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateToWidth safely truncates a string to fit within maxWidth columns
// without splitting multi-byte characters
func TruncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	runes := []rune(s)
	width := 0

	for i, r := range runes {
		rw := RuneWidth(r)
		if width+rw > maxWidth {
			return string(runes[:i])
		}
		width += rw
	}

	return s
}

// TruncateToWidthWithEllipsis truncates a string with "..." if it exceeds maxWidth
func TruncateToWidthWithEllipsis(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return TruncateToWidth(s, maxWidth)
	}

	if StringWidth(s) <= maxWidth {
		return s
	}

	truncated := TruncateToWidth(s, maxWidth-3)
	return truncated + "..."
}

// PadStringToWidth pads a string to a specific display width with spaces.
// If the string is already wider, it is returned unchanged.
func PadStringToWidth(s string, width int) string {
	current := StringWidth(s)
	if current >= width {
		return s
	}
	padding := width - current
	for i := 0; i < padding; i++ {
		s += " "
	}
	return s
}
