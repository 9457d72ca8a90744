package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Item names are laid out in screen columns, not bytes: signal names can
// carry CJK or emoji glyphs that take two cells.

// RuneWidth returns the display width of a single rune, 0 for control and
// combining runes
func RuneWidth(r rune) int {
	return max(runewidth.RuneWidth(r), 0)
}

// StringWidth returns the display width of a string
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateToWidth cuts s to at most maxWidth columns without splitting a rune
func TruncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	width := 0
	for i, r := range s {
		rw := RuneWidth(r)
		if width+rw > maxWidth {
			return s[:i]
		}
		width += rw
	}
	return s
}

// TruncateToWidthWithEllipsis truncates s with "..." when it exceeds
// maxWidth. Widths of 3 or less are cut without an ellipsis.
func TruncateToWidthWithEllipsis(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return TruncateToWidth(s, maxWidth)
	}
	if StringWidth(s) <= maxWidth {
		return s
	}
	return TruncateToWidth(s, maxWidth-3) + "..."
}

// PadStringToWidth pads s with spaces to width columns
func PadStringToWidth(s string, width int) string {
	current := StringWidth(s)
	if current >= width {
		return s
	}
	return s + strings.Repeat(" ", width-current)
}
