// Package textwidth measures how many terminal columns text occupies, which
// differs from its byte length for multibyte, wide, and escape-laden strings.
package textwidth

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Plain returns the display width of s, which must not contain escape
// sequences.
func Plain(s string) int {
	return runewidth.StringWidth(s)
}

// Visual returns the display width of s after removing ANSI escape sequences.
// For multi-line text it reports the width of the last line, where the cursor
// lands.
func Visual(s string) int {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return Plain(ansi.Strip(s))
}

// Strip removes ANSI escape sequences from s.
func Strip(s string) string {
	return ansi.Strip(s)
}

// TruncateLeft drops leading runes from s until it fits in width columns,
// prefixing the result with ellipsis. Text that already fits is returned
// unchanged.
func TruncateLeft(s string, width int, ellipsis string) string {
	if width <= 0 || Plain(s) <= width {
		return s
	}
	budget := width - Plain(ellipsis)
	if budget <= 0 {
		return runewidth.Truncate(ellipsis, width, "")
	}
	runes := []rune(s)
	used := 0
	start := len(runes)
	for start > 0 {
		w := runewidth.RuneWidth(runes[start-1])
		if used+w > budget {
			break
		}
		used += w
		start--
	}
	return ellipsis + string(runes[start:])
}
