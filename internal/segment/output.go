package segment

import (
	"github.com/alexisbeaulieu97/promptkit/internal/outbuf"
	"github.com/alexisbeaulieu97/promptkit/internal/textwidth"
)

// MaxContent bounds the bytes a segment may contribute.
const MaxContent = 256

// Output is rendered segment content. Build it with NewOutput so the derived
// fields always agree with Content.
type Output struct {
	Content string
	// Length is the byte length of Content.
	Length int
	// Width is the number of terminal columns Content occupies.
	Width          int
	Empty          bool
	NeedsSeparator bool
}

// NewOutput bounds content to MaxContent bytes without splitting a rune and
// computes its length and width. Empty content never asks for a separator.
func NewOutput(content string, separator bool) Output {
	content = outbuf.Truncate(content, MaxContent)
	return Output{
		Content:        content,
		Length:         len(content),
		Width:          textwidth.Visual(content),
		Empty:          content == "",
		NeedsSeparator: separator && content != "",
	}
}
