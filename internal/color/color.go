// Package color models terminal colors in three spaces (basic ANSI, the
// 256-color palette, and 24-bit truecolor), renders them as SGR escape
// sequences, and projects them onto whatever space a terminal supports.
package color

import (
	"strconv"
	"strings"
)

// Mode identifies the color space a Color lives in.
type Mode uint8

const (
	// ModeNone marks an unset color. Theme inheritance fills these slots.
	ModeNone Mode = iota
	// ModeBasic covers the eight standard ANSI colors (0-7).
	ModeBasic
	// ModePalette covers the 256-color palette.
	ModePalette
	// ModeTrueColor covers 24-bit RGB.
	ModeTrueColor
)

func (m Mode) String() string {
	switch m {
	case ModeBasic:
		return "basic"
	case ModePalette:
		return "256"
	case ModeTrueColor:
		return "truecolor"
	default:
		return "none"
	}
}

// Attr is a bit set of text attributes rendered alongside a color.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
)

// Target selects foreground or background rendering.
type Target uint8

const (
	Foreground Target = iota
	Background
)

// Reset clears every SGR attribute.
const Reset = "\x1b[0m"

// Color is a value in one of the supported color spaces plus attributes.
// The zero value is an unset color with no attributes.
type Color struct {
	Mode    Mode
	Index   uint8 // basic (0-7) or palette (0-255) index
	R, G, B uint8
	Attrs   Attr
}

// None returns an unset color.
func None() Color { return Color{} }

// Basic returns one of the eight standard ANSI colors. Values above 7 wrap.
func Basic(n uint8) Color { return Color{Mode: ModeBasic, Index: n % 8} }

// Palette returns a 256-color palette entry.
func Palette(n uint8) Color { return Color{Mode: ModePalette, Index: n} }

// RGB returns a truecolor value.
func RGB(r, g, b uint8) Color { return Color{Mode: ModeTrueColor, R: r, G: g, B: b} }

// With returns c with the supplied attributes added.
func (c Color) With(attrs Attr) Color {
	c.Attrs |= attrs
	return c
}

// IsSet reports whether the color carries a value or attributes.
func (c Color) IsSet() bool { return c.Mode != ModeNone || c.Attrs != 0 }

// Has reports whether every attribute in attrs is present.
func (c Color) Has(attrs Attr) bool { return c.Attrs&attrs == attrs }

// Escape renders the SGR sequence selecting c for the requested target. An
// unset color without attributes renders as the empty string.
func (c Color) Escape(target Target) string {
	params := make([]string, 0, 8)
	if c.Has(AttrBold) {
		params = append(params, "1")
	}
	if c.Has(AttrDim) {
		params = append(params, "2")
	}
	if c.Has(AttrItalic) {
		params = append(params, "3")
	}
	if c.Has(AttrUnderline) {
		params = append(params, "4")
	}

	base := 30
	extended := "38"
	if target == Background {
		base = 40
		extended = "48"
	}

	switch c.Mode {
	case ModeBasic:
		params = append(params, strconv.Itoa(base+int(c.Index%8)))
	case ModePalette:
		params = append(params, extended, "5", strconv.Itoa(int(c.Index)))
	case ModeTrueColor:
		params = append(params, extended, "2",
			strconv.Itoa(int(c.R)), strconv.Itoa(int(c.G)), strconv.Itoa(int(c.B)))
	}

	if len(params) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(params, ";") + "m"
}

// Wrap surrounds text with the foreground escape for c and a reset. Unset
// colors return text unchanged.
func (c Color) Wrap(text string) string {
	prefix := c.Escape(Foreground)
	if prefix == "" {
		return text
	}
	return prefix + text + Reset
}
