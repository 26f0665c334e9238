package color

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var basicNames = [8]string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

var attrNames = []struct {
	name string
	attr Attr
}{
	{"bold", AttrBold},
	{"dim", AttrDim},
	{"italic", AttrItalic},
	{"underline", AttrUnderline},
}

// Parse reads the textual color form used in theme files: optional attribute
// words followed by at most one color term. Color terms are a basic name
// ("red"), a bright name ("bright-red", palette 8-15), a palette index
// ("208"), a hex triplet ("#ff8800") or "none".
func Parse(spec string) (Color, error) {
	var c Color
	seenColor := false
	for _, field := range strings.Fields(strings.ToLower(spec)) {
		if attr, ok := lookupAttr(field); ok {
			c.Attrs |= attr
			continue
		}
		if seenColor {
			return Color{}, fmt.Errorf("color %q: more than one color term", spec)
		}
		parsed, err := parseTerm(field)
		if err != nil {
			return Color{}, fmt.Errorf("color %q: %w", spec, err)
		}
		parsed.Attrs = c.Attrs
		c = parsed
		seenColor = true
	}
	return c, nil
}

// MustParse is Parse for static tables; it panics on malformed input.
func MustParse(spec string) Color {
	c, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return c
}

func lookupAttr(word string) (Attr, bool) {
	for _, a := range attrNames {
		if a.name == word {
			return a.attr, true
		}
	}
	return 0, false
}

func parseTerm(term string) (Color, error) {
	if term == "none" || term == "default" {
		return None(), nil
	}
	if strings.HasPrefix(term, "#") {
		return parseHex(term)
	}
	if name, ok := strings.CutPrefix(term, "bright-"); ok {
		for i, n := range basicNames {
			if n == name {
				return Palette(uint8(8 + i)), nil
			}
		}
		return Color{}, fmt.Errorf("unknown color name %q", term)
	}
	for i, n := range basicNames {
		if n == term {
			return Basic(uint8(i)), nil
		}
	}
	idx, err := strconv.Atoi(term)
	if err != nil {
		return Color{}, fmt.Errorf("unknown color name %q", term)
	}
	if idx < 0 || idx > 255 {
		return Color{}, fmt.Errorf("palette index %d out of range 0-255", idx)
	}
	return Palette(uint8(idx)), nil
}

func parseHex(term string) (Color, error) {
	hex := strings.TrimPrefix(term, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("hex color %q must have 3 or 6 digits", term)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("hex color %q: %w", term, err)
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// String renders c in the form Parse accepts.
func (c Color) String() string {
	parts := make([]string, 0, 5)
	for _, a := range attrNames {
		if c.Has(a.attr) {
			parts = append(parts, a.name)
		}
	}
	switch c.Mode {
	case ModeBasic:
		parts = append(parts, basicNames[c.Index%8])
	case ModePalette:
		parts = append(parts, strconv.Itoa(int(c.Index)))
	case ModeTrueColor:
		parts = append(parts, fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// Lipgloss converts c into a lipgloss color for styled previews. Attributes
// are not representable there and are dropped.
func (c Color) Lipgloss() lipgloss.TerminalColor {
	switch c.Mode {
	case ModeBasic, ModePalette:
		return lipgloss.Color(strconv.Itoa(int(c.Index)))
	case ModeTrueColor:
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	default:
		return lipgloss.NoColor{}
	}
}

// Style returns a lipgloss style rendering text in c, including attributes.
func (c Color) Style() lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(c.Lipgloss())
	if c.Has(AttrBold) {
		style = style.Bold(true)
	}
	if c.Has(AttrDim) {
		style = style.Faint(true)
	}
	if c.Has(AttrItalic) {
		style = style.Italic(true)
	}
	if c.Has(AttrUnderline) {
		style = style.Underline(true)
	}
	return style
}
