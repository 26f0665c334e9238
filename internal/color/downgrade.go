package color

// Downgrade projects c onto the richest color space the terminal supports.
// Truecolor support implies 256-color support. The result is always a valid
// color and applying Downgrade again with the same capabilities is a no-op.
func Downgrade(c Color, hasTrueColor, has256 bool) Color {
	if hasTrueColor {
		has256 = true
	}

	switch c.Mode {
	case ModeTrueColor:
		if hasTrueColor {
			return c
		}
		if has256 {
			out := Palette(rgbToCube(c.R, c.G, c.B))
			out.Attrs = c.Attrs
			return out
		}
		out := Basic(rgbThreshold(c.R > 127, c.G > 127, c.B > 127))
		out.Attrs = c.Attrs
		return out
	case ModePalette:
		if has256 {
			return c
		}
		out := paletteToBasic(c.Index)
		out.Attrs |= c.Attrs
		return out
	default:
		return c
	}
}

// rgbToCube maps a truecolor value onto the 6x6x6 cube occupying palette
// indexes 16-231.
func rgbToCube(r, g, b uint8) uint8 {
	return 16 + 36*cubeLevel(r) + 6*cubeLevel(g) + cubeLevel(b)
}

func cubeLevel(v uint8) uint8 {
	return uint8((int(v)*5 + 127) / 255)
}

// rgbThreshold builds a basic color from per-channel on/off bits. The ANSI
// ordering puts red in bit 0, green in bit 1 and blue in bit 2.
func rgbThreshold(r, g, b bool) uint8 {
	var n uint8
	if r {
		n |= 1
	}
	if g {
		n |= 2
	}
	if b {
		n |= 4
	}
	return n
}

func paletteToBasic(idx uint8) Color {
	switch {
	case idx < 8:
		return Basic(idx)
	case idx < 16:
		return Basic(idx - 8).With(AttrBold)
	case idx < 232:
		n := idx - 16
		r, g, b := n/36, (n/6)%6, n%6
		return Basic(rgbThreshold(r >= 3, g >= 3, b >= 3))
	default:
		level := idx - 232
		switch {
		case level < 8:
			return Basic(0)
		case level < 16:
			return Basic(0).With(AttrBold)
		default:
			return Basic(7)
		}
	}
}
