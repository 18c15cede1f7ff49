package plan

import (
	"image/color"
	"strconv"
	"strings"
)

// fallbackColor is used for layers whose color string cannot be parsed
var fallbackColor = color.RGBA{R: 14, G: 165, B: 233, A: 255}

// ParseHexColor parses "#rgb" and "#rrggbb" display strings. Anything
// unparseable falls back to a fixed accent color so a bad layer color
// never breaks rendering.
func ParseHexColor(s string) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")

	switch len(s) {
	case 3:
		r, errR := strconv.ParseUint(strings.Repeat(string(s[0]), 2), 16, 8)
		g, errG := strconv.ParseUint(strings.Repeat(string(s[1]), 2), 16, 8)
		b, errB := strconv.ParseUint(strings.Repeat(string(s[2]), 2), 16, 8)
		if errR != nil || errG != nil || errB != nil {
			return fallbackColor
		}
		return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
	case 6:
		r, errR := strconv.ParseUint(s[0:2], 16, 8)
		g, errG := strconv.ParseUint(s[2:4], 16, 8)
		b, errB := strconv.ParseUint(s[4:6], 16, 8)
		if errR != nil || errG != nil || errB != nil {
			return fallbackColor
		}
		return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
	}
	return fallbackColor
}
