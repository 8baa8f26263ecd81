package gfx

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// Color represents an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

// Predefined colors.
var (
	Transparent = Color{0, 0, 0, 0}
	White       = Color{1, 1, 1, 1}
	Black       = Color{0, 0, 0, 1}
	Red         = Color{1, 0, 0, 1}
	Green       = Color{0, 1, 0, 1}
	Blue        = Color{0, 0, 1, 1}
)

// RGBA creates a color from 8-bit RGBA values (0-255).
func RGBA(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: float32(a) / 255.0,
	}
}

// RGB creates a color from 8-bit RGB values with full alpha.
func RGB(r, g, b uint8) Color {
	return RGBA(r, g, b, 255)
}

// Vec4 returns the color in vertex attribute order.
func (c Color) Vec4() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

// WithAlpha returns a copy of the color with a different alpha value.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, a}
}

// Modulate multiplies two colors component-wise.
func (c Color) Modulate(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

// ParseColor accepts "#rrggbb", "#rrggbbaa" or an SVG/CSS color name.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) != 6 && len(hex) != 8 {
			return Color{}, fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("color %q: %w", s, err)
		}
		if len(hex) == 6 {
			return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
		}
		return RGBA(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
	}

	c, ok := colornames.Map[s]
	if !ok {
		return Color{}, fmt.Errorf("unknown color name %q", s)
	}
	return RGBA(c.R, c.G, c.B, c.A), nil
}
