package tilepaint

import "image/color"

// Color represents a paint color with red, green, blue, and alpha
// components. Each component is in the range [0, 1].
type Color struct {
	R, G, B, A float64
}

// Common colors.
var (
	// Black is opaque black.
	Black = Color{0, 0, 0, 1}
	// White is opaque white.
	White = Color{1, 1, 1, 1}
	// Transparent is fully transparent black.
	Transparent = Color{}
)

// RGB creates an opaque color from red, green, and blue components.
func RGB(r, g, b float64) Color {
	return Color{r, g, b, 1}
}

// RGBA creates a color from red, green, blue, and alpha components.
func RGBA(r, g, b, a float64) Color {
	return Color{r, g, b, a}
}

// WithAlpha returns the color with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Color converts the paint color to the standard color.Color interface.
func (c Color) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R * 255)),
		G: uint8(clamp255(c.G * 255)),
		B: uint8(clamp255(c.B * 255)),
		A: uint8(clamp255(c.A * 255)),
	}
}

// clamp255 clamps v to the [0, 255] range.
func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
