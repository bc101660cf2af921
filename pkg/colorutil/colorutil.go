// Package colorutil provides shared colour helpers for pattern previews.
package colorutil

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Common colours used for empty cells and grid lines.
var (
	Black = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// ParseHex parses "#rrggbb", "#rgb" or either without the hash into an
// opaque colour.
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 3 && len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: want 3 or 6 hex digits", s)
	}
	s = "#" + s
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// Hex formats c as "#rrggbb", ignoring alpha.
func Hex(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Clamped().Hex()
}

// Lightness returns the CIE L* of c scaled to [0,1].
func Lightness(c color.Color) float64 {
	cf, _ := colorful.MakeColor(c)
	l, _, _ := cf.Lab()
	return l
}

// Contrasting returns black or white, whichever reads better on c.
func Contrasting(c color.Color) color.RGBA {
	if Lightness(c) > 0.55 {
		return Black
	}
	return White
}

// Blend mixes a and b in Lab space; t=0 gives a, t=1 gives b.
func Blend(a, b color.Color, t float64) color.RGBA {
	ca, _ := colorful.MakeColor(a)
	cb, _ := colorful.MakeColor(b)
	r, g, bl := ca.BlendLab(cb, t).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: bl, A: 255}
}
