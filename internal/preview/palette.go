// Package preview draws pattern matrices in yarn colours, on screen, as PNG
// or as a printable PDF chart.
package preview

import (
	"errors"
	"fmt"
	"image/color"

	"knitpattern/pkg/colorutil"
	"knitpattern/pkg/grid"
)

// ErrPalette is returned for a palette without exactly four colours.
var ErrPalette = errors.New("preview: palette needs 4 colours")

// Palette holds the yarn colours for values 1 to 4, lightest first.
type Palette [grid.MaxColor]color.RGBA

// DefaultPalette returns cream, sand, rust and charcoal.
func DefaultPalette() Palette {
	return Palette{
		{R: 0xf4, G: 0xf1, B: 0xde, A: 0xff},
		{R: 0xd4, G: 0xa3, B: 0x73, A: 0xff},
		{R: 0xa4, G: 0x4a, B: 0x3f, A: 0xff},
		{R: 0x2f, G: 0x2f, B: 0x2f, A: 0xff},
	}
}

// ParsePalette reads four hex colours.
func ParsePalette(hex []string) (Palette, error) {
	var p Palette
	if len(hex) != len(p) {
		return p, fmt.Errorf("got %d: %w", len(hex), ErrPalette)
	}
	for i, s := range hex {
		c, err := colorutil.ParseHex(s)
		if err != nil {
			return p, fmt.Errorf("colour %d: %w", i+1, err)
		}
		p[i] = c
	}
	return p, nil
}

// Color returns the colour for a cell value. Value 0 and values outside the
// palette are drawn white.
func (p Palette) Color(v int) color.RGBA {
	if v < 1 || v > len(p) {
		return colorutil.White
	}
	return p[v-1]
}

// Hex returns the palette as hex strings.
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = colorutil.Hex(c)
	}
	return out
}
