package preview

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"knitpattern/pkg/colorutil"
	"knitpattern/pkg/grid"
)

// Options controls raster output.
type Options struct {
	Scale int  // pixels per stitch
	Grid  bool // draw a line between stitches
}

// DefaultOptions returns 8 pixel stitches with grid lines.
func DefaultOptions() Options {
	return Options{Scale: 8, Grid: true}
}

// Image renders m with one Scale×Scale block per stitch. With Grid set, the
// last pixel row and column of every block is drawn as a line in a shade
// blended from the stitch colour towards its contrasting colour.
func Image(m *grid.Matrix, pal Palette, opt Options) *image.RGBA {
	s := max(opt.Scale, 1)
	img := image.NewRGBA(image.Rect(0, 0, m.Cols()*s, m.Rows()*s))
	for r := 0; r < m.Rows(); r++ {
		for c := 0; c < m.Cols(); c++ {
			fill := pal.Color(m.At(r, c))
			line := colorutil.Blend(fill, colorutil.Contrasting(fill), 0.25)
			for y := 0; y < s; y++ {
				for x := 0; x < s; x++ {
					col := fill
					if opt.Grid && s > 2 && (x == s-1 || y == s-1) {
						col = line
					}
					img.SetRGBA(c*s+x, r*s+y, col)
				}
			}
		}
	}
	return img
}

// WritePNG encodes the rendered matrix as PNG.
func WritePNG(w io.Writer, m *grid.Matrix, pal Palette, opt Options) error {
	if err := png.Encode(w, Image(m, pal, opt)); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}
	return nil
}
