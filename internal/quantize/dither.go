package quantize

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"knitpattern/pkg/grid"
)

// Dither reduces a grayscale buffer with values in [0,1] to the palette
// levels of o using Floyd-Steinberg error diffusion. The buffer is consumed.
// The lightest level maps to colour 1 and the darkest to o.Colors.
func Dither(gray *mat.Dense, o Options) (*grid.Matrix, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	levels := o.levels()
	rows, cols := gray.Dims()
	out := grid.New(rows, cols)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			old := gray.At(y, x)
			k := nearest(old, levels)
			out.Set(y, x, o.Colors-k)
			e := old - levels[k]
			gray.Set(y, x, levels[k])

			if x+1 < cols {
				gray.Set(y, x+1, gray.At(y, x+1)+e*7/16)
			}
			if y+1 < rows {
				if x > 0 {
					gray.Set(y+1, x-1, gray.At(y+1, x-1)+e*3/16)
				}
				gray.Set(y+1, x, gray.At(y+1, x)+e*5/16)
				if x+1 < cols {
					gray.Set(y+1, x+1, gray.At(y+1, x+1)+e*1/16)
				}
			}
		}
	}
	return out, nil
}

// nearest returns the index of the level closest to v; ties go to the
// darker level.
func nearest(v float64, levels []float64) int {
	best, dist := 0, math.Inf(1)
	for i, l := range levels {
		if d := math.Abs(v - l); d < dist {
			best, dist = i, d
		}
	}
	return best
}
