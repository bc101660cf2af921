// Package quantize turns photographs into pattern matrices: the image is
// shrunk to the stitch width, converted to grayscale and reduced to three or
// four colours by Floyd-Steinberg error diffusion.
package quantize

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrColors is returned for a colour count other than 3 or 4.
	ErrColors = errors.New("quantize: colours must be 3 or 4")
	// ErrStitches is returned for fewer than two stitches.
	ErrStitches = errors.New("quantize: at least 2 stitches required")
	// ErrDecode is returned when an image file cannot be read.
	ErrDecode = errors.New("quantize: cannot decode image")
)

// Options configures quantization.
type Options struct {
	Stitches int `json:"stitches"` // output columns
	Colors   int `json:"colors"`   // 3 or 4
}

// DefaultOptions returns 60 stitches in four colours.
func DefaultOptions() Options {
	return Options{Stitches: 60, Colors: 4}
}

// WithStitches returns a copy with the stitch count set.
func (o Options) WithStitches(n int) Options {
	o.Stitches = n
	return o
}

// WithColors returns a copy with the colour count set.
func (o Options) WithColors(n int) Options {
	o.Colors = n
	return o
}

// Validate checks the option ranges.
func (o Options) Validate() error {
	if o.Colors != 3 && o.Colors != 4 {
		return fmt.Errorf("%d colours: %w", o.Colors, ErrColors)
	}
	if o.Stitches < 2 {
		return fmt.Errorf("%d stitches: %w", o.Stitches, ErrStitches)
	}
	return nil
}

// Size returns the output dimensions for a source of w×h pixels, keeping
// the aspect ratio. At least one row is produced.
func (o Options) Size(w, h int) (rows, cols int) {
	rows = int(math.Round(float64(o.Stitches) * float64(h) / float64(w)))
	return max(rows, 1), o.Stitches
}

// levels returns the gray levels, darkest first.
func (o Options) levels() []float64 {
	if o.Colors == 3 {
		return []float64{0, 0.5, 1}
	}
	return []float64{0, 0.33, 0.66, 1}
}
