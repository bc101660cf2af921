package segment

import (
	"errors"
	"fmt"

	"knitpattern/pkg/grid"
)

var (
	// ErrSeedOutOfRange is returned for a seed outside the matrix.
	ErrSeedOutOfRange = errors.New("segment: seed outside matrix")

	// ErrRoleOverlap is returned when a deep background shade equals the
	// matrix background colour, which would make a second pass re-segment
	// already filled cells.
	ErrRoleOverlap = errors.New("segment: background shade equals matrix background colour")

	// ErrColorRange is returned for a role colour outside the machine palette.
	ErrColorRange = errors.New("segment: colour outside palette")

	// ErrPatternShape is returned when the tiled background does not match
	// the matrix extent.
	ErrPatternShape = errors.New("segment: background pattern shape mismatch")
)

// Config holds the colour roles and seeding for one segmentation call.
type Config struct {
	// MatrixBackground is the colour marking background cells of the input.
	MatrixBackground int `json:"matrix_background"`

	// Border enables the border ring around the main feature.
	Border bool `json:"border"`

	// BorderColor paints background cells touching the main feature.
	// Only used when Border is set.
	BorderColor int `json:"border_color"`

	// Shade0 paints the light (0) cells of the motif, Shade1 the dark (1) ones.
	Shade0 int `json:"shade_0"`
	Shade1 int `json:"shade_1"`

	// Seeds are the flood fill starting cells. Empty means the four corners.
	Seeds []grid.Point `json:"seeds,omitempty"`
}

// DefaultConfig returns the usual setup for a quantized image: background
// colour 1, a border in colour 1 around the feature and a motif in shades
// 2 and 3.
func DefaultConfig() Config {
	return Config{
		MatrixBackground: 1,
		Border:           true,
		BorderColor:      1,
		Shade0:           2,
		Shade1:           3,
	}
}

// WithShades returns a copy of c with the motif shades replaced.
func (c Config) WithShades(light, dark int) Config {
	c.Shade0 = light
	c.Shade1 = dark
	return c
}

// WithBorder returns a copy of c with the border enabled in the given colour.
func (c Config) WithBorder(color int) Config {
	c.Border = true
	c.BorderColor = color
	return c
}

// WithoutBorder returns a copy of c with the border disabled.
func (c Config) WithoutBorder() Config {
	c.Border = false
	return c
}

// WithSeeds returns a copy of c starting the fill at the given cells.
func (c Config) WithSeeds(seeds ...grid.Point) Config {
	c.Seeds = append([]grid.Point(nil), seeds...)
	return c
}

// WithBackground returns a copy of c with a different matrix background colour.
func (c Config) WithBackground(color int) Config {
	c.MatrixBackground = color
	return c
}

// Validate checks the colour roles.
func (c Config) Validate() error {
	type role struct {
		name  string
		value int
	}
	roles := []role{
		{"matrix background", c.MatrixBackground},
		{"shade 0", c.Shade0},
		{"shade 1", c.Shade1},
	}
	if c.Border {
		roles = append(roles, role{"border", c.BorderColor})
	}
	for _, r := range roles {
		if r.value < 0 || r.value > grid.MaxColor {
			return fmt.Errorf("%s colour %d: %w", r.name, r.value, ErrColorRange)
		}
	}
	if c.Shade0 == c.MatrixBackground || c.Shade1 == c.MatrixBackground {
		return fmt.Errorf("shades %d/%d, background %d: %w", c.Shade0, c.Shade1, c.MatrixBackground, ErrRoleOverlap)
	}
	return nil
}

// seeds returns the configured seeds, or the corners of m, after checking
// that every seed lies inside m.
func (c Config) seeds(m *grid.Matrix) ([]grid.Point, error) {
	seeds := c.Seeds
	if len(seeds) == 0 {
		seeds = m.Corners()
	}
	for _, p := range seeds {
		if !m.Contains(p) {
			return nil, fmt.Errorf("seed %v in %dx%d matrix: %w", p, m.Rows(), m.Cols(), ErrSeedOutOfRange)
		}
	}
	return seeds, nil
}
