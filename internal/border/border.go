// Package border frames a pattern matrix with plain or motif strips.
package border

import (
	"errors"
	"fmt"
	"strings"

	"knitpattern/internal/logging"
	"knitpattern/internal/motif"
	"knitpattern/internal/tile"
	"knitpattern/pkg/grid"
)

var (
	// ErrSize is returned for a negative strip size.
	ErrSize = errors.New("border: negative size")
	// ErrSides is returned for an edge list that does not parse.
	ErrSides = errors.New("border: unknown side")
)

// Sides selects the edges that receive a strip.
type Sides struct {
	Top    bool `json:"top"`
	Bottom bool `json:"bottom"`
	Left   bool `json:"left"`
	Right  bool `json:"right"`
}

// AllSides selects every edge.
func AllSides() Sides {
	return Sides{Top: true, Bottom: true, Left: true, Right: true}
}

// Any reports whether at least one edge is selected.
func (s Sides) Any() bool {
	return s.Top || s.Bottom || s.Left || s.Right
}

// ParseSides reads edges given as letters t, b, l and r, as in "tb" or
// "tblr". "all" selects every edge and "" or "none" selects none.
func ParseSides(s string) (Sides, error) {
	var sides Sides
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return sides, nil
	case "all":
		return AllSides(), nil
	}
	for _, r := range strings.ToLower(s) {
		switch r {
		case 't':
			sides.Top = true
		case 'b':
			sides.Bottom = true
		case 'l':
			sides.Left = true
		case 'r':
			sides.Right = true
		default:
			return Sides{}, fmt.Errorf("sides %q: %w", s, ErrSides)
		}
	}
	return sides, nil
}

// String returns the selected edges as letters in the order t, b, l, r.
func (s Sides) String() string {
	var b strings.Builder
	for _, e := range []struct {
		on bool
		c  byte
	}{{s.Top, 't'}, {s.Bottom, 'b'}, {s.Left, 'l'}, {s.Right, 'r'}} {
		if e.on {
			b.WriteByte(e.c)
		}
	}
	if b.Len() == 0 {
		return "none"
	}
	return b.String()
}

// Sizes holds the strip thickness per edge for plain borders.
type Sizes struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

// Uniform returns the same thickness on every edge.
func Uniform(n int) Sizes {
	return Sizes{Top: n, Bottom: n, Left: n, Right: n}
}

// Shades maps the motif bits of a border onto palette values.
type Shades struct {
	Background int `json:"background"` // motif bit 0
	Dark       int `json:"dark"`       // motif bit 1
}

// DefaultShades returns the lightest colour as background and colour 2 for
// the motif.
func DefaultShades() Shades {
	return Shades{Background: 1, Dark: 2}
}

// Flat adds solid strips of value to the selected edges, in the order top,
// bottom, left, right. Side strips span the height including any top and
// bottom strips.
func Flat(m *grid.Matrix, sides Sides, sizes Sizes, value int) (*grid.Matrix, error) {
	if sizes.Top < 0 || sizes.Bottom < 0 || sizes.Left < 0 || sizes.Right < 0 {
		return nil, fmt.Errorf("sizes %+v: %w", sizes, ErrSize)
	}
	out := m
	var err error
	if sides.Top && sizes.Top > 0 {
		if out, err = grid.VStack(grid.Filled(sizes.Top, out.Cols(), value), out); err != nil {
			return nil, err
		}
	}
	if sides.Bottom && sizes.Bottom > 0 {
		if out, err = grid.VStack(out, grid.Filled(sizes.Bottom, out.Cols(), value)); err != nil {
			return nil, err
		}
	}
	if sides.Left && sizes.Left > 0 {
		if out, err = grid.HStack(grid.Filled(out.Rows(), sizes.Left, value), out); err != nil {
			return nil, err
		}
	}
	if sides.Right && sizes.Right > 0 {
		if out, err = grid.HStack(out, grid.Filled(out.Rows(), sizes.Right, value)); err != nil {
			return nil, err
		}
	}
	if out == m {
		out = m.Clone()
	}
	logging.Logger().Debug("flat border added",
		"sides", sides, "sizes", sizes, "rows", out.Rows(), "cols", out.Cols())
	return out, nil
}

// Motif frames m with the shaded motif t.
//
// The top and bottom strips are t repeated across the width of m. The left
// and right strips are t turned on its side and repeated down the height
// after the top and bottom strips were added, so they cover the corners.
// Every strip is as thick as t has rows.
func Motif(m *grid.Matrix, t motif.Tile, sides Sides, shades Shades) (*grid.Matrix, error) {
	shaded := t.Shade(shades.Background, shades.Dark)
	out := m
	if sides.Top || sides.Bottom {
		strip, err := tile.Replicate(shaded, t.Rows(), out.Cols(), tile.Horizontal)
		if err != nil {
			return nil, err
		}
		if sides.Top {
			if out, err = grid.VStack(strip, out); err != nil {
				return nil, err
			}
		}
		if sides.Bottom {
			if out, err = grid.VStack(out, strip); err != nil {
				return nil, err
			}
		}
	}
	if sides.Left || sides.Right {
		strip, err := tile.Replicate(shaded, out.Rows(), t.Rows(), tile.Vertical)
		if err != nil {
			return nil, err
		}
		if sides.Left {
			if out, err = grid.HStack(strip, out); err != nil {
				return nil, err
			}
		}
		if sides.Right {
			if out, err = grid.HStack(out, strip); err != nil {
				return nil, err
			}
		}
	}
	if out == m {
		out = m.Clone()
	}
	logging.Logger().Debug("motif border added",
		"sides", sides, "motif_rows", t.Rows(), "motif_cols", t.Cols(),
		"rows", out.Rows(), "cols", out.Cols())
	return out, nil
}
