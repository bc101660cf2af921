// Package motif loads the small repeating tiles used for borders and
// backgrounds.
//
// A motif file holds whitespace separated rows of 0 and 1, all of the same
// length. Blank lines and lines starting with '#' are ignored.
package motif

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"knitpattern/pkg/grid"
	"knitpattern/pkg/pathutil"
)

var (
	// ErrRagged is returned for a motif whose rows differ in length.
	ErrRagged = fmt.Errorf("motif: %w", grid.ErrRagged)

	// ErrValue is returned for a motif token other than 0 or 1.
	ErrValue = errors.New("motif: value must be 0 or 1")
)

// Tile is an immutable binary motif. 1 marks the dark shade, 0 the light one.
type Tile struct {
	m *grid.Matrix
}

// FromMatrix wraps a binary matrix as a tile.
// The matrix is copied.
func FromMatrix(m *grid.Matrix) (Tile, error) {
	for r := 0; r < m.Rows(); r++ {
		for c := 0; c < m.Cols(); c++ {
			if v := m.At(r, c); v != 0 && v != 1 {
				return Tile{}, fmt.Errorf("cell %v = %d: %w", grid.P(r, c), v, ErrValue)
			}
		}
	}
	return Tile{m: m.Clone()}, nil
}

// MustFromRows builds a tile from literal rows and panics on error.
func MustFromRows(rows [][]int) Tile {
	t, err := FromMatrix(grid.MustFromRows(rows))
	if err != nil {
		panic(err)
	}
	return t
}

// Parse reads a motif from r.
func Parse(r io.Reader) (Tile, error) {
	var rows [][]int
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		row := make([]int, len(fields))
		for i, f := range fields {
			switch f {
			case "0":
				row[i] = 0
			case "1":
				row[i] = 1
			default:
				return Tile{}, fmt.Errorf("line %d: token %q: %w", line, f, ErrValue)
			}
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return Tile{}, fmt.Errorf("line %d has %d values, want %d: %w", line, len(row), len(rows[0]), ErrRagged)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return Tile{}, fmt.Errorf("read motif: %w", err)
	}
	if len(rows) == 0 {
		return Tile{}, fmt.Errorf("motif: %w", grid.ErrEmpty)
	}
	m, err := grid.FromRows(rows)
	if err != nil {
		return Tile{}, err
	}
	return Tile{m: m}, nil
}

// Load reads a motif file. A leading "~/" is expanded to the home directory.
func Load(path string) (Tile, error) {
	path, err := pathutil.ExpandHome(path)
	if err != nil {
		return Tile{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Tile{}, fmt.Errorf("failed to open motif: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return Tile{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return t, nil
}

// Rows returns the tile height.
func (t Tile) Rows() int { return t.m.Rows() }

// Cols returns the tile width.
func (t Tile) Cols() int { return t.m.Cols() }

// At returns the bit at row r, column c.
func (t Tile) At(r, c int) int { return t.m.At(r, c) }

// IsZero reports whether t is the zero Tile (nothing loaded).
func (t Tile) IsZero() bool { return t.m == nil }

// Matrix returns a copy of the tile's bits.
func (t Tile) Matrix() *grid.Matrix { return t.m.Clone() }

// Trim drops the last row and the last column. Sjónabók background files
// repeat their first row and column at the far edge; trimming yields the
// minimal repeat.
func (t Tile) Trim() (Tile, error) {
	if t.Rows() < 2 || t.Cols() < 2 {
		return Tile{}, fmt.Errorf("cannot trim %dx%d motif: %w", t.Rows(), t.Cols(), grid.ErrEmpty)
	}
	m, err := t.m.Sub(0, 0, t.Rows()-1, t.Cols()-1)
	if err != nil {
		return Tile{}, err
	}
	return Tile{m: m}, nil
}

// Roll rotates the rows upward by shift: row i of the result is row
// (i+shift) mod Rows() of t. Negative shifts rotate downward.
func (t Tile) Roll(shift int) Tile {
	n := t.Rows()
	shift %= n
	if shift < 0 {
		shift += n
	}
	if shift == 0 {
		return t
	}
	out := grid.New(n, t.Cols())
	for r := range n {
		src := (r + shift) % n
		for c := 0; c < t.Cols(); c++ {
			out.Set(r, c, t.m.At(src, c))
		}
	}
	return Tile{m: out}
}

// Transpose returns the tile with rows and columns swapped.
func (t Tile) Transpose() Tile {
	return Tile{m: t.m.Transpose()}
}

// Shade maps the bits onto palette values: 0 becomes light, 1 becomes dark.
func (t Tile) Shade(light, dark int) *grid.Matrix {
	return t.m.Map(func(v int) int {
		if v == 1 {
			return dark
		}
		return light
	})
}

func (t Tile) String() string {
	return t.m.String()
}
