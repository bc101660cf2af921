package lettering

import (
	"fmt"
	"strings"

	"knitpattern/internal/logging"
	"knitpattern/pkg/grid"
)

// Align positions shorter lines against the widest one.
type Align int

const (
	Left Align = iota
	Middle
)

// String returns the flag spelling of the alignment.
func (a Align) String() string {
	if a == Middle {
		return "middle"
	}
	return "left"
}

// ParseAlign accepts "left", "middle" or "center".
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(s) {
	case "left", "":
		return Left, nil
	case "middle", "center", "centre":
		return Middle, nil
	}
	return Left, fmt.Errorf("unknown alignment %q", s)
}

// lineGap is the number of blank rows between lines.
const lineGap = 2

// Options controls text layout.
type Options struct {
	Align         Align `json:"align"`
	Newline       rune  `json:"newline"`        // starts a new line
	LetterSpacing int   `json:"letter_spacing"` // blank columns before each glyph
	BigAccent     bool  `json:"big_accent"`     // taller acute stroke
}

// DefaultOptions returns left aligned text broken at '\n'.
func DefaultOptions() Options {
	return Options{Align: Left, Newline: '\n'}
}

// Write lays out text with f. Ink cells are 1 and the rest 0.
//
// Every line starts with a blank column, glyphs are bottom aligned to the
// tallest glyph, lines are separated by two blank rows and padded to the
// widest line, and a blank column closes the matrix on the right.
func Write(f *Font, text string, opt Options) (*grid.Matrix, error) {
	var lines [][]*grid.Matrix
	height := f.Height()
	cur := []*grid.Matrix{}
	for _, r := range text {
		if r == opt.Newline {
			lines = append(lines, cur)
			cur = []*grid.Matrix{}
			continue
		}
		g, err := f.Glyph(r, opt.BigAccent)
		if err != nil {
			return nil, err
		}
		height = max(height, g.Rows())
		cur = append(cur, g)
	}
	lines = append(lines, cur)
	if height < 1 {
		height = 1
	}

	rendered := make([]*grid.Matrix, len(lines))
	width := 0
	for i, glyphs := range lines {
		m, err := line(glyphs, height, opt.LetterSpacing)
		if err != nil {
			return nil, err
		}
		rendered[i] = m
		width = max(width, m.Cols())
	}

	parts := make([]*grid.Matrix, 0, 2*len(rendered))
	for i, m := range rendered {
		if i > 0 {
			parts = append(parts, grid.New(lineGap, width))
		}
		padded, err := pad(m, width, opt.Align)
		if err != nil {
			return nil, err
		}
		parts = append(parts, padded)
	}
	out, err := grid.VStack(parts...)
	if err != nil {
		return nil, err
	}
	out, err = grid.HStack(out, grid.New(out.Rows(), 1))
	if err != nil {
		return nil, err
	}
	logging.Logger().Debug("text written",
		"lines", len(lines), "rows", out.Rows(), "cols", out.Cols())
	return out, nil
}

// line joins glyphs after a leading blank column.
func line(glyphs []*grid.Matrix, height, spacing int) (*grid.Matrix, error) {
	parts := []*grid.Matrix{grid.New(height, 1)}
	for _, g := range glyphs {
		if spacing > 0 {
			parts = append(parts, grid.New(height, spacing))
		}
		if g.Rows() < height {
			var err error
			if g, err = grid.VStack(grid.New(height-g.Rows(), g.Cols()), g); err != nil {
				return nil, err
			}
		}
		parts = append(parts, g)
	}
	return grid.HStack(parts...)
}

// pad widens m to width. Middle alignment splits the padding, with the odd
// column on the right.
func pad(m *grid.Matrix, width int, align Align) (*grid.Matrix, error) {
	extra := width - m.Cols()
	if extra == 0 {
		return m, nil
	}
	if align == Middle {
		left := extra / 2
		parts := []*grid.Matrix{m, grid.New(m.Rows(), extra-left)}
		if left > 0 {
			parts = append([]*grid.Matrix{grid.New(m.Rows(), left)}, parts...)
		}
		return grid.HStack(parts...)
	}
	return grid.HStack(m, grid.New(m.Rows(), extra))
}
