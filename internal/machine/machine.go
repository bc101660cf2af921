// Package machine converts pattern matrices into the JSON job format read
// by the knitting machine driver.
//
// The machine knits one colour per carriage pass and two passes per row, so
// every pattern row becomes two rows per colour. Needles are numbered from
// -90 to 90 with 0 in the middle of the bed.
package machine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"knitpattern/internal/logging"
	"knitpattern/pkg/grid"
	"knitpattern/pkg/pathutil"
)

const (
	// MaxStitches is the number of needles on the bed.
	MaxStitches = 180
	// BedEdge is the needle number at either end of the bed.
	BedEdge = 90
)

var (
	// ErrNotPattern is returned for a matrix the machine cannot knit.
	ErrNotPattern = errors.New("machine: not a pattern matrix")
	// ErrStart is returned when the pattern does not fit the bed from the
	// requested start needle.
	ErrStart = errors.New("machine: start position out of bed")
)

// Validate reports whether m has between 2 and 180 columns and only values
// 0 to 4.
func Validate(m *grid.Matrix) error {
	if c := m.Cols(); c <= 1 || c > MaxStitches {
		return fmt.Errorf("%d columns, need 2..%d: %w", c, MaxStitches, ErrNotPattern)
	}
	if lo, hi := m.Min(), m.Max(); lo < 0 || hi > grid.MaxColor {
		return fmt.Errorf("values %d..%d outside 0..%d: %w", lo, hi, grid.MaxColor, ErrNotPattern)
	}
	return nil
}

// SeparateColors splits every row of m into one row per colour 1..max(m),
// each keeping only the cells of that colour and emitted twice. Cells with
// value 0 appear in no colour row.
func SeparateColors(m *grid.Matrix) [][]int {
	top := m.Max()
	if top < 1 {
		return [][]int{}
	}
	out := make([][]int, 0, m.Rows()*top*2)
	for i := 0; i < m.Rows(); i++ {
		for c := 1; c <= top; c++ {
			row := make([]int, m.Cols())
			for j := range row {
				if m.At(i, j) == c {
					row[j] = c
				}
			}
			out = append(out, row, append([]int(nil), row...))
		}
	}
	return out
}

// DuplicateRows returns m with every row repeated once.
func DuplicateRows(m *grid.Matrix) *grid.Matrix {
	out := grid.New(m.Rows()*2, m.Cols())
	for i := 0; i < out.Rows(); i++ {
		for j := 0; j < out.Cols(); j++ {
			out.Set(i, j, m.At(i/2, j))
		}
	}
	return out
}

// Pattern is the machine job document.
type Pattern struct {
	Start   int     `json:"start"`
	Pattern [][]int `json:"pattern"`
}

// NewPattern validates m and places it on the bed from needle start.
func NewPattern(m *grid.Matrix, start int) (*Pattern, error) {
	if err := Validate(m); err != nil {
		return nil, err
	}
	if start < -BedEdge {
		return nil, fmt.Errorf("start %d left of needle %d: %w", start, -BedEdge, ErrStart)
	}
	if over := start + m.Cols() - BedEdge; over > 0 {
		return nil, fmt.Errorf("%d stitches from %d: %d stitches past the bed: %w",
			m.Cols(), start, over, ErrStart)
	}
	p := &Pattern{Start: start, Pattern: SeparateColors(m)}
	logging.Logger().Debug("machine pattern built",
		"start", start, "stitches", m.Cols(), "passes", len(p.Pattern))
	return p, nil
}

// CenteredStart returns the start needle that centres cols stitches on the
// bed.
func CenteredStart(cols int) int {
	return -cols / 2
}

// WriteTo writes p as compact JSON.
func (p *Pattern) WriteTo(w io.Writer) (int64, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize pattern: %w", err)
	}
	n, err := w.Write(data)
	return int64(n), err
}

// WriteFile writes p to path.
func (p *Pattern) WriteFile(path string) error {
	path, err := pathutil.ExpandHome(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write pattern: %w", err)
	}
	if _, err := p.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write pattern: %w", err)
	}
	return f.Close()
}

// ReadFile loads a pattern document.
func ReadFile(path string) (*Pattern, error) {
	path, err := pathutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern: %w", err)
	}
	var p Pattern
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse pattern: %w", err)
	}
	return &p, nil
}
