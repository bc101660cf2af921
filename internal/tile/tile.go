// Package tile repeats a small motif over a larger extent.
//
// Each axis is filled with whole copies of the motif followed by the first
// rows (or columns) of one more copy, so cell (i, j) of the result always
// equals cell (i mod h, j mod w) of the motif. Continuity matching across
// canvases relies on this truncation-from-start rule.
package tile

import (
	"errors"
	"fmt"

	"knitpattern/pkg/grid"
)

// ErrExtent is returned for a target extent smaller than one cell.
var ErrExtent = errors.New("tile: target extent must be positive")

// Axis selects the orientation in which the motif is laid out.
type Axis int

const (
	// Horizontal lays the motif out as stored.
	Horizontal Axis = iota
	// Vertical lays out the transposed motif, so its rows run down the strip.
	Vertical
)

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Replicate returns a rows×cols matrix filled with copies of src.
// For Vertical, src is transposed before replication.
func Replicate(src *grid.Matrix, rows, cols int, axis Axis) (*grid.Matrix, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("replicate to %dx%d: %w", rows, cols, ErrExtent)
	}
	if axis == Vertical {
		src = src.Transpose()
	}
	tall, err := Extend(src, rows)
	if err != nil {
		return nil, err
	}
	return ExtendCols(tall, cols)
}

// Extend stacks copies of src vertically until the result has exactly rows
// rows. The final partial copy is cut from the top of src.
func Extend(src *grid.Matrix, rows int) (*grid.Matrix, error) {
	if rows < 1 {
		return nil, fmt.Errorf("extend to %d rows: %w", rows, ErrExtent)
	}
	n := src.Rows()
	whole := rows / n
	parts := make([]*grid.Matrix, 0, whole+1)
	for range whole {
		parts = append(parts, src)
	}
	if rem := rows - whole*n; rem > 0 {
		head, err := src.Sub(0, 0, rem, src.Cols())
		if err != nil {
			return nil, err
		}
		parts = append(parts, head)
	}
	return grid.VStack(parts...)
}

// ExtendCols joins copies of src horizontally until the result has exactly
// cols columns. The final partial copy is cut from the left of src.
func ExtendCols(src *grid.Matrix, cols int) (*grid.Matrix, error) {
	if cols < 1 {
		return nil, fmt.Errorf("extend to %d columns: %w", cols, ErrExtent)
	}
	m := src.Cols()
	whole := cols / m
	parts := make([]*grid.Matrix, 0, whole+1)
	for range whole {
		parts = append(parts, src)
	}
	if rem := cols - whole*m; rem > 0 {
		head, err := src.Sub(0, 0, src.Rows(), rem)
		if err != nil {
			return nil, err
		}
		parts = append(parts, head)
	}
	return grid.HStack(parts...)
}
