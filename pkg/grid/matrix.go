package grid

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxColor is the largest palette value the knitting machine accepts.
// Valid pattern values are 0..MaxColor.
const MaxColor = 4

var (
	// ErrEmpty is returned when a matrix would have no rows or no columns.
	ErrEmpty = errors.New("empty matrix")

	// ErrRagged is returned when rows of a matrix have different lengths.
	ErrRagged = errors.New("ragged matrix")

	// ErrShape is returned when two matrices cannot be combined.
	ErrShape = errors.New("shape mismatch")
)

// Matrix is a dense row-major grid of small integers.
// The dimensions are fixed at construction; operations that change the
// shape return a new Matrix.
type Matrix struct {
	rows, cols int
	cells      []int
}

// New returns a rows×cols matrix of zeros.
// It panics if rows or cols is less than 1.
func New(rows, cols int) *Matrix {
	if rows < 1 || cols < 1 {
		panic(fmt.Sprintf("grid: invalid size %dx%d", rows, cols))
	}
	return &Matrix{rows: rows, cols: cols, cells: make([]int, rows*cols)}
}

// Filled returns a rows×cols matrix with every cell set to v.
func Filled(rows, cols, v int) *Matrix {
	m := New(rows, cols)
	if v != 0 {
		for i := range m.cells {
			m.cells[i] = v
		}
	}
	return m
}

// FromRows builds a matrix from a slice of equally long rows.
// The rows are copied.
func FromRows(rows [][]int) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmpty
	}
	cols := len(rows[0])
	m := New(len(rows), cols)
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d values, want %d: %w", r, len(row), cols, ErrRagged)
		}
		copy(m.cells[r*cols:], row)
	}
	return m, nil
}

// MustFromRows is like FromRows but panics on error.
// It is intended for literals in tests and examples.
func MustFromRows(rows [][]int) *Matrix {
	m, err := FromRows(rows)
	if err != nil {
		panic(err)
	}
	return m
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// At returns the value at row r, column c.
func (m *Matrix) At(r, c int) int {
	return m.cells[r*m.cols+c]
}

// Set stores v at row r, column c.
func (m *Matrix) Set(r, c, v int) {
	m.cells[r*m.cols+c] = v
}

// Get returns the value at p.
func (m *Matrix) Get(p Point) int {
	return m.cells[p.Row*m.cols+p.Col]
}

// Index returns the offset of p in row-major order.
func (m *Matrix) Index(p Point) int {
	return p.Row*m.cols + p.Col
}

// Contains reports whether p lies inside the matrix.
func (m *Matrix) Contains(p Point) bool {
	return p.Row >= 0 && p.Row < m.rows && p.Col >= 0 && p.Col < m.cols
}

// Corners returns the four corner cells: top-left, bottom-left, top-right,
// bottom-right. Coinciding corners of single-row or single-column matrices
// are listed once.
func (m *Matrix) Corners() []Point {
	all := []Point{
		{0, 0},
		{m.rows - 1, 0},
		{0, m.cols - 1},
		{m.rows - 1, m.cols - 1},
	}
	corners := make([]Point, 0, len(all))
	for _, p := range all {
		dup := false
		for _, q := range corners {
			if p == q {
				dup = true
				break
			}
		}
		if !dup {
			corners = append(corners, p)
		}
	}
	return corners
}

// Row returns a copy of row r.
func (m *Matrix) Row(r int) []int {
	row := make([]int, m.cols)
	copy(row, m.cells[r*m.cols:(r+1)*m.cols])
	return row
}

// ToRows returns the matrix as a slice of row slices.
func (m *Matrix) ToRows() [][]int {
	rows := make([][]int, m.rows)
	for r := range rows {
		rows[r] = m.Row(r)
	}
	return rows
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	c := &Matrix{rows: m.rows, cols: m.cols, cells: make([]int, len(m.cells))}
	copy(c.cells, m.cells)
	return c
}

// Transpose returns the cols×rows transpose of m.
func (m *Matrix) Transpose() *Matrix {
	t := New(m.cols, m.rows)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			t.cells[c*m.rows+r] = m.cells[r*m.cols+c]
		}
	}
	return t
}

// Map returns a new matrix with f applied to every cell.
func (m *Matrix) Map(f func(int) int) *Matrix {
	out := m.Clone()
	for i, v := range out.cells {
		out.cells[i] = f(v)
	}
	return out
}

// Count returns the number of cells holding v.
func (m *Matrix) Count(v int) int {
	n := 0
	for _, x := range m.cells {
		if x == v {
			n++
		}
	}
	return n
}

// Max returns the largest value in m.
func (m *Matrix) Max() int {
	best := m.cells[0]
	for _, v := range m.cells[1:] {
		best = max(best, v)
	}
	return best
}

// Min returns the smallest value in m.
func (m *Matrix) Min() int {
	best := m.cells[0]
	for _, v := range m.cells[1:] {
		best = min(best, v)
	}
	return best
}

// Equal reports whether m and other have the same shape and values.
func (m *Matrix) Equal(other *Matrix) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i, v := range m.cells {
		if other.cells[i] != v {
			return false
		}
	}
	return true
}

// Sub returns a copy of the rows×cols block whose top-left cell is (r0, c0).
func (m *Matrix) Sub(r0, c0, rows, cols int) (*Matrix, error) {
	if rows < 1 || cols < 1 {
		return nil, ErrEmpty
	}
	if r0 < 0 || c0 < 0 || r0+rows > m.rows || c0+cols > m.cols {
		return nil, fmt.Errorf("block %dx%d at %v outside %dx%d matrix: %w",
			rows, cols, P(r0, c0), m.rows, m.cols, ErrShape)
	}
	out := New(rows, cols)
	for r := range rows {
		copy(out.cells[r*cols:(r+1)*cols], m.cells[(r0+r)*m.cols+c0:])
	}
	return out, nil
}

// VStack stacks the given matrices top to bottom. All must have the same
// number of columns.
func VStack(parts ...*Matrix) (*Matrix, error) {
	if len(parts) == 0 {
		return nil, ErrEmpty
	}
	cols := parts[0].cols
	rows := 0
	for i, p := range parts {
		if p.cols != cols {
			return nil, fmt.Errorf("vstack part %d has %d columns, want %d: %w", i, p.cols, cols, ErrShape)
		}
		rows += p.rows
	}
	out := &Matrix{rows: rows, cols: cols, cells: make([]int, 0, rows*cols)}
	for _, p := range parts {
		out.cells = append(out.cells, p.cells...)
	}
	return out, nil
}

// HStack joins the given matrices left to right. All must have the same
// number of rows.
func HStack(parts ...*Matrix) (*Matrix, error) {
	if len(parts) == 0 {
		return nil, ErrEmpty
	}
	rows := parts[0].rows
	cols := 0
	for i, p := range parts {
		if p.rows != rows {
			return nil, fmt.Errorf("hstack part %d has %d rows, want %d: %w", i, p.rows, rows, ErrShape)
		}
		cols += p.cols
	}
	out := &Matrix{rows: rows, cols: cols, cells: make([]int, 0, rows*cols)}
	for r := range rows {
		for _, p := range parts {
			out.cells = append(out.cells, p.cells[r*p.cols:(r+1)*p.cols]...)
		}
	}
	return out, nil
}

// String formats the matrix as space separated rows, one per line.
func (m *Matrix) String() string {
	var b strings.Builder
	for r := 0; r < m.rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < m.cols; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.Itoa(m.At(r, c)))
		}
	}
	return b.String()
}

// MarshalJSON encodes the matrix as an array of rows.
func (m *Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ToRows())
}

// UnmarshalJSON decodes an array of equally long rows.
func (m *Matrix) UnmarshalJSON(data []byte) error {
	var rows [][]int
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	parsed, err := FromRows(rows)
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}
