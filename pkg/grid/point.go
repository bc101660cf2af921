// Package grid provides the pattern matrix and the small value types shared by
// every stage of pattern synthesis.
package grid

import "fmt"

// Point addresses one cell of a Matrix.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// P creates a new Point.
func P(row, col int) Point {
	return Point{Row: row, Col: col}
}

// Add returns the sum of two points.
func (p Point) Add(other Point) Point {
	return Point{Row: p.Row + other.Row, Col: p.Col + other.Col}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Neighbors4 lists the 4-connected offsets in visiting order: up, down, left, right.
var Neighbors4 = [4]Point{
	{Row: -1, Col: 0},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
}
