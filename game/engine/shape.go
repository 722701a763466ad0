package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidShape = errors.New("invalid shape")

// Shape is an immutable rectangular matrix of filled/empty cells. The zero
// value is not a valid shape; build one with NewShape.
type Shape struct {
	rows, cols int
	cells      []bool // row-major
}

// NewShape builds a shape from a 0/1 matrix. The matrix must be rectangular,
// non-empty and contain at least one filled cell.
func NewShape(matrix [][]int) (Shape, error) {
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return Shape{}, fmt.Errorf("%w: matrix must be at least 1x1", ErrInvalidShape)
	}

	rows, cols := len(matrix), len(matrix[0])
	cells := make([]bool, rows*cols)
	filled := 0
	for r, row := range matrix {
		if len(row) != cols {
			return Shape{}, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidShape, r, len(row), cols)
		}
		for c, v := range row {
			switch v {
			case 0:
			case 1:
				cells[r*cols+c] = true
				filled++
			default:
				return Shape{}, fmt.Errorf("%w: value %d at (%d,%d) must be 0 or 1", ErrInvalidShape, v, r, c)
			}
		}
	}
	if filled == 0 {
		return Shape{}, fmt.Errorf("%w: at least one cell must be filled", ErrInvalidShape)
	}

	return Shape{rows: rows, cols: cols, cells: cells}, nil
}

// MustShape is NewShape for static data known to be valid
func MustShape(matrix [][]int) Shape {
	s, err := NewShape(matrix)
	if err != nil {
		panic(err)
	}
	return s
}

// Rows returns the shape height
func (s Shape) Rows() int { return s.rows }

// Cols returns the shape width
func (s Shape) Cols() int { return s.cols }

// IsZero reports whether s is the zero value
func (s Shape) IsZero() bool { return s.rows == 0 || s.cols == 0 }

// Filled reports whether cell (r, c) is filled; out of range is empty
func (s Shape) Filled(r, c int) bool {
	if r < 0 || r >= s.rows || c < 0 || c >= s.cols {
		return false
	}
	return s.cells[r*s.cols+c]
}

// FilledCount returns the number of filled cells
func (s Shape) FilledCount() int {
	n := 0
	for _, f := range s.cells {
		if f {
			n++
		}
	}
	return n
}

// Cells returns the offsets of the filled cells in row-major order
func (s Shape) Cells() []Coordinate {
	out := make([]Coordinate, 0, len(s.cells))
	for r := 0; r < s.rows; r++ {
		for c := 0; c < s.cols; c++ {
			if s.cells[r*s.cols+c] {
				out = append(out, Coordinate{Row: r, Col: c})
			}
		}
	}
	return out
}

// RotateClockwise turns the shape a quarter turn clockwise. An RxC shape
// becomes CxR with out(i, j) = in(R-1-j, i).
func (s Shape) RotateClockwise() Shape {
	rows, cols := s.cols, s.rows
	cells := make([]bool, len(s.cells))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			cells[i*cols+j] = s.cells[(s.rows-1-j)*s.cols+i]
		}
	}
	return Shape{rows: rows, cols: cols, cells: cells}
}

// ApplyRotations turns the shape n quarter turns clockwise. Negative n turns
// counter-clockwise; n is taken mod 4.
func (s Shape) ApplyRotations(n int) Shape {
	out := s
	for i := 0; i < normalizeRotation(n); i++ {
		out = out.RotateClockwise()
	}
	return out
}

// Trim returns the minimal bounding box of the filled cells and the offset
// of its top-left corner inside s
func (s Shape) Trim() (Shape, Coordinate) {
	minR, minC, maxR, maxC := s.rows, s.cols, -1, -1
	for _, c := range s.Cells() {
		minR, maxR = min(minR, c.Row), max(maxR, c.Row)
		minC, maxC = min(minC, c.Col), max(maxC, c.Col)
	}
	return shapeFromCells(s.Cells(), minR, minC, maxR, maxC), Coordinate{Row: minR, Col: minC}
}

// Equal reports cell-for-cell equality, dimensions included
func (s Shape) Equal(other Shape) bool {
	if s.rows != other.rows || s.cols != other.cols {
		return false
	}
	for i := range s.cells {
		if s.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Matrix returns a 0/1 copy of the shape
func (s Shape) Matrix() [][]int {
	m := make([][]int, s.rows)
	for r := range m {
		m[r] = make([]int, s.cols)
		for c := range m[r] {
			if s.cells[r*s.cols+c] {
				m[r][c] = 1
			}
		}
	}
	return m
}

// String renders the shape as rows of '#' and '.'
func (s Shape) String() string {
	var b strings.Builder
	for r := 0; r < s.rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < s.cols; c++ {
			if s.cells[r*s.cols+c] {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}

// MarshalJSON encodes the shape as a 0/1 matrix
func (s Shape) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Matrix())
}

// UnmarshalJSON decodes a 0/1 matrix, validating it like NewShape
func (s *Shape) UnmarshalJSON(data []byte) error {
	var m [][]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	shape, err := NewShape(m)
	if err != nil {
		return err
	}
	*s = shape
	return nil
}

// shapeFromCells builds the shape covering the box [minR..maxR]x[minC..maxC]
// with the given absolute cells filled
func shapeFromCells(cells []Coordinate, minR, minC, maxR, maxC int) Shape {
	rows, cols := maxR-minR+1, maxC-minC+1
	out := Shape{rows: rows, cols: cols, cells: make([]bool, rows*cols)}
	for _, c := range cells {
		out.cells[(c.Row-minR)*cols+(c.Col-minC)] = true
	}
	return out
}

func normalizeRotation(n int) int {
	return ((n % Orientations) + Orientations) % Orientations
}
