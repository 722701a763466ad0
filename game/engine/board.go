package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kamstrup/intmap"
)

var (
	ErrOutOfBounds        = errors.New("placement out of bounds")
	ErrCellOccupied       = errors.New("target cell is not empty")
	ErrPieceAlreadyPlaced = errors.New("piece already on board")
	ErrPieceNotOnBoard    = errors.New("piece not on board")
)

// Placement records how a piece sits on the board: the shape exactly as
// placed, its top-left anchor and the orientation it was placed in.
type Placement struct {
	PieceID     int        `json:"piece_id"`
	Anchor      Coordinate `json:"anchor"`
	Shape       Shape      `json:"shape"`
	Orientation int        `json:"orientation"`
}

// Cells returns the absolute board coordinates covered by the placement
func (p Placement) Cells() []Coordinate {
	offsets := p.Shape.Cells()
	for i := range offsets {
		offsets[i] = p.Anchor.Offset(offsets[i].Row, offsets[i].Col)
	}
	return offsets
}

// Board is a persistent square grid of cells. Every mutating method returns
// a new Board and leaves the receiver untouched.
type Board struct {
	size       int
	cells      []Cell // row-major
	placements *intmap.Map[int, Placement]
}

// NewBoard builds a fresh board for a level: obstacles set, all else empty
func NewBoard(level Level) Board {
	size := level.BoardSize
	if size == 0 {
		size = DefaultBoardSize
	}
	b := Board{
		size:       size,
		cells:      make([]Cell, size*size),
		placements: intmap.New[int, Placement](len(level.Pieces)),
	}
	for i := range b.cells {
		b.cells[i] = EmptyCell()
	}
	for _, o := range level.Obstacles {
		if b.InBounds(o) {
			b.cells[b.index(o)] = ObstacleCell()
		}
	}
	return b
}

// Size returns the board edge length
func (b Board) Size() int { return b.size }

// InBounds reports whether c lies on the board
func (b Board) InBounds(c Coordinate) bool {
	return c.Row >= 0 && c.Row < b.size && c.Col >= 0 && c.Col < b.size
}

// Cell returns the state of c; out of bounds cells read as obstacles
func (b Board) Cell(c Coordinate) Cell {
	if !b.InBounds(c) {
		return ObstacleCell()
	}
	return b.cells[b.index(c)]
}

// IsPlaceable reports whether every filled cell of shape, anchored at
// anchor, lands on an empty in-bounds cell
func (b Board) IsPlaceable(shape Shape, anchor Coordinate) bool {
	return b.checkPlacement(shape, anchor) == nil
}

// Place covers the target cells with pieceID. On error the receiver is
// returned unchanged.
func (b Board) Place(shape Shape, anchor Coordinate, pieceID int) (Board, error) {
	return b.place(Placement{PieceID: pieceID, Anchor: anchor, Shape: shape})
}

func (b Board) place(p Placement) (Board, error) {
	if b.placements != nil && b.placements.Has(p.PieceID) {
		return b, fmt.Errorf("%w: piece %d", ErrPieceAlreadyPlaced, p.PieceID)
	}
	if err := b.checkPlacement(p.Shape, p.Anchor); err != nil {
		return b, err
	}

	next := b.clone()
	for _, c := range p.Cells() {
		next.cells[next.index(c)] = OccupiedBy(p.PieceID)
	}
	next.placements.Put(p.PieceID, p)
	return next, nil
}

// RemovePiece clears every cell tagged with pieceID and returns the minimal
// bounding-box shape of the cleared cells with its top-left anchor
func (b Board) RemovePiece(pieceID int) (Board, Shape, Coordinate, error) {
	var cleared []Coordinate
	for i, cell := range b.cells {
		if id, ok := cell.Piece(); ok && id == pieceID {
			cleared = append(cleared, Coordinate{Row: i / b.size, Col: i % b.size})
		}
	}
	if len(cleared) == 0 {
		return b, Shape{}, Coordinate{}, fmt.Errorf("%w: piece %d", ErrPieceNotOnBoard, pieceID)
	}

	minR, minC, maxR, maxC := b.size, b.size, -1, -1
	for _, c := range cleared {
		minR, maxR = min(minR, c.Row), max(maxR, c.Row)
		minC, maxC = min(minC, c.Col), max(maxC, c.Col)
	}

	next := b.clone()
	for _, c := range cleared {
		next.cells[next.index(c)] = EmptyCell()
	}
	next.placements.Del(pieceID)

	return next, shapeFromCells(cleared, minR, minC, maxR, maxC), Coordinate{Row: minR, Col: minC}, nil
}

// Placement returns the recorded placement of pieceID
func (b Board) Placement(pieceID int) (Placement, bool) {
	if b.placements == nil {
		return Placement{}, false
	}
	return b.placements.Get(pieceID)
}

// Placements returns all placements ordered by piece id
func (b Board) Placements() []Placement {
	out := []Placement{}
	if b.placements == nil {
		return out
	}
	b.placements.ForEach(func(_ int, p Placement) bool {
		out = append(out, p)
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].PieceID < out[j].PieceID })
	return out
}

// OccupiedCount returns the number of cells covered by pieces
func (b Board) OccupiedCount() int {
	return b.count(Occupied)
}

// EmptyCount returns the number of cells still free
func (b Board) EmptyCount() int {
	return b.count(Empty)
}

// Equal reports cell-for-cell equality
func (b Board) Equal(other Board) bool {
	if b.size != other.size || len(b.cells) != len(other.cells) {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Rows returns a copy of the cells as a row-major grid
func (b Board) Rows() [][]Cell {
	grid := make([][]Cell, b.size)
	for r := range grid {
		grid[r] = make([]Cell, b.size)
		copy(grid[r], b.cells[r*b.size:(r+1)*b.size])
	}
	return grid
}

// String renders the board: '.' empty, '#' obstacle, piece ids as base-36
// digits
func (b Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.size; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < b.size; c++ {
			sb.WriteString(CellChar(b.cells[r*b.size+c]))
		}
	}
	return sb.String()
}

// CellChar maps a cell to its single character rendering
func CellChar(cell Cell) string {
	switch cell.Kind {
	case Obstacle:
		return "#"
	case Occupied:
		if cell.PieceID >= 0 && cell.PieceID < 36 {
			return strings.ToUpper(strconv.FormatInt(int64(cell.PieceID), 36))
		}
		return "*"
	default:
		return "."
	}
}

type boardJSON struct {
	Size       int         `json:"size"`
	Cells      [][]Cell    `json:"cells"`
	Placements []Placement `json:"placements"`
}

// MarshalJSON encodes the board as a cell grid plus its placements
func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(boardJSON{
		Size:       b.size,
		Cells:      b.Rows(),
		Placements: b.Placements(),
	})
}

// UnmarshalJSON restores a board snapshot produced by MarshalJSON
func (b *Board) UnmarshalJSON(data []byte) error {
	var raw boardJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Cells) != raw.Size {
		return fmt.Errorf("board snapshot has %d rows, expected %d", len(raw.Cells), raw.Size)
	}

	out := Board{
		size:       raw.Size,
		cells:      make([]Cell, 0, raw.Size*raw.Size),
		placements: intmap.New[int, Placement](len(raw.Placements)),
	}
	for r, row := range raw.Cells {
		if len(row) != raw.Size {
			return fmt.Errorf("board snapshot row %d has %d cells, expected %d", r, len(row), raw.Size)
		}
		out.cells = append(out.cells, row...)
	}
	for _, p := range raw.Placements {
		out.placements.Put(p.PieceID, p)
	}
	*b = out
	return nil
}

func (b Board) checkPlacement(shape Shape, anchor Coordinate) error {
	if shape.IsZero() {
		return fmt.Errorf("%w: empty shape", ErrInvalidShape)
	}
	for _, off := range shape.Cells() {
		target := anchor.Offset(off.Row, off.Col)
		if !b.InBounds(target) {
			return fmt.Errorf("%w: %s", ErrOutOfBounds, target)
		}
		if !b.cells[b.index(target)].IsEmpty() {
			return fmt.Errorf("%w: %s", ErrCellOccupied, target)
		}
	}
	return nil
}

func (b Board) clone() Board {
	next := Board{
		size:       b.size,
		cells:      make([]Cell, len(b.cells)),
		placements: intmap.New[int, Placement](max(b.placementCount(), 1)),
	}
	copy(next.cells, b.cells)
	if b.placements != nil {
		b.placements.ForEach(func(id int, p Placement) bool {
			next.placements.Put(id, p)
			return true
		})
	}
	return next
}

func (b Board) placementCount() int {
	if b.placements == nil {
		return 0
	}
	return b.placements.Len()
}

func (b Board) count(kind CellKind) int {
	n := 0
	for _, c := range b.cells {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

func (b Board) index(c Coordinate) int {
	return c.Row*b.size + c.Col
}
