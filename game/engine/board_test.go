package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func levelOneBoard(t *testing.T) Board {
	t.Helper()
	level, ok := DefaultCatalog().Level(0)
	require.True(t, ok)
	return NewBoard(level)
}

func TestNewBoard(t *testing.T) {
	b := levelOneBoard(t)

	assert.Equal(t, DefaultBoardSize, b.Size())
	assert.Equal(t, 96, b.EmptyCount())
	assert.Equal(t, 0, b.OccupiedCount())
	for _, c := range []Coordinate{{2, 2}, {2, 7}, {7, 2}, {7, 7}} {
		assert.True(t, b.Cell(c).IsObstacle(), "expected obstacle at %s", c)
	}
	assert.True(t, b.Cell(Coordinate{Row: -1, Col: 0}).IsObstacle())
	assert.Empty(t, b.Placements())
}

func TestBoardPlaceMarksCells(t *testing.T) {
	b := levelOneBoard(t)
	shape := MustShape([][]int{{1, 1, 0}, {0, 1, 0}, {0, 1, 0}})

	require.True(t, b.IsPlaceable(shape, Coordinate{0, 0}))
	placed, err := b.Place(shape, Coordinate{0, 0}, 1)
	require.NoError(t, err)

	for _, c := range []Coordinate{{0, 0}, {0, 1}, {1, 1}, {2, 1}} {
		id, ok := placed.Cell(c).Piece()
		assert.True(t, ok, "expected piece at %s", c)
		assert.Equal(t, 1, id)
	}
	assert.Equal(t, shape.FilledCount(), placed.OccupiedCount())

	// Receiver untouched
	assert.Equal(t, 0, b.OccupiedCount())

	other := MustShape([][]int{{1, 1}})
	assert.False(t, placed.IsPlaceable(other, Coordinate{0, 0}))
	_, err = placed.Place(other, Coordinate{0, 0}, 2)
	assert.ErrorIs(t, err, ErrCellOccupied)
}

func TestBoardPlaceOutOfBounds(t *testing.T) {
	b := levelOneBoard(t)
	shape := MustShape([][]int{{1, 1}, {0, 1}, {0, 1}})

	assert.False(t, b.IsPlaceable(shape, Coordinate{8, 8}))
	after, err := b.Place(shape, Coordinate{8, 8}, 1)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.True(t, after.Equal(b))
	assert.Equal(t, 0, after.OccupiedCount())
}

func TestBoardRejectsObstacleAndNegativeAnchor(t *testing.T) {
	b := levelOneBoard(t)
	shape := MustShape([][]int{{1, 1}})

	_, err := b.Place(shape, Coordinate{2, 1}, 1)
	assert.ErrorIs(t, err, ErrCellOccupied)

	_, err = b.Place(shape, Coordinate{-1, 0}, 1)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestBoardPlaceSamePieceTwice(t *testing.T) {
	b := levelOneBoard(t)
	shape := MustShape([][]int{{1}})

	b, err := b.Place(shape, Coordinate{0, 0}, 4)
	require.NoError(t, err)
	_, err = b.Place(shape, Coordinate{5, 5}, 4)
	assert.ErrorIs(t, err, ErrPieceAlreadyPlaced)
}

func TestFailedPlaceLeavesBoardUnchanged(t *testing.T) {
	b := levelOneBoard(t)
	b, err := b.Place(MustShape([][]int{{1, 1, 1}}), Coordinate{5, 0}, 1)
	require.NoError(t, err)

	for name, m := range testShapes {
		shape := MustShape(m)
		for r := -1; r <= b.Size(); r++ {
			for c := -1; c <= b.Size(); c++ {
				anchor := Coordinate{r, c}
				if b.IsPlaceable(shape, anchor) {
					continue
				}
				after, err := b.Place(shape, anchor, 9)
				require.Error(t, err, "%s at %s", name, anchor)
				require.True(t, after.Equal(b), "%s at %s", name, anchor)
			}
		}
	}
}

func TestBoardRemovePiece(t *testing.T) {
	b := levelOneBoard(t)
	shape := MustShape([][]int{{0, 1, 0}, {1, 1, 1}, {0, 0, 0}})
	placed, err := b.Place(shape, Coordinate{4, 4}, 3)
	require.NoError(t, err)

	cleared, recovered, anchor, err := placed.RemovePiece(3)
	require.NoError(t, err)

	assert.True(t, cleared.Equal(b))
	assert.Equal(t, [][]int{{0, 1, 0}, {1, 1, 1}}, recovered.Matrix())
	assert.Equal(t, Coordinate{4, 4}, anchor)
	_, tracked := cleared.Placement(3)
	assert.False(t, tracked)

	// Removal followed by placement at the recovered anchor reproduces the board
	again, err := cleared.Place(recovered, anchor, 3)
	require.NoError(t, err)
	assert.True(t, again.Equal(placed))

	_, _, _, err = b.RemovePiece(3)
	assert.ErrorIs(t, err, ErrPieceNotOnBoard)
}

func TestBoardTracksPlacementOrientation(t *testing.T) {
	b := levelOneBoard(t)
	shape := MustShape(testShapes["l-square"]).RotateClockwise()

	placed, err := b.place(Placement{PieceID: 1, Anchor: Coordinate{0, 0}, Shape: shape, Orientation: 1})
	require.NoError(t, err)

	p, ok := placed.Placement(1)
	require.True(t, ok)
	assert.Equal(t, 1, p.Orientation)
	assert.True(t, p.Shape.Equal(shape))
	assert.Len(t, placed.Placements(), 1)
}

func TestBoardString(t *testing.T) {
	level := Level{BoardSize: 3, Obstacles: []Coordinate{{1, 1}}}
	b := NewBoard(level)
	b, err := b.Place(MustShape([][]int{{1, 1}}), Coordinate{0, 0}, 12)
	require.NoError(t, err)

	assert.Equal(t, "CC.\n.#.\n...", b.String())
}

func TestBoardJSON(t *testing.T) {
	b := levelOneBoard(t)
	b, err := b.Place(MustShape([][]int{{1, 1}}), Coordinate{0, 0}, 2)
	require.NoError(t, err)

	data, err := json.Marshal(b)
	require.NoError(t, err)

	var decoded Board
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Equal(b))
	p, ok := decoded.Placement(2)
	require.True(t, ok)
	assert.Equal(t, Coordinate{0, 0}, p.Anchor)
}
