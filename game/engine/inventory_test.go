package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPieces() []Piece {
	return []Piece{
		{ID: 1, Shape: MustShape([][]int{{1, 1}})},
		{ID: 2, Shape: MustShape([][]int{{1}, {1}, {1}})},
		{ID: 3, Shape: MustShape([][]int{{1, 0}, {1, 1}})},
	}
}

func TestInventorySelect(t *testing.T) {
	inv, err := NewInventory(testPieces())
	require.NoError(t, err)

	for _, index := range []int{0, 1, 2} {
		got, err := inv.Select(index)
		assert.NoError(t, err)
		assert.Equal(t, index, got)
	}
	for _, index := range []int{-1, 3, 100} {
		_, err := inv.Select(index)
		assert.ErrorIs(t, err, ErrInvalidIndex)
	}
}

func TestInventoryRemoveAtShiftsIndices(t *testing.T) {
	inv, err := NewInventory(testPieces())
	require.NoError(t, err)

	next, removed, err := inv.RemoveAt(1)
	require.NoError(t, err)

	assert.Equal(t, 2, removed.ID)
	assert.Equal(t, 2, next.Len())
	p, err := next.At(1)
	require.NoError(t, err)
	assert.Equal(t, 3, p.ID)

	// Receiver untouched
	assert.Equal(t, 3, inv.Len())
	assert.True(t, inv.Contains(2))

	_, _, err = next.RemoveAt(2)
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestInventoryAppend(t *testing.T) {
	inv, err := NewInventory(testPieces()[:1])
	require.NoError(t, err)

	inv, err = inv.Append(Piece{ID: 7, Shape: MustShape([][]int{{1}})})
	require.NoError(t, err)
	assert.Equal(t, 1, inv.IndexOf(7))

	_, err = inv.Append(Piece{ID: 7, Shape: MustShape([][]int{{1}})})
	assert.ErrorIs(t, err, ErrDuplicatePiece)

	_, err = inv.Append(Piece{ID: 8})
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = NewInventory(append(testPieces(), testPieces()[0]))
	assert.ErrorIs(t, err, ErrDuplicatePiece)
}

func TestInventoryRotateAll(t *testing.T) {
	inv, err := NewInventory(testPieces())
	require.NoError(t, err)

	rotated := inv.RotateAll()
	for i, p := range rotated.Pieces() {
		orig, _ := inv.At(i)
		assert.Equal(t, orig.ID, p.ID)
		assert.Equal(t, 1, p.Orientation)
		assert.True(t, p.Shape.Equal(orig.Shape.RotateClockwise()))
	}

	full := rotated.RotateAll().RotateAll().RotateAll()
	for i, p := range full.Pieces() {
		orig, _ := inv.At(i)
		assert.Equal(t, 0, p.Orientation)
		assert.True(t, p.Shape.Equal(orig.Shape))
	}
}

func TestInventoryPiecesIsCopy(t *testing.T) {
	inv, err := NewInventory(testPieces())
	require.NoError(t, err)

	pieces := inv.Pieces()
	pieces[0].ID = 99
	assert.True(t, inv.Contains(1))
	assert.False(t, inv.Contains(99))
}

func TestInventoryJSON(t *testing.T) {
	inv, err := NewInventory(testPieces())
	require.NoError(t, err)

	data, err := json.Marshal(inv)
	require.NoError(t, err)

	var decoded Inventory
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, inv.Len(), decoded.Len())
	assert.Equal(t, 2, decoded.IndexOf(3))
}
