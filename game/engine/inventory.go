package engine

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidIndex   = errors.New("inventory index out of range")
	ErrDuplicatePiece = errors.New("piece already in inventory")
)

// Piece is a placeable polyomino. ID never changes over the piece's
// lifetime; Shape is replaced when the piece is rotated. Orientation counts
// the clockwise quarter turns between the level's original shape and Shape.
type Piece struct {
	ID          int   `json:"id"`
	Shape       Shape `json:"shape"`
	Orientation int   `json:"orientation"`
}

// Rotated returns the piece turned n quarter turns clockwise
func (p Piece) Rotated(n int) Piece {
	return Piece{
		ID:          p.ID,
		Shape:       p.Shape.ApplyRotations(n),
		Orientation: normalizeRotation(p.Orientation + n),
	}
}

// Inventory is the persistent ordered sequence of unplaced pieces. Indices
// are positions, not identities: RemoveAt shifts every later piece down.
type Inventory struct {
	pieces []Piece
}

// NewInventory builds an inventory from pieces, rejecting duplicate ids
func NewInventory(pieces []Piece) (Inventory, error) {
	inv := Inventory{}
	for _, p := range pieces {
		next, err := inv.Append(p)
		if err != nil {
			return Inventory{}, err
		}
		inv = next
	}
	return inv, nil
}

// Len returns the number of pieces left
func (inv Inventory) Len() int { return len(inv.pieces) }

// IsEmpty reports whether every piece has been placed
func (inv Inventory) IsEmpty() bool { return len(inv.pieces) == 0 }

// Select validates index against the current inventory
func (inv Inventory) Select(index int) (int, error) {
	if index < 0 || index >= len(inv.pieces) {
		return 0, fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidIndex, index, len(inv.pieces))
	}
	return index, nil
}

// At returns the piece at index
func (inv Inventory) At(index int) (Piece, error) {
	if _, err := inv.Select(index); err != nil {
		return Piece{}, err
	}
	return inv.pieces[index], nil
}

// IndexOf returns the position of the piece with the given id, or -1
func (inv Inventory) IndexOf(id int) int {
	for i, p := range inv.pieces {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Contains reports whether the piece with the given id is held
func (inv Inventory) Contains(id int) bool {
	return inv.IndexOf(id) >= 0
}

// Pieces returns a copy of the held pieces in order
func (inv Inventory) Pieces() []Piece {
	out := make([]Piece, len(inv.pieces))
	copy(out, inv.pieces)
	return out
}

// RemoveAt removes and returns the piece at index
func (inv Inventory) RemoveAt(index int) (Inventory, Piece, error) {
	if _, err := inv.Select(index); err != nil {
		return inv, Piece{}, err
	}
	removed := inv.pieces[index]
	next := make([]Piece, 0, len(inv.pieces)-1)
	next = append(next, inv.pieces[:index]...)
	next = append(next, inv.pieces[index+1:]...)
	return Inventory{pieces: next}, removed, nil
}

// Append adds p to the end of the inventory
func (inv Inventory) Append(p Piece) (Inventory, error) {
	if p.Shape.IsZero() {
		return inv, fmt.Errorf("%w: piece %d has no shape", ErrInvalidShape, p.ID)
	}
	if inv.Contains(p.ID) {
		return inv, fmt.Errorf("%w: piece %d", ErrDuplicatePiece, p.ID)
	}
	next := make([]Piece, len(inv.pieces), len(inv.pieces)+1)
	copy(next, inv.pieces)
	return Inventory{pieces: append(next, p)}, nil
}

// RotateAll returns the inventory with every piece turned a quarter turn
// clockwise
func (inv Inventory) RotateAll() Inventory {
	next := make([]Piece, len(inv.pieces))
	for i, p := range inv.pieces {
		next[i] = p.Rotated(1)
	}
	return Inventory{pieces: next}
}

// MarshalJSON encodes the inventory as an ordered list of pieces
func (inv Inventory) MarshalJSON() ([]byte, error) {
	return json.Marshal(inv.Pieces())
}

// UnmarshalJSON decodes an ordered list of pieces
func (inv *Inventory) UnmarshalJSON(data []byte) error {
	var pieces []Piece
	if err := json.Unmarshal(data, &pieces); err != nil {
		return err
	}
	out, err := NewInventory(pieces)
	if err != nil {
		return err
	}
	*inv = out
	return nil
}
