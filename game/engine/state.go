package engine

import (
	"fmt"
	"time"
)

// clone returns a copy of the state that can be modified without affecting
// the receiver. Board and Inventory are persistent values and are shared.
func (gs *GameState) clone() *GameState {
	next := *gs
	if gs.Selected != nil {
		selected := *gs.Selected
		next.Selected = &selected
	}
	next.ActionHistory = append([]ActionHistoryEntry(nil), gs.ActionHistory...)
	next.CurrentActions = append([]ActionHistoryEntry(nil), gs.CurrentActions...)
	return &next
}

// effectivePlacement is the placement piece would make at anchor: its stored
// shape plus the active selection rotation
func (gs *GameState) effectivePlacement(piece Piece, anchor Coordinate) Placement {
	turns := 0
	if gs.RotationPolicy == RotateSelectedPiece {
		turns = gs.Rotation
	}
	rotated := piece.Rotated(turns)
	return Placement{
		PieceID:     piece.ID,
		Anchor:      anchor,
		Shape:       rotated.Shape,
		Orientation: rotated.Orientation,
	}
}

// withSelection returns a copy of the state with the piece at index
// selected and the selection recorded in history
func (gs *GameState) withSelection(index int) (*GameState, Piece, error) {
	if _, err := gs.Inventory.Select(index); err != nil {
		return nil, Piece{}, err
	}
	piece, _ := gs.Inventory.At(index)

	next := gs.clone()
	next.Selected = &index
	if next.RotationPolicy == RotateSelectedPiece {
		next.Rotation = 0
	}
	next.Message = fmt.Sprintf("Piece %d selected.", piece.ID)
	next.addActionToHistory("select", OutcomeSelected, piece.ID, nil)
	return next, piece, nil
}

// placed computes the state after placing the selected piece at anchor. It
// returns a nil state when nothing may change; the receiver is never
// modified.
func (gs *GameState) placed(anchor Coordinate) (*GameState, Result) {
	index, ok := gs.SelectedIndex()
	if !ok {
		return nil, newResult("Select a piece first.", 0, OutcomeNoOp)
	}
	piece, err := gs.Inventory.At(index)
	if err != nil {
		return nil, newResult(err.Error(), 0, OutcomeNoOp)
	}

	placement := gs.effectivePlacement(piece, anchor)
	board, err := gs.Board.place(placement)
	if err != nil {
		return nil, newResult(fmt.Sprintf("This piece cannot be placed here: %v", err), piece.ID, OutcomePlacementRejected)
	}
	inventory, _, err := gs.Inventory.RemoveAt(index)
	if err != nil {
		return nil, newResult(err.Error(), piece.ID, OutcomePlacementRejected)
	}

	next := gs.clone()
	next.Board = board
	next.Inventory = inventory
	next.Selected = nil
	next.Rotation = 0
	next.Message = fmt.Sprintf("Piece %d placed at %s.", piece.ID, anchor)
	next.addActionToHistory("place", OutcomePlaced, piece.ID, &anchor)

	outcomes := []Outcome{OutcomePlaced}

	// Win detection runs strictly after the inventory mutation
	if IsComplete(next.Inventory) {
		next.Complete = true
		next.Message = fmt.Sprintf("Level Complete! You've successfully completed level %d!", next.Level)
		outcomes = append(outcomes, OutcomeLevelComplete)
	}

	return next, newResult(next.Message, piece.ID, outcomes...)
}

// addActionToHistory records a successful action
func (gs *GameState) addActionToHistory(action string, outcome Outcome, pieceID int, pos *Coordinate) {
	var position *Coordinate
	if pos != nil {
		p := *pos
		position = &p
	}
	entry := ActionHistoryEntry{
		Action:       action,
		Outcome:      outcome,
		PieceID:      pieceID,
		Position:     position,
		Level:        gs.Level,
		PiecesLeft:   gs.Inventory.Len(),
		Timestamp:    time.Now().Unix(),
		ActionNumber: gs.TotalActions + 1,
	}
	// Append to cumulative history (never cleared by reset) and increment total
	gs.ActionHistory = append(gs.ActionHistory, entry)
	gs.TotalActions++

	// Append to current segment history and increment its counter
	gs.CurrentActions = append(gs.CurrentActions, entry)
	gs.CurrentActionsCount++
}
