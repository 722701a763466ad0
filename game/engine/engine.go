package engine

import (
	"errors"
	"fmt"
)

// Engine provides the main interface for puzzle operations
type Engine interface {
	// State management
	GetState() *GameState
	Reset() Result
	IsComplete() bool

	// Inventory and rotation
	SelectPiece(index int) Result
	Rotate() Result
	RotateSelected() Result
	RotateAll() Result

	// Board operations
	AttemptPlacement(anchor Coordinate) Result
	PlaceIndex(index int, anchor Coordinate) Result
	AttemptRemoval(c Coordinate) Result
	HandleCellClick(c Coordinate) Result
	CanPlace(anchor Coordinate) bool
	Preview(anchor Coordinate) (Preview, bool)

	// Levels
	AdvanceLevel() Result
	GetCatalog() *Catalog
	CurrentLevel() Level

	// History
	GetActionHistory() []ActionHistoryEntry
	GetLastAction() *ActionHistoryEntry
}

// Preview is the hover feedback for the selected piece at an anchor: the
// in-bounds cells it would cover and whether the placement is legal.
type Preview struct {
	PieceID  int          `json:"piece_id"`
	Anchor   Coordinate   `json:"anchor"`
	Cells    []Coordinate `json:"cells"`
	CanPlace bool         `json:"can_place"`
}

// GameEngine implements the Engine interface. Every successful operation
// installs a new GameState; rejected and no-op operations leave the current
// one untouched.
type GameEngine struct {
	state   *GameState
	catalog *Catalog
}

// NewEngine creates a new engine positioned on the first level of catalog
func NewEngine(catalog *Catalog) (*GameEngine, error) {
	if catalog == nil {
		return nil, errors.New("catalog cannot be nil")
	}
	if catalog.Len() == 0 {
		return nil, fmt.Errorf("%w: catalog %q has no levels", ErrInvalidLevel, catalog.Name)
	}

	engine := &GameEngine{catalog: catalog}
	state, err := engine.levelState(0)
	if err != nil {
		return nil, err
	}
	engine.state = state
	return engine, nil
}

// NewEngineWithDefaults creates a new engine on the built-in catalog
func NewEngineWithDefaults() *GameEngine {
	engine, err := NewEngine(DefaultCatalog())
	if err != nil {
		panic(err)
	}
	return engine
}

// GetState returns the current snapshot. Callers must treat it as read-only.
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// GetCatalog returns the catalog the engine plays
func (e *GameEngine) GetCatalog() *Catalog {
	return e.catalog
}

// CurrentLevel returns the template of the level being played
func (e *GameEngine) CurrentLevel() Level {
	level, _ := e.catalog.Level(e.state.LevelIndex)
	return level
}

// IsComplete reports whether the inventory is empty
func (e *GameEngine) IsComplete() bool {
	return IsComplete(e.state.Inventory)
}

// IsComplete is the win condition: no pieces left to place
func IsComplete(inv Inventory) bool {
	return inv.IsEmpty()
}

// Reset rebuilds the board and inventory from the current level template,
// undoing every placement and rotation
func (e *GameEngine) Reset() Result {
	next, err := e.levelState(e.state.LevelIndex)
	if err != nil {
		return newResult(err.Error(), 0, OutcomeNoOp)
	}

	// Cumulative history survives a reset; only the current segment is cleared
	next.ActionHistory = e.state.ActionHistory
	next.TotalActions = e.state.TotalActions
	next.Message = fmt.Sprintf("Level %d reset.", next.Level)
	next.addActionToHistory("reset", OutcomeLevelReset, 0, nil)

	e.state = next
	return newResult(next.Message, 0, OutcomeLevelReset)
}

// SelectPiece selects the inventory piece at index. Under the selected-piece
// rotation policy the rotation counter starts over at 0.
func (e *GameEngine) SelectPiece(index int) Result {
	next, piece, err := e.state.withSelection(index)
	if err != nil {
		return newResult(fmt.Sprintf("Cannot select piece %d: %v", index, err), 0, OutcomeNoOp)
	}

	e.state = next
	return newResult(next.Message, piece.ID, OutcomeSelected)
}

// Rotate turns pieces according to the catalog's rotation policy
func (e *GameEngine) Rotate() Result {
	if e.state.RotationPolicy == RotateAllPieces {
		return e.RotateAll()
	}
	return e.RotateSelected()
}

// RotateSelected advances the rotation counter of the selection by one
// quarter turn. It never touches the board.
func (e *GameEngine) RotateSelected() Result {
	index, ok := e.state.SelectedIndex()
	if !ok {
		return newResult("Select a piece before rotating.", 0, OutcomeNoOp)
	}
	piece, err := e.state.Inventory.At(index)
	if err != nil {
		return newResult(err.Error(), 0, OutcomeNoOp)
	}

	next := e.state.clone()
	next.Rotation = normalizeRotation(next.Rotation + 1)
	next.Message = fmt.Sprintf("Piece %d rotated to %d degrees.", piece.ID, 90*next.Rotation)
	next.addActionToHistory("rotate", OutcomeRotated, piece.ID, nil)

	e.state = next
	return newResult(next.Message, piece.ID, OutcomeRotated)
}

// RotateAll turns every piece in the inventory a quarter turn clockwise
func (e *GameEngine) RotateAll() Result {
	if e.state.Inventory.IsEmpty() {
		return newResult("No pieces left to rotate.", 0, OutcomeNoOp)
	}

	next := e.state.clone()
	next.Inventory = next.Inventory.RotateAll()
	next.Rotation = 0
	next.Message = fmt.Sprintf("Rotated %d pieces.", next.Inventory.Len())
	next.addActionToHistory("rotate_all", OutcomeRotated, 0, nil)

	e.state = next
	return newResult(next.Message, 0, OutcomeRotated)
}

// AttemptPlacement places the selected piece with its top-left corner at
// anchor. Placement is all-or-nothing: a rejected attempt changes nothing.
func (e *GameEngine) AttemptPlacement(anchor Coordinate) Result {
	next, res := e.state.placed(anchor)
	if next != nil {
		e.state = next
	}
	return res
}

// PlaceIndex selects the piece at index and places it at anchor as one
// operation. Selecting the piece that is already selected keeps its
// rotation. When the placement is rejected the selection is not kept either.
func (e *GameEngine) PlaceIndex(index int, anchor Coordinate) Result {
	if current, ok := e.state.SelectedIndex(); ok && current == index {
		return e.AttemptPlacement(anchor)
	}

	staged, _, err := e.state.withSelection(index)
	if err != nil {
		return newResult(fmt.Sprintf("Cannot select piece %d: %v", index, err), 0, OutcomeNoOp)
	}

	next, res := staged.placed(anchor)
	if next == nil {
		return res
	}

	e.state = next
	res.Outcomes = append([]Outcome{OutcomeSelected}, res.Outcomes...)
	return res
}

// AttemptRemoval picks the piece covering c back off the board, appends it to
// the inventory and selects it. Empty, obstacle and off-board cells are
// no-ops.
func (e *GameEngine) AttemptRemoval(c Coordinate) Result {
	id, ok := e.state.Board.Cell(c).Piece()
	if !ok {
		return newResult(fmt.Sprintf("No piece at %s.", c), 0, OutcomeNoOp)
	}

	placement, tracked := e.state.Board.Placement(id)
	board, shape, _, err := e.state.Board.RemovePiece(id)
	if err != nil {
		return newResult(err.Error(), id, OutcomeNoOp)
	}

	recovered := Piece{ID: id, Shape: shape}
	if tracked {
		recovered.Orientation = placement.Orientation
	}
	inventory, err := e.state.Inventory.Append(recovered)
	if err != nil {
		return newResult(err.Error(), id, OutcomeNoOp)
	}

	selected := inventory.Len() - 1
	next := e.state.clone()
	next.Board = board
	next.Inventory = inventory
	next.Selected = &selected
	next.Rotation = 0
	next.Complete = false
	next.Message = fmt.Sprintf("Piece %d returned to inventory.", id)
	next.addActionToHistory("remove", OutcomeRemoved, id, &c)

	e.state = next
	return newResult(next.Message, id, OutcomeRemoved)
}

// HandleCellClick applies the board click contract: a piece cell removes the
// piece, an empty cell attempts placement and an obstacle does nothing
func (e *GameEngine) HandleCellClick(c Coordinate) Result {
	if !e.state.Board.InBounds(c) {
		return newResult(fmt.Sprintf("%s is off the board.", c), 0, OutcomeNoOp)
	}

	cell := e.state.Board.Cell(c)
	switch {
	case cell.IsObstacle():
		return newResult(fmt.Sprintf("%s is an obstacle.", c), 0, OutcomeNoOp)
	case cell.Kind == Occupied:
		return e.AttemptRemoval(c)
	default:
		return e.AttemptPlacement(c)
	}
}

// AdvanceLevel moves to the next level of the catalog. It is only available
// once the current level is complete and a next level exists.
func (e *GameEngine) AdvanceLevel() Result {
	if !e.state.Complete {
		return newResult("Complete the current level first.", 0, OutcomeLevelAdvanceUnavailable)
	}
	if !e.catalog.HasNext(e.state.LevelIndex) {
		return newResult("No more levels in this catalog.", 0, OutcomeLevelAdvanceUnavailable)
	}

	next, err := e.levelState(e.state.LevelIndex + 1)
	if err != nil {
		return newResult(err.Error(), 0, OutcomeLevelAdvanceUnavailable)
	}
	next.ActionHistory = e.state.ActionHistory
	next.TotalActions = e.state.TotalActions
	next.Message = fmt.Sprintf("New Level! Welcome to level %d!", next.Level)
	next.addActionToHistory("advance", OutcomeLevelAdvanced, 0, nil)

	e.state = next
	return newResult(next.Message, 0, OutcomeLevelAdvanced)
}

// CanPlace reports whether the selected piece, with its active rotation,
// fits at anchor
func (e *GameEngine) CanPlace(anchor Coordinate) bool {
	p, ok := e.Preview(anchor)
	return ok && p.CanPlace
}

// Preview computes hover feedback for the selected piece at anchor. It
// returns false when nothing is selected.
func (e *GameEngine) Preview(anchor Coordinate) (Preview, bool) {
	index, ok := e.state.SelectedIndex()
	if !ok {
		return Preview{}, false
	}
	piece, err := e.state.Inventory.At(index)
	if err != nil {
		return Preview{}, false
	}

	placement := e.state.effectivePlacement(piece, anchor)
	preview := Preview{
		PieceID:  piece.ID,
		Anchor:   anchor,
		Cells:    []Coordinate{},
		CanPlace: e.state.Board.IsPlaceable(placement.Shape, anchor),
	}
	for _, c := range placement.Cells() {
		if e.state.Board.InBounds(c) {
			preview.Cells = append(preview.Cells, c)
		}
	}
	return preview, true
}

// GetActionHistory returns the cumulative action history
func (e *GameEngine) GetActionHistory() []ActionHistoryEntry {
	return e.state.ActionHistory
}

// GetLastAction returns the last successful action, or nil if none
func (e *GameEngine) GetLastAction() *ActionHistoryEntry {
	if len(e.state.ActionHistory) == 0 {
		return nil
	}
	return &e.state.ActionHistory[len(e.state.ActionHistory)-1]
}

// levelState builds a fresh attempt of the level at index
func (e *GameEngine) levelState(index int) (*GameState, error) {
	level, ok := e.catalog.Level(index)
	if !ok {
		return nil, fmt.Errorf("%w: level index %d not in catalog %q", ErrInvalidLevel, index, e.catalog.Name)
	}
	inventory, err := NewInventory(level.Pieces)
	if err != nil {
		return nil, fmt.Errorf("%w: level %d: %v", ErrInvalidLevel, level.Number, err)
	}

	policy := e.catalog.RotationPolicy
	if !policy.Valid() {
		policy = RotateSelectedPiece
	}

	return &GameState{
		CatalogName:    e.catalog.Name,
		LevelIndex:     index,
		Level:          level.Number,
		Description:    level.Description,
		Board:          NewBoard(level),
		Inventory:      inventory,
		RotationPolicy: policy,
		Complete:       IsComplete(inventory),
		HasNextLevel:   e.catalog.HasNext(index),
		Message:        level.Description,
		ActionHistory:  []ActionHistoryEntry{},
		CurrentActions: []ActionHistoryEntry{},
	}, nil
}
