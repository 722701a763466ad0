package engine

import "fmt"

// CellKind represents the state a board cell can be in
type CellKind string

const (
	Empty    CellKind = "empty"
	Obstacle CellKind = "obstacle"
	Occupied CellKind = "piece"

	// Validation constants
	DefaultBoardSize = 10
	MinBoardSize     = 3
	MaxBoardSize     = 50
	MaxPieces        = 64
	Orientations     = 4
)

// Cell is a tagged variant: Empty, Obstacle or OccupiedBy(PieceID).
// PieceID is only meaningful when Kind is Occupied.
type Cell struct {
	Kind    CellKind `json:"kind"`
	PieceID int      `json:"piece_id,omitempty"`
}

// EmptyCell returns an empty cell
func EmptyCell() Cell { return Cell{Kind: Empty} }

// ObstacleCell returns a fixed obstacle cell
func ObstacleCell() Cell { return Cell{Kind: Obstacle} }

// OccupiedBy returns a cell covered by the given piece
func OccupiedBy(pieceID int) Cell { return Cell{Kind: Occupied, PieceID: pieceID} }

// IsEmpty reports whether a piece may be placed on the cell
func (c Cell) IsEmpty() bool { return c.Kind == Empty || c.Kind == "" }

// IsObstacle reports whether the cell is a fixed obstacle
func (c Cell) IsObstacle() bool { return c.Kind == Obstacle }

// Piece reports the occupying piece id, if any
func (c Cell) Piece() (int, bool) {
	if c.Kind != Occupied {
		return 0, false
	}
	return c.PieceID, true
}

// Coordinate represents a (row, col) position on the board
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Offset returns the coordinate shifted by dr rows and dc columns
func (c Coordinate) Offset(dr, dc int) Coordinate {
	return Coordinate{Row: c.Row + dr, Col: c.Col + dc}
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// RotationPolicy selects which pieces a rotate action turns
type RotationPolicy string

const (
	// RotateSelectedPiece turns only the selected piece via a per-selection
	// counter that resets on every new selection.
	RotateSelectedPiece RotationPolicy = "selected"
	// RotateAllPieces turns every inventory piece in place.
	RotateAllPieces RotationPolicy = "all"
)

// Valid reports whether p names a known policy
func (p RotationPolicy) Valid() bool {
	return p == RotateSelectedPiece || p == RotateAllPieces
}

// Outcome is the signal returned to the caller for every engine operation
type Outcome string

const (
	OutcomeSelected                Outcome = "selected"
	OutcomeRotated                 Outcome = "rotated"
	OutcomePlaced                  Outcome = "placed"
	OutcomePlacementRejected       Outcome = "placement_rejected"
	OutcomeRemoved                 Outcome = "removed"
	OutcomeNoOp                    Outcome = "no_op"
	OutcomeLevelComplete           Outcome = "level_complete"
	OutcomeLevelReset              Outcome = "level_reset"
	OutcomeLevelAdvanced           Outcome = "level_advanced"
	OutcomeLevelAdvanceUnavailable Outcome = "level_advance_unavailable"
)

// Result reports what an operation did. Outcomes are in the order they
// happened, so a final placement yields [placed, level_complete].
type Result struct {
	Outcomes []Outcome `json:"outcomes"`
	PieceID  int       `json:"piece_id,omitempty"`
	Message  string    `json:"message,omitempty"`
}

// Outcome returns the last outcome of the operation
func (r Result) Outcome() Outcome {
	if len(r.Outcomes) == 0 {
		return OutcomeNoOp
	}
	return r.Outcomes[len(r.Outcomes)-1]
}

// Has reports whether the operation emitted o
func (r Result) Has(o Outcome) bool {
	for _, got := range r.Outcomes {
		if got == o {
			return true
		}
	}
	return false
}

// Changed reports whether the operation produced a new state
func (r Result) Changed() bool {
	switch r.Outcome() {
	case OutcomeNoOp, OutcomePlacementRejected, OutcomeLevelAdvanceUnavailable:
		return false
	}
	return true
}

func newResult(message string, pieceID int, outcomes ...Outcome) Result {
	return Result{Outcomes: outcomes, PieceID: pieceID, Message: message}
}

// GameState represents the complete puzzle session snapshot. A state held by
// callers is never modified by the engine; every successful operation
// installs a new one.
type GameState struct {
	CatalogName    string         `json:"catalog_name"`
	LevelIndex     int            `json:"level_index"`
	Level          int            `json:"level"`
	Description    string         `json:"description"`
	Board          Board          `json:"board"`
	Inventory      Inventory      `json:"inventory"`
	Selected       *int           `json:"selected"`
	Rotation       int            `json:"rotation"`
	RotationPolicy RotationPolicy `json:"rotation_policy"`
	Complete       bool           `json:"complete"`
	HasNextLevel   bool           `json:"has_next_level"`
	Message        string         `json:"message"`

	ActionHistory []ActionHistoryEntry `json:"action_history"`
	TotalActions  int                  `json:"total_actions"`

	// CurrentActions tracks only the actions since the last reset or level
	// change while ActionHistory remains cumulative.
	CurrentActions      []ActionHistoryEntry `json:"current_actions"`
	CurrentActionsCount int                  `json:"current_actions_count"`
}

// SelectedIndex returns the selected inventory index, if any
func (gs *GameState) SelectedIndex() (int, bool) {
	if gs.Selected == nil {
		return 0, false
	}
	return *gs.Selected, true
}

// ActionHistoryEntry represents a single successful action in the session
type ActionHistoryEntry struct {
	Action       string      `json:"action"`
	Outcome      Outcome     `json:"outcome"`
	PieceID      int         `json:"piece_id,omitempty"`
	Position     *Coordinate `json:"position,omitempty"`
	Level        int         `json:"level"`
	PiecesLeft   int         `json:"pieces_left"`
	Timestamp    int64       `json:"timestamp"`
	ActionNumber int         `json:"action_number"`
}
