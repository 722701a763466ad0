package service

import (
	"time"

	"github.com/wricardo/grid-puzzle/game/engine"
)

// SessionInfo provides information about a puzzle session
type SessionInfo struct {
	ID             string            `json:"id"`
	CatalogID      string            `json:"catalog_id"`
	CatalogName    string            `json:"catalog_name"`
	Levels         int               `json:"levels"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// ActionResult contains the result of a single puzzle action. Success is
// false for rejected and no-op actions; the state is then unchanged.
type ActionResult struct {
	Success   bool              `json:"success"`
	Action    string            `json:"action"`
	Outcome   engine.Outcome    `json:"outcome"`
	Outcomes  []engine.Outcome  `json:"outcomes"`
	PieceID   int               `json:"piece_id,omitempty"`
	Message   string            `json:"message"`
	GameState *engine.GameState `json:"game_state"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// GameEvent represents an event that occurred during play, one per outcome
type GameEvent struct {
	Type      string             `json:"type"` // an engine.Outcome value
	Message   string             `json:"message"`
	Timestamp time.Time          `json:"timestamp"`
	PieceID   int                `json:"piece_id,omitempty"`
	Position  *engine.Coordinate `json:"position,omitempty"`
}

// HistoryOptions configures action history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated action history
type HistoryResponse struct {
	Actions      []engine.ActionHistoryEntry `json:"actions"`
	TotalActions int                         `json:"total_actions"`
	Page         int                         `json:"page"`
	PageSize     int                         `json:"page_size"`
	TotalPages   int                         `json:"total_pages"`
	HasNext      bool                        `json:"has_next"`
	HasPrevious  bool                        `json:"has_previous"`
}

// CatalogInfo provides information about a level catalog
type CatalogInfo struct {
	Filename       string `json:"filename,omitempty"` // empty for the built-in catalog
	CatalogID      string `json:"catalog_id"`         // The identifier to use for session creation
	Name           string `json:"name"`               // Display name
	Description    string `json:"description"`
	RotationPolicy string `json:"rotation_policy"`
	Levels         int    `json:"levels"`
	Pieces         int    `json:"pieces"`
}
