package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/wricardo/grid-puzzle/game/engine"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// gameServiceImpl implements the GameService interface. A single mutex
// serialises every engine operation so each action runs to completion before
// the next one starts.
type gameServiceImpl struct {
	sessions SessionManager
	catalogs CatalogManager
	logger   *slog.Logger
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance. A nil logger uses
// slog.Default().
func NewGameService(sessions SessionManager, catalogs CatalogManager, logger *slog.Logger) GameService {
	if logger == nil {
		logger = slog.Default()
	}
	return &gameServiceImpl{
		sessions: sessions,
		catalogs: catalogs,
		logger:   logger.With("component", "service"),
	}
}

// getCatalogID returns the catalog_id for a catalog display name, used for
// consistent API responses
func (s *gameServiceImpl) getCatalogID(catalogName string) string {
	available, err := s.catalogs.ListCatalogs()
	if err == nil {
		for _, info := range available {
			if info.Name == catalogName {
				return info.CatalogID
			}
		}
	}
	return catalogName
}

// CreateSession creates a new puzzle session on the named catalog, or the
// default catalog when catalogName is empty
func (s *gameServiceImpl) CreateSession(ctx context.Context, catalogName string) (*SessionInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var catalog *engine.Catalog
	if catalogName != "" {
		var err error
		catalog, err = s.catalogs.LoadCatalog(catalogName)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, ErrCatalogNotFound) {
				if available, listErr := s.catalogs.ListCatalogs(); listErr == nil && len(available) > 0 {
					ids := make([]string, 0, len(available))
					for _, info := range available {
						ids = append(ids, info.CatalogID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available catalogs: %v", ErrCatalogNotFound, catalogName, ids)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/catalogs to list available catalogs", ErrCatalogNotFound, catalogName)
			}
			return nil, fmt.Errorf("failed to load catalog %s: %w", catalogName, err)
		}
	} else {
		catalog = s.catalogs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	catalogID := catalogName
	if catalogID == "" {
		catalogID = s.getCatalogID(catalog.Name)
	}

	s.logger.Info("session created", "session", sess.ID, "catalog", catalogID)
	info := s.sessionInfo(sess)
	info.CatalogID = catalogID
	return info, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	s.logger.Info("session deleted", "session", sessionID)
	return nil
}

// SelectPiece selects an inventory piece by index
func (s *gameServiceImpl) SelectPiece(ctx context.Context, sessionID string, index int) (*ActionResult, error) {
	return s.act(ctx, sessionID, "select", nil, func(e *engine.GameEngine) engine.Result {
		return e.SelectPiece(index)
	})
}

// Rotate rotates according to the session catalog's rotation policy
func (s *gameServiceImpl) Rotate(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(ctx, sessionID, "rotate", nil, func(e *engine.GameEngine) engine.Result {
		return e.Rotate()
	})
}

// Place places the selected piece with its top-left corner at anchor. A
// non-nil index selects that piece first; the selection and the placement
// succeed or fail together.
func (s *gameServiceImpl) Place(ctx context.Context, sessionID string, anchor engine.Coordinate, index *int) (*ActionResult, error) {
	return s.act(ctx, sessionID, "place", &anchor, func(e *engine.GameEngine) engine.Result {
		if index != nil {
			return e.PlaceIndex(*index, anchor)
		}
		return e.AttemptPlacement(anchor)
	})
}

// Remove picks the piece covering cell back into the inventory
func (s *gameServiceImpl) Remove(ctx context.Context, sessionID string, cell engine.Coordinate) (*ActionResult, error) {
	return s.act(ctx, sessionID, "remove", &cell, func(e *engine.GameEngine) engine.Result {
		return e.AttemptRemoval(cell)
	})
}

// Click applies the board click contract at cell
func (s *gameServiceImpl) Click(ctx context.Context, sessionID string, cell engine.Coordinate) (*ActionResult, error) {
	return s.act(ctx, sessionID, "click", &cell, func(e *engine.GameEngine) engine.Result {
		return e.HandleCellClick(cell)
	})
}

// Reset restarts the current level
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(ctx, sessionID, "reset", nil, func(e *engine.GameEngine) engine.Result {
		return e.Reset()
	})
}

// AdvanceLevel moves a completed session to the next level
func (s *gameServiceImpl) AdvanceLevel(ctx context.Context, sessionID string) (*ActionResult, error) {
	return s.act(ctx, sessionID, "advance", nil, func(e *engine.GameEngine) engine.Result {
		return e.AdvanceLevel()
	})
}

// Preview returns hover feedback for the selected piece at anchor
func (s *gameServiceImpl) Preview(ctx context.Context, sessionID string, anchor engine.Coordinate) (*engine.Preview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	preview, ok := sess.Engine.Preview(anchor)
	if !ok {
		return nil, errors.New("no piece selected")
	}
	return &preview, nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// GetActionHistory returns paginated action history
func (s *gameServiceImpl) GetActionHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetActionHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultHistoryLimit
	}
	if opts.Limit > maxHistoryLimit {
		opts.Limit = maxHistoryLimit
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := min(start+opts.Limit, total)

	actions := []engine.ActionHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				actions = append(actions, history[i])
			}
		} else {
			actions = append(actions, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Actions:      actions,
		TotalActions: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// ListCatalogs returns available level catalogs
func (s *gameServiceImpl) ListCatalogs(ctx context.Context) ([]*CatalogInfo, error) {
	return s.catalogs.ListCatalogs()
}

// LoadCatalog loads a specific level catalog
func (s *gameServiceImpl) LoadCatalog(ctx context.Context, catalogName string) (*engine.Catalog, error) {
	return s.catalogs.LoadCatalog(catalogName)
}

// SaveCatalog saves a level catalog to disk
func (s *gameServiceImpl) SaveCatalog(ctx context.Context, catalogName string, catalog *engine.Catalog) error {
	if err := s.catalogs.SaveCatalog(catalogName, catalog); err != nil {
		return err
	}
	s.logger.Info("catalog saved", "catalog", catalogName, "levels", catalog.Len())
	return nil
}

// act runs one engine operation under the service lock and converts its
// Result into an ActionResult
func (s *gameServiceImpl) act(ctx context.Context, sessionID, action string, pos *engine.Coordinate, op func(*engine.GameEngine) engine.Result) (*ActionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	res := op(sess.Engine)
	state := sess.Engine.GetState()

	result := &ActionResult{
		Success:   res.Changed(),
		Action:    action,
		Outcome:   res.Outcome(),
		Outcomes:  res.Outcomes,
		PieceID:   res.PieceID,
		Message:   res.Message,
		GameState: state,
		Events:    buildEvents(res, pos, state),
	}

	attrs := []any{
		"session", sess.ID,
		"action", action,
		"outcome", string(result.Outcome),
		"level", state.Level,
		"pieces_left", state.Inventory.Len(),
	}
	if res.PieceID != 0 {
		attrs = append(attrs, "piece", res.PieceID)
	}
	if pos != nil {
		attrs = append(attrs, "row", pos.Row, "col", pos.Col)
	}
	if result.Success {
		s.logger.Info("action applied", attrs...)
	} else {
		s.logger.Debug("action not applied", append(attrs, "reason", res.Message)...)
	}

	return result, nil
}

// getSession looks up a session and refreshes its access time
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	info := &SessionInfo{
		ID:             sess.ID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessed(),
		GameState:      sess.Engine.GetState(),
	}
	if sess.Catalog != nil {
		info.CatalogID = s.getCatalogID(sess.Catalog.Name)
		info.CatalogName = sess.Catalog.Name
		info.Levels = sess.Catalog.Len()
	}
	return info
}

// buildEvents generates one event per outcome of the operation
func buildEvents(res engine.Result, pos *engine.Coordinate, state *engine.GameState) []GameEvent {
	events := make([]GameEvent, 0, len(res.Outcomes))
	now := time.Now()
	for _, outcome := range res.Outcomes {
		ev := GameEvent{
			Type:      string(outcome),
			Message:   res.Message,
			Timestamp: now,
			PieceID:   res.PieceID,
		}
		switch outcome {
		case engine.OutcomePlaced:
			ev.Message = fmt.Sprintf("Piece %d placed", res.PieceID)
			ev.Position = pos
		case engine.OutcomeRemoved, engine.OutcomePlacementRejected:
			ev.Position = pos
		case engine.OutcomeLevelComplete:
			ev.Message = fmt.Sprintf("Level %d complete", state.Level)
			ev.PieceID = 0
		}
		events = append(events, ev)
	}
	return events
}
