package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wricardo/grid-puzzle/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrCatalogNotFound = errors.New("catalog not found")
)

// GameService defines all puzzle-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, catalogName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Puzzle Operations
	SelectPiece(ctx context.Context, sessionID string, index int) (*ActionResult, error)
	Rotate(ctx context.Context, sessionID string) (*ActionResult, error)
	Place(ctx context.Context, sessionID string, anchor engine.Coordinate, index *int) (*ActionResult, error)
	Remove(ctx context.Context, sessionID string, cell engine.Coordinate) (*ActionResult, error)
	Click(ctx context.Context, sessionID string, cell engine.Coordinate) (*ActionResult, error)
	Reset(ctx context.Context, sessionID string) (*ActionResult, error)
	AdvanceLevel(ctx context.Context, sessionID string) (*ActionResult, error)
	Preview(ctx context.Context, sessionID string, anchor engine.Coordinate) (*engine.Preview, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetActionHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Catalogs
	ListCatalogs(ctx context.Context) ([]*CatalogInfo, error)
	LoadCatalog(ctx context.Context, catalogName string) (*engine.Catalog, error)
	SaveCatalog(ctx context.Context, catalogName string, catalog *engine.Catalog) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, catalog *engine.Catalog) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, catalog *engine.Catalog) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// CatalogManager handles level catalog loading
type CatalogManager interface {
	LoadCatalog(name string) (*engine.Catalog, error)
	ListCatalogs() ([]*CatalogInfo, error)
	GetDefault() *engine.Catalog
	SaveCatalog(name string, catalog *engine.Catalog) error
}

// Session represents an active puzzle session. The access time is read and
// written by concurrent lookups, so it sits behind its own mutex.
type Session struct {
	ID        string
	Engine    *engine.GameEngine
	Catalog   *engine.Catalog
	CreatedAt time.Time

	mu             sync.Mutex
	lastAccessedAt time.Time
}

// NewSession creates a session created and last accessed now
func NewSession(id string, eng *engine.GameEngine, catalog *engine.Catalog) *Session {
	now := time.Now()
	return &Session{
		ID:             id,
		Engine:         eng,
		Catalog:        catalog,
		CreatedAt:      now,
		lastAccessedAt: now,
	}
}

// Touch records an access at t
func (s *Session) Touch(t time.Time) {
	s.mu.Lock()
	s.lastAccessedAt = t
	s.mu.Unlock()
}

// LastAccessed returns the time of the last access
func (s *Session) LastAccessed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccessedAt
}
