package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/wricardo/grid-puzzle/game/config"
	"github.com/wricardo/grid-puzzle/game/engine"
	"github.com/wricardo/grid-puzzle/game/service"
	"github.com/wricardo/grid-puzzle/game/session"
	"github.com/wricardo/grid-puzzle/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, catalogName string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Puzzle Operations
	SelectPieceFunc  func(ctx context.Context, sessionID string, index int) (*service.ActionResult, error)
	RotateFunc       func(ctx context.Context, sessionID string) (*service.ActionResult, error)
	PlaceFunc        func(ctx context.Context, sessionID string, anchor engine.Coordinate, index *int) (*service.ActionResult, error)
	RemoveFunc       func(ctx context.Context, sessionID string, cell engine.Coordinate) (*service.ActionResult, error)
	ClickFunc        func(ctx context.Context, sessionID string, cell engine.Coordinate) (*service.ActionResult, error)
	ResetFunc        func(ctx context.Context, sessionID string) (*service.ActionResult, error)
	AdvanceLevelFunc func(ctx context.Context, sessionID string) (*service.ActionResult, error)
	PreviewFunc      func(ctx context.Context, sessionID string, anchor engine.Coordinate) (*engine.Preview, error)

	// Game State
	GetGameStateFunc     func(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetActionHistoryFunc func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	// Catalogs
	ListCatalogsFunc func(ctx context.Context) ([]*service.CatalogInfo, error)
	LoadCatalogFunc  func(ctx context.Context, catalogName string) (*engine.Catalog, error)
	SaveCatalogFunc  func(ctx context.Context, catalogName string, catalog *engine.Catalog) error
}

func okResult(action string) *service.ActionResult {
	return &service.ActionResult{Success: true, Action: action, GameState: &engine.GameState{}}
}

// Session Management
func (m *MockGameService) CreateSession(ctx context.Context, catalogName string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, catalogName)
	}
	return &service.SessionInfo{ID: "test-session", CatalogID: catalogName, CreatedAt: time.Now()}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{ID: sessionID, CatalogID: "classic", CreatedAt: time.Now()}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

// Puzzle Operations
func (m *MockGameService) SelectPiece(ctx context.Context, sessionID string, index int) (*service.ActionResult, error) {
	if m.SelectPieceFunc != nil {
		return m.SelectPieceFunc(ctx, sessionID, index)
	}
	return okResult("select"), nil
}

func (m *MockGameService) Rotate(ctx context.Context, sessionID string) (*service.ActionResult, error) {
	if m.RotateFunc != nil {
		return m.RotateFunc(ctx, sessionID)
	}
	return okResult("rotate"), nil
}

func (m *MockGameService) Place(ctx context.Context, sessionID string, anchor engine.Coordinate, index *int) (*service.ActionResult, error) {
	if m.PlaceFunc != nil {
		return m.PlaceFunc(ctx, sessionID, anchor, index)
	}
	return okResult("place"), nil
}

func (m *MockGameService) Remove(ctx context.Context, sessionID string, cell engine.Coordinate) (*service.ActionResult, error) {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, sessionID, cell)
	}
	return okResult("remove"), nil
}

func (m *MockGameService) Click(ctx context.Context, sessionID string, cell engine.Coordinate) (*service.ActionResult, error) {
	if m.ClickFunc != nil {
		return m.ClickFunc(ctx, sessionID, cell)
	}
	return okResult("click"), nil
}

func (m *MockGameService) Reset(ctx context.Context, sessionID string) (*service.ActionResult, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	return okResult("reset"), nil
}

func (m *MockGameService) AdvanceLevel(ctx context.Context, sessionID string) (*service.ActionResult, error) {
	if m.AdvanceLevelFunc != nil {
		return m.AdvanceLevelFunc(ctx, sessionID)
	}
	return okResult("advance"), nil
}

func (m *MockGameService) Preview(ctx context.Context, sessionID string, anchor engine.Coordinate) (*engine.Preview, error) {
	if m.PreviewFunc != nil {
		return m.PreviewFunc(ctx, sessionID, anchor)
	}
	return &engine.Preview{Anchor: anchor}, nil
}

// Game State
func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return &engine.GameState{}, nil
}

func (m *MockGameService) GetActionHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetActionHistoryFunc != nil {
		return m.GetActionHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Actions:    []engine.ActionHistoryEntry{},
		Page:       opts.Page,
		PageSize:   opts.Limit,
		TotalPages: 1,
	}, nil
}

// Catalogs
func (m *MockGameService) ListCatalogs(ctx context.Context) ([]*service.CatalogInfo, error) {
	if m.ListCatalogsFunc != nil {
		return m.ListCatalogsFunc(ctx)
	}
	return []*service.CatalogInfo{}, nil
}

func (m *MockGameService) LoadCatalog(ctx context.Context, catalogName string) (*engine.Catalog, error) {
	if m.LoadCatalogFunc != nil {
		return m.LoadCatalogFunc(ctx, catalogName)
	}
	return engine.DefaultCatalog(), nil
}

func (m *MockGameService) SaveCatalog(ctx context.Context, catalogName string, catalog *engine.Catalog) error {
	if m.SaveCatalogFunc != nil {
		return m.SaveCatalogFunc(ctx, catalogName, catalog)
	}
	return nil
}

// Test helpers
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestServer(mockService *MockGameService) *Server {
	hub := websocket.NewHub(testLogger())
	go hub.Run()
	return NewServer(mockService, hub, testLogger())
}

func makeRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewBuffer(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), target); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
}

// Session Management Tests

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]string
		setupMock      func(*MockGameService)
		expectedStatus int
		validateResp   func(*testing.T, *httptest.ResponseRecorder)
	}{
		{
			name:        "Create session with default catalog",
			requestBody: nil,
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, catalogName string) (*service.SessionInfo, error) {
					if catalogName != "" {
						t.Errorf("Expected empty catalog name, got %s", catalogName)
					}
					return &service.SessionInfo{ID: "ab12", CatalogID: "classic"}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.ID != "ab12" {
					t.Errorf("Expected session ID ab12, got %s", resp.ID)
				}
			},
		},
		{
			name:        "Create session with specific catalog",
			requestBody: map[string]string{"catalog_id": "hard"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, catalogName string) (*service.SessionInfo, error) {
					return &service.SessionInfo{ID: "cd34", CatalogID: catalogName}, nil
				}
			},
			expectedStatus: http.StatusCreated,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp service.SessionInfo
				parseResponse(t, w, &resp)
				if resp.CatalogID != "hard" {
					t.Errorf("Expected catalog 'hard', got %s", resp.CatalogID)
				}
			},
		},
		{
			name:        "Unknown catalog",
			requestBody: map[string]string{"catalog_id": "nope"},
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, catalogName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("%w: %s", service.ErrCatalogNotFound, catalogName)
				}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "Handle service error",
			setupMock: func(m *MockGameService) {
				m.CreateSessionFunc = func(ctx context.Context, catalogName string) (*service.SessionInfo, error) {
					return nil, fmt.Errorf("service error")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			validateResp: func(t *testing.T, w *httptest.ResponseRecorder) {
				var resp map[string]string
				parseResponse(t, w, &resp)
				if resp["error"] != "service error" {
					t.Errorf("Expected error message 'service error', got %s", resp["error"])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockGameService{}
			if tt.setupMock != nil {
				tt.setupMock(mockService)
			}

			server := setupTestServer(mockService)
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/sessions", tt.requestBody))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.validateResp != nil {
				tt.validateResp(t, w)
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	now := time.Now()
	mockService := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "old", CreatedAt: now.Add(-time.Hour), LastAccessedAt: now.Add(-time.Hour)},
				{ID: "new", CreatedAt: now, LastAccessedAt: now},
				{ID: "mid", CreatedAt: now.Add(-time.Minute), LastAccessedAt: now.Add(-time.Minute)},
			}, nil
		},
	}
	server := setupTestServer(mockService)

	tests := []struct {
		name      string
		query     string
		wantFirst string
		wantCount int
	}{
		{name: "default most recent first", query: "", wantFirst: "new", wantCount: 3},
		{name: "created ascending", query: "?sort=created&order=asc", wantFirst: "old", wantCount: 3},
		{name: "limit", query: "?limit=1", wantFirst: "new", wantCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("GET", "/api/sessions"+tt.query, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			var resp struct {
				Count    int                    `json:"count"`
				Total    int                    `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			parseResponse(t, w, &resp)
			if resp.Count != tt.wantCount || resp.Total != 3 {
				t.Errorf("Expected count %d of 3, got %d of %d", tt.wantCount, resp.Count, resp.Total)
			}
			if resp.Sessions[0].ID != tt.wantFirst {
				t.Errorf("Expected first session %s, got %s", tt.wantFirst, resp.Sessions[0].ID)
			}
		})
	}
}

func TestGetSession(t *testing.T) {
	mockService := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID != "ab12" {
				return nil, fmt.Errorf("%w: %s", service.ErrSessionNotFound, sessionID)
			}
			return &service.SessionInfo{ID: sessionID}, nil
		},
	}
	server := setupTestServer(mockService)

	t.Run("existing session", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := mux.SetURLVars(makeRequest("GET", "/api/sessions/ab12", nil), map[string]string{"id": "ab12"})
		server.handleGetSession(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
	})

	t.Run("session not found", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/sessions/zzzz", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
		var resp map[string]string
		parseResponse(t, w, &resp)
		if resp["error"] != "session not found: zzzz" {
			t.Errorf("Unexpected error message %q", resp["error"])
		}
	})
}

func TestDeleteSession(t *testing.T) {
	deleted := ""
	mockService := &MockGameService{
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			if sessionID == "missing" {
				return service.ErrSessionNotFound
			}
			deleted = sessionID
			return nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("DELETE", "/api/sessions/ab12", nil))
	if w.Code != http.StatusOK || deleted != "ab12" {
		t.Errorf("Expected ab12 deleted with 200, got %d (%q)", w.Code, deleted)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("DELETE", "/api/sessions/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

// Puzzle Operation Tests

func TestSelectPiece(t *testing.T) {
	var gotIndex int
	mockService := &MockGameService{
		SelectPieceFunc: func(ctx context.Context, sessionID string, index int) (*service.ActionResult, error) {
			gotIndex = index
			return okResult("select"), nil
		},
	}
	server := setupTestServer(mockService)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{name: "valid index", body: map[string]int{"index": 2}, expectedStatus: http.StatusOK},
		{name: "missing index", body: map[string]int{}, expectedStatus: http.StatusBadRequest},
		{name: "invalid body", body: "oops", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ab12/select", tt.body))
			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
		})
	}

	if gotIndex != 2 {
		t.Errorf("Expected index 2, got %d", gotIndex)
	}
}

func TestPlace(t *testing.T) {
	one := 1
	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectPlace    bool
		expectIndex    *int
	}{
		{name: "place selected piece", body: map[string]int{"row": 3, "col": 4}, expectedStatus: http.StatusOK, expectPlace: true},
		{name: "select and place", body: map[string]int{"row": 3, "col": 4, "index": 1}, expectedStatus: http.StatusOK, expectPlace: true, expectIndex: &one},
		{name: "missing col", body: map[string]int{"row": 3}, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected, placed := false, false
			mockService := &MockGameService{
				SelectPieceFunc: func(ctx context.Context, sessionID string, index int) (*service.ActionResult, error) {
					selected = true
					return okResult("select"), nil
				},
				PlaceFunc: func(ctx context.Context, sessionID string, anchor engine.Coordinate, index *int) (*service.ActionResult, error) {
					placed = true
					if anchor != (engine.Coordinate{Row: 3, Col: 4}) {
						t.Errorf("Unexpected anchor %v", anchor)
					}
					if (index == nil) != (tt.expectIndex == nil) || (index != nil && *index != *tt.expectIndex) {
						t.Errorf("Unexpected index %v, want %v", index, tt.expectIndex)
					}
					return okResult("place"), nil
				},
			}
			server := setupTestServer(mockService)

			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", "/api/sessions/ab12/place", tt.body))

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if selected {
				t.Error("Place must not issue a separate select")
			}
			if placed != tt.expectPlace {
				t.Errorf("placed=%v, want %v", placed, tt.expectPlace)
			}
		})
	}
}

func TestActionRoutes(t *testing.T) {
	var called []string
	record := func(action string) *service.ActionResult {
		called = append(called, action)
		return okResult(action)
	}
	mockService := &MockGameService{
		RotateFunc: func(ctx context.Context, sessionID string) (*service.ActionResult, error) {
			return record("rotate"), nil
		},
		RemoveFunc: func(ctx context.Context, sessionID string, cell engine.Coordinate) (*service.ActionResult, error) {
			return record("remove"), nil
		},
		ClickFunc: func(ctx context.Context, sessionID string, cell engine.Coordinate) (*service.ActionResult, error) {
			return record("click"), nil
		},
		ResetFunc: func(ctx context.Context, sessionID string) (*service.ActionResult, error) {
			return record("reset"), nil
		},
		AdvanceLevelFunc: func(ctx context.Context, sessionID string) (*service.ActionResult, error) {
			return nil, fmt.Errorf("%w: %s", service.ErrSessionNotFound, sessionID)
		},
	}
	server := setupTestServer(mockService)
	cell := map[string]int{"row": 1, "col": 1}

	tests := []struct {
		path           string
		body           interface{}
		expectedStatus int
	}{
		{path: "/api/sessions/ab12/rotate", expectedStatus: http.StatusOK},
		{path: "/api/sessions/ab12/remove", body: cell, expectedStatus: http.StatusOK},
		{path: "/api/sessions/ab12/click", body: cell, expectedStatus: http.StatusOK},
		{path: "/api/sessions/ab12/click", body: map[string]int{}, expectedStatus: http.StatusBadRequest},
		{path: "/api/sessions/ab12/reset", expectedStatus: http.StatusOK},
		{path: "/api/sessions/gone/advance", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", tt.path, tt.body))
		if w.Code != tt.expectedStatus {
			t.Errorf("%s: expected status %d, got %d", tt.path, tt.expectedStatus, w.Code)
		}
	}

	want := []string{"rotate", "remove", "click", "reset"}
	if fmt.Sprint(called) != fmt.Sprint(want) {
		t.Errorf("Expected calls %v, got %v", want, called)
	}
}

func TestPreview(t *testing.T) {
	mockService := &MockGameService{
		PreviewFunc: func(ctx context.Context, sessionID string, anchor engine.Coordinate) (*engine.Preview, error) {
			if anchor.Row == 9 {
				return nil, fmt.Errorf("no piece selected")
			}
			return &engine.Preview{PieceID: 2, Anchor: anchor, CanPlace: true}, nil
		},
	}
	server := setupTestServer(mockService)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/ab12/preview?row=1&col=2", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var preview engine.Preview
	parseResponse(t, w, &preview)
	if preview.PieceID != 2 || preview.Anchor != (engine.Coordinate{Row: 1, Col: 2}) || !preview.CanPlace {
		t.Errorf("Unexpected preview %+v", preview)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/ab12/preview?row=9&col=0", nil))
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 without selection, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/ab12/preview?row=x", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestGetHistory(t *testing.T) {
	var got service.HistoryOptions
	mockService := &MockGameService{
		GetActionHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
			got = opts
			return &service.HistoryResponse{Actions: []engine.ActionHistoryEntry{}}, nil
		},
	}
	server := setupTestServer(mockService)

	tests := []struct {
		query string
		want  service.HistoryOptions
	}{
		{query: "", want: service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
		{query: "?page=2&limit=5&order=asc", want: service.HistoryOptions{Page: 2, Limit: 5, Order: "asc"}},
		{query: "?page=-1&order=sideways", want: service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/sessions/ab12/history"+tt.query, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%q: expected status 200, got %d", tt.query, w.Code)
		}
		if got != tt.want {
			t.Errorf("%q: expected options %+v, got %+v", tt.query, tt.want, got)
		}
	}
}

// Catalog Tests

func TestCatalogs(t *testing.T) {
	var savedAs string
	mockService := &MockGameService{
		ListCatalogsFunc: func(ctx context.Context) ([]*service.CatalogInfo, error) {
			return []*service.CatalogInfo{{CatalogID: "classic", Levels: 3}}, nil
		},
		LoadCatalogFunc: func(ctx context.Context, catalogName string) (*engine.Catalog, error) {
			if catalogName != "classic" {
				return nil, service.ErrCatalogNotFound
			}
			return engine.DefaultCatalog(), nil
		},
		SaveCatalogFunc: func(ctx context.Context, catalogName string, catalog *engine.Catalog) error {
			savedAs = catalogName
			return nil
		},
	}
	server := setupTestServer(mockService)

	t.Run("list", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/catalogs", nil))
		var infos []service.CatalogInfo
		parseResponse(t, w, &infos)
		if len(infos) != 1 || infos[0].CatalogID != "classic" {
			t.Errorf("Unexpected catalogs %+v", infos)
		}
	})

	t.Run("get", func(t *testing.T) {
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/catalogs/classic", nil))
		var spec engine.CatalogSpec
		parseResponse(t, w, &spec)
		if len(spec.Levels) != 3 {
			t.Errorf("Expected 3 levels, got %d", len(spec.Levels))
		}

		w = httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", "/api/catalogs/missing", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})

	t.Run("create", func(t *testing.T) {
		spec := engine.DefaultCatalog().Spec()
		spec.Name = "My Levels"

		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", "/api/catalogs", spec))
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
		}
		if savedAs != "my-levels" {
			t.Errorf("Expected catalog saved as my-levels, got %q", savedAs)
		}
	})

	t.Run("create invalid", func(t *testing.T) {
		spec := &engine.CatalogSpec{Name: "Empty"}

		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("POST", "/api/catalogs", spec))
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestHealthAndRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	server := NewServer(&MockGameService{}, nil, slog.New(slog.NewTextHandler(&buf, nil)))

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, makeRequest("GET", "/api/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !bytes.Contains(buf.Bytes(), []byte("path=/api/health")) || !bytes.Contains(buf.Bytes(), []byte("status=200")) {
		t.Errorf("Expected request log line, got %q", buf.String())
	}
}

// TestEndToEnd drives the real service stack through the router and solves
// level 1 of the built-in catalog
func TestEndToEnd(t *testing.T) {
	catalogs, err := config.NewManager("")
	if err != nil {
		t.Fatalf("Failed to create catalog manager: %v", err)
	}
	svc := service.NewGameService(session.NewManager(), catalogs, testLogger())
	server := NewServer(svc, nil, testLogger())

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions", map[string]string{"catalog_id": "classic"}))
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var info service.SessionInfo
	parseResponse(t, w, &info)

	var result service.ActionResult
	for _, anchor := range []engine.Coordinate{{Row: 0, Col: 0}, {Row: 0, Col: 4}, {Row: 4, Col: 4}} {
		w = httptest.NewRecorder()
		body := map[string]int{"row": anchor.Row, "col": anchor.Col, "index": 0}
		server.ServeHTTP(w, makeRequest("POST", "/api/sessions/"+info.ID+"/place", body))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		parseResponse(t, w, &result)
		if !result.Success {
			t.Fatalf("Placement at %v failed: %s", anchor, result.Message)
		}
	}

	if result.Outcome != engine.OutcomeLevelComplete || !result.GameState.Complete {
		t.Fatalf("Expected level complete, got %s", result.Outcome)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions/"+info.ID+"/advance", nil))
	parseResponse(t, w, &result)
	if result.GameState.Level != 2 {
		t.Errorf("Expected level 2 after advancing, got %d", result.GameState.Level)
	}

	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("GET", "/api/sessions/"+info.ID+"/history?order=asc&limit=100", nil))
	var history service.HistoryResponse
	parseResponse(t, w, &history)
	// three selects, three placements, one advance
	if history.TotalActions != 7 || history.Actions[6].Action != "advance" {
		t.Errorf("Unexpected history %+v", history)
	}
}

// TestRejectedPlaceWithIndexChangesNothing checks that a place request carrying
// an index is all-or-nothing against the real service
func TestRejectedPlaceWithIndexChangesNothing(t *testing.T) {
	catalogs, err := config.NewManager("")
	if err != nil {
		t.Fatalf("Failed to create catalog manager: %v", err)
	}
	svc := service.NewGameService(session.NewManager(), catalogs, testLogger())
	server := NewServer(svc, nil, testLogger())

	w := httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", "/api/sessions", nil))
	var info service.SessionInfo
	parseResponse(t, w, &info)
	base := "/api/sessions/" + info.ID

	state := func() engine.GameState {
		t.Helper()
		w := httptest.NewRecorder()
		server.ServeHTTP(w, makeRequest("GET", base+"/state", nil))
		var gs engine.GameState
		parseResponse(t, w, &gs)
		return gs
	}

	server.ServeHTTP(httptest.NewRecorder(), makeRequest("POST", base+"/select", map[string]int{"index": 0}))
	server.ServeHTTP(httptest.NewRecorder(), makeRequest("POST", base+"/rotate", nil))
	before := state()
	if before.Rotation != 1 || before.TotalActions != 2 {
		t.Fatalf("Unexpected setup state: rotation=%d actions=%d", before.Rotation, before.TotalActions)
	}

	tests := []struct {
		name  string
		index int
	}{
		{"index of current selection", 0},
		{"index of another piece", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			server.ServeHTTP(w, makeRequest("POST", base+"/place", map[string]int{"row": 9, "col": 9, "index": tt.index}))
			var result service.ActionResult
			parseResponse(t, w, &result)
			if result.Success || result.Outcome != engine.OutcomePlacementRejected {
				t.Fatalf("Expected placement_rejected, got %s", result.Outcome)
			}

			after := state()
			selected, ok := after.SelectedIndex()
			if !ok || selected != 0 {
				t.Errorf("Expected selection 0 to survive, got %v", after.Selected)
			}
			if after.Rotation != before.Rotation {
				t.Errorf("Expected rotation %d, got %d", before.Rotation, after.Rotation)
			}
			if after.TotalActions != before.TotalActions {
				t.Errorf("Expected %d actions, got %d", before.TotalActions, after.TotalActions)
			}
			if after.Inventory.Len() != before.Inventory.Len() || after.Board.OccupiedCount() != 0 {
				t.Error("Rejected placement changed board or inventory")
			}
		})
	}

	// The rotation is kept when placing the selected piece by its index
	w = httptest.NewRecorder()
	server.ServeHTTP(w, makeRequest("POST", base+"/place", map[string]int{"row": 0, "col": 0, "index": 0}))
	var result service.ActionResult
	parseResponse(t, w, &result)
	if !result.Success {
		t.Fatalf("Expected placement to succeed: %s", result.Message)
	}
	p, ok := result.GameState.Board.Placement(result.PieceID)
	if !ok || p.Orientation != 1 {
		t.Errorf("Expected the placed piece to keep one quarter turn, got %+v", p)
	}
}
