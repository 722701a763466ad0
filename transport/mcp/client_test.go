package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/grid-puzzle/api"
	"github.com/wricardo/grid-puzzle/game/config"
	"github.com/wricardo/grid-puzzle/game/engine"
	"github.com/wricardo/grid-puzzle/game/service"
	"github.com/wricardo/grid-puzzle/game/session"
)

// newTestAPI starts the real REST API with the built-in catalog
func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	catalogs, err := config.NewManager("")
	require.NoError(t, err)

	svc := service.NewGameService(session.NewManager(), catalogs, logger)
	srv := httptest.NewServer(api.NewServer(svc, nil, logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]interface{}) (string, bool) {
	t.Helper()
	var request mcp.CallToolRequest
	request.Params.Arguments = args

	result, err := handler(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text, result.IsError
}

func createSession(t *testing.T, c *Client) string {
	t.Helper()
	var info service.SessionInfo
	require.NoError(t, c.apiCall(context.Background(), "POST", "/api/sessions", map[string]string{}, &info))
	require.NotEmpty(t, info.ID)
	return info.ID
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL+"/", "test")

	require.NotNil(t, client)
	assert.Equal(t, baseURL, client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.GetMCPServer())
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var body map[string]int
			json.NewDecoder(r.Body).Decode(&body)
			json.NewEncoder(w).Encode(map[string]int{"echo": body["row"]})
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "test")

	var result map[string]int
	require.NoError(t, client.apiCall(context.Background(), "POST", "/ok", map[string]int{"row": 7}, &result))
	assert.Equal(t, 7, result["echo"])

	err := client.apiCall(context.Background(), "GET", "/missing", nil, nil)
	require.Error(t, err)
	assert.Equal(t, "session not found", err.Error())

	err = client.apiCall(context.Background(), "GET", "/broken", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestIntArg(t *testing.T) {
	args := map[string]interface{}{
		"float":  float64(3),
		"int":    4,
		"number": json.Number("5"),
		"string": "6",
	}

	for key, want := range map[string]int{"float": 3, "int": 4, "number": 5} {
		got, ok := intArg(args, key)
		assert.True(t, ok, key)
		assert.Equal(t, want, got, key)
	}

	_, ok := intArg(args, "string")
	assert.False(t, ok)
	_, ok = intArg(args, "absent")
	assert.False(t, ok)
}

func TestHandlers_SolveFirstLevel(t *testing.T) {
	client := NewClient(newTestAPI(t).URL, "test")

	text, isErr := callTool(t, client.handleCreateSession, map[string]interface{}{"catalog_id": "classic"})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Catalog: classic")
	assert.Contains(t, text, "Level 1")

	sessionID := createSession(t, client)

	for _, anchor := range [][2]float64{{0, 0}, {0, 4}, {4, 4}} {
		text, isErr = callTool(t, client.handlePlace, map[string]interface{}{
			"session_id": sessionID,
			"row":        anchor[0],
			"col":        anchor[1],
			"index":      float64(0),
		})
		require.False(t, isErr, text)
		assert.True(t, strings.HasPrefix(text, "OK:"), text)
	}
	assert.Contains(t, text, "COMPLETE (use next_level)")
	assert.Contains(t, text, "(empty)")

	text, isErr = callTool(t, client.handleNextLevel, map[string]interface{}{"session_id": sessionID})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Level 2")

	text, isErr = callTool(t, client.handleActionHistory, map[string]interface{}{
		"session_id": sessionID,
		"order":      "asc",
	})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Total: 7")
	assert.Contains(t, text, "1. select")
}

func TestHandlers_RejectedActionIsNotAToolError(t *testing.T) {
	client := NewClient(newTestAPI(t).URL, "test")
	sessionID := createSession(t, client)

	// Nothing selected yet
	text, isErr := callTool(t, client.handlePlace, map[string]interface{}{
		"session_id": sessionID,
		"row":        float64(0),
		"col":        float64(0),
	})
	assert.False(t, isErr)
	assert.True(t, strings.HasPrefix(text, "NOT APPLIED:"), text)

	text, isErr = callTool(t, client.handleRemove, map[string]interface{}{"session_id": sessionID})
	assert.True(t, isErr)
	assert.Contains(t, text, "row and col")
}

func TestHandlers_SelectRotateAndPreview(t *testing.T) {
	client := NewClient(newTestAPI(t).URL, "test")
	sessionID := createSession(t, client)

	text, isErr := callTool(t, client.handleSelectPiece, map[string]interface{}{
		"session_id": sessionID,
		"index":      float64(0),
	})
	require.False(t, isErr, text)
	assert.Contains(t, text, "<- selected")

	text, isErr = callTool(t, client.handleRotate, map[string]interface{}{"session_id": sessionID})
	require.False(t, isErr, text)
	assert.Contains(t, text, "rotated 90 degrees")

	text, isErr = callTool(t, client.handlePreview, map[string]interface{}{
		"session_id": sessionID,
		"row":        float64(0),
		"col":        float64(0),
	})
	require.False(t, isErr, text)
	assert.Contains(t, text, "fits")

	text, isErr = callTool(t, client.handlePreview, map[string]interface{}{
		"session_id": sessionID,
		"row":        float64(9),
		"col":        float64(9),
	})
	require.False(t, isErr, text)
	assert.Contains(t, text, "does NOT fit")
}

func TestHandlers_DescribeCell(t *testing.T) {
	client := NewClient(newTestAPI(t).URL, "test")
	sessionID := createSession(t, client)

	text, isErr := callTool(t, client.handleDescribeCell, map[string]interface{}{
		"session_id": sessionID, "row": float64(2), "col": float64(2),
	})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Type: Obstacle")

	text, isErr = callTool(t, client.handlePlace, map[string]interface{}{
		"session_id": sessionID, "row": float64(0), "col": float64(0), "index": float64(0),
	})
	require.False(t, isErr, text)

	text, isErr = callTool(t, client.handleDescribeCell, map[string]interface{}{
		"session_id": sessionID, "row": float64(0), "col": float64(1),
	})
	require.False(t, isErr, text)
	assert.Contains(t, text, "Type: Piece 1")
	assert.Contains(t, text, "anchored at (0,0)")

	text, isErr = callTool(t, client.handleDescribeCell, map[string]interface{}{
		"session_id": sessionID, "row": float64(10), "col": float64(0),
	})
	assert.True(t, isErr)
	assert.Contains(t, text, "out of bounds")
}

func TestHandlers_UnknownSession(t *testing.T) {
	client := NewClient(newTestAPI(t).URL, "test")

	text, isErr := callTool(t, client.handleGameState, map[string]interface{}{"session_id": "nope"})
	assert.True(t, isErr)
	assert.Contains(t, text, "session not found")
}

func TestHandlers_ListCatalogsAndInstructions(t *testing.T) {
	client := NewClient(newTestAPI(t).URL, "test")

	text, isErr := callTool(t, client.handleListCatalogs, map[string]interface{}{})
	require.False(t, isErr, text)
	assert.Contains(t, text, "catalog_id: classic")
	assert.Contains(t, text, "Levels: 3")

	text, isErr = callTool(t, client.handleGameInstructions, nil)
	require.False(t, isErr)
	assert.Contains(t, text, "TOP-LEFT corner")
}

func TestFormatGameState(t *testing.T) {
	assert.Equal(t, "No game state available", formatGameState(nil))

	text := formatGameState(engine.NewEngineWithDefaults().GetState())

	assert.Contains(t, text, "Level 1 - Welcome!")
	assert.Contains(t, text, "Status: 3 pieces left")
	assert.Contains(t, text, "    0123456789\n")
	assert.Contains(t, text, "  2 ..#....#..\n")
	assert.Contains(t, text, "[0] piece 1 (4 cells)")
	assert.Contains(t, text, "    ##.\n    .#.\n    .#.\n")
}
