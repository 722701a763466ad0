package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/grid-puzzle/game/engine"
	"github.com/wricardo/grid-puzzle/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string, version string) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer(version)
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer(version string) {
	c.mcpServer = server.NewMCPServer(
		"Grid Puzzle",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Grid Puzzle - MCP Interface

This is a thin client that proxies all requests to the REST API server.

OBJECTIVE:
Place every piece of the inventory on the board. Pieces may not overlap each
other, cover obstacles (#) or hang off the board. Rotate a piece before placing
it when its current orientation does not fit.

AVAILABLE TOOLS:
- create_session: Create a new puzzle session
- list_sessions / get_session: Inspect sessions
- game_state: Board, inventory and selection
- select_piece: Select an inventory piece by index
- rotate_piece: Rotate the selected piece 90 degrees clockwise
- place_piece: Place the selected (or given) piece with its top-left corner at row/col
- preview_placement: Check whether the selected piece fits at row/col without placing it
- remove_piece: Return a placed piece to the inventory
- reset_level: Start the current level over
- next_level: Advance after completing a level
- action_history: Past actions
- list_catalogs: Available level catalogs
- describe_cell: Details about one board cell
- game_instructions: Full rules`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func cellProperties() map[string]interface{} {
	return map[string]interface{}{
		"session_id": sessionProperty(),
		"row": map[string]interface{}{
			"type":        "integer",
			"description": "Row (0-based, top to bottom)",
		},
		"col": map[string]interface{}{
			"type":        "integer",
			"description": "Column (0-based, left to right)",
		},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new puzzle session with optional catalog selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"catalog_id": map[string]interface{}{
					"type":        "string",
					"description": "Catalog to play (optional, see list_catalogs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active puzzle sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Puzzle operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the board, the inventory and the current selection",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "select_piece",
		Description: "Select an inventory piece by its index in the inventory list",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "Inventory index (0-based)",
				},
			},
			Required: []string{"session_id", "index"},
		},
	}, c.handleSelectPiece)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "rotate_piece",
		Description: "Rotate the selected piece 90 degrees clockwise (or every piece, if the catalog rotates all pieces)",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleRotate)

	placeProps := cellProperties()
	placeProps["index"] = map[string]interface{}{
		"type":        "integer",
		"description": "Inventory index to select before placing (optional)",
	}
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place_piece",
		Description: "Place the selected piece with the top-left corner of its bounding box at row/col",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: placeProps,
			Required:   []string{"session_id", "row", "col"},
		},
	}, c.handlePlace)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "preview_placement",
		Description: "Show which cells the selected piece would cover at row/col and whether it fits",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: cellProperties(),
			Required:   []string{"session_id", "row", "col"},
		},
	}, c.handlePreview)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "remove_piece",
		Description: "Return the piece covering row/col to the inventory",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: cellProperties(),
			Required:   []string{"session_id", "row", "col"},
		},
	}, c.handleRemove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_level",
		Description: "Reset the current level to its initial layout",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "next_level",
		Description: "Advance to the next level once the current one is complete",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleNextLevel)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "action_history",
		Description: "Get action history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest first (asc) or newest first (desc, default)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleActionHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_catalogs",
		Description: "List available level catalogs",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListCatalogs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete puzzle rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get detailed information about one board cell: empty, obstacle, or which piece covers it",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: cellProperties(),
			Required:   []string{"session_id", "row", "col"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

// intArg reads an integer argument; JSON numbers arrive as float64
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}

func cellArgs(args map[string]interface{}) (map[string]int, error) {
	row, okRow := intArg(args, "row")
	col, okCol := intArg(args, "col")
	if !okRow || !okCol {
		return nil, fmt.Errorf("row and col are required integers")
	}
	return map[string]int{"row": row, "col": col}, nil
}

func sessionPath(args map[string]interface{}, suffix string) string {
	sessionID, _ := args["session_id"].(string)
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	catalogID, _ := args["catalog_id"].(string)

	body := map[string]string{}
	if catalogID != "" {
		body["catalog_id"] = catalogID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		level := 0
		if s.GameState != nil {
			level = s.GameState.Level
		}
		fmt.Fprintf(&b, "- %s (Catalog: %s, Level: %d/%d, Created: %s)\n",
			s.ID, s.CatalogID, level, s.Levels, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(arguments(request), ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(arguments(request), "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleSelectPiece(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	index, ok := intArg(args, "index")
	if !ok {
		return mcp.NewToolResultError("index is required"), nil
	}

	return c.action(ctx, sessionPath(args, "/select"), map[string]int{"index": index})
}

func (c *Client) handleRotate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.action(ctx, sessionPath(arguments(request), "/rotate"), nil)
}

func (c *Client) handlePlace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	body, err := cellArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if index, ok := intArg(args, "index"); ok {
		body["index"] = index
	}

	return c.action(ctx, sessionPath(args, "/place"), body)
}

func (c *Client) handleRemove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	body, err := cellArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return c.action(ctx, sessionPath(args, "/remove"), body)
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.action(ctx, sessionPath(arguments(request), "/reset"), nil)
}

func (c *Client) handleNextLevel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.action(ctx, sessionPath(arguments(request), "/advance"), nil)
}

// action posts an action and renders its result. Rejected actions are
// reported as text, not as tool errors.
func (c *Client) action(ctx context.Context, path string, body interface{}) (*mcp.CallToolResult, error) {
	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", path, body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handlePreview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	cell, err := cellArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var preview engine.Preview
	path := sessionPath(args, fmt.Sprintf("/preview?row=%d&col=%d", cell["row"], cell["col"]))
	if err := c.apiCall(ctx, "GET", path, nil, &preview); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	verdict := "fits"
	if !preview.CanPlace {
		verdict = "does NOT fit"
	}
	cells := make([]string, 0, len(preview.Cells))
	for _, cell := range preview.Cells {
		cells = append(cells, cell.String())
	}
	return mcp.NewToolResultText(fmt.Sprintf("Piece %d at %s %s.\nCells on the board: %s\n",
		preview.PieceID, preview.Anchor, verdict, strings.Join(cells, " "))), nil
}

func (c *Client) handleActionHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	params := url.Values{}
	if page, ok := intArg(args, "page"); ok {
		params.Set("page", fmt.Sprint(page))
	}
	if limit, ok := intArg(args, "limit"); ok {
		params.Set("limit", fmt.Sprint(limit))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		params.Set("order", order)
	}

	path := sessionPath(args, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListCatalogs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var catalogs []service.CatalogInfo
	if err := c.apiCall(ctx, "GET", "/api/catalogs", nil, &catalogs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Catalogs:\n\n")
	for _, info := range catalogs {
		fmt.Fprintf(&b, "• %s (catalog_id: %s)\n  %s\n  Levels: %d, Pieces: %d, Rotation: %s\n\n",
			info.Name, info.CatalogID, info.Description, info.Levels, info.Pieces, info.RotationPolicy)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Grid Puzzle - Complete Instructions

OBJECTIVE:
Every level has a square board, some obstacle cells and an inventory of
pieces. The level is complete when the inventory is empty, i.e. every piece
sits on the board. Boards do not need to be completely filled.

BOARD LEGEND:
• . - Empty cell
• # - Obstacle (never covered)
• 1-9, A-Z - Cell covered by the piece with that id (base 36)

PIECES:
Each piece is drawn inside its bounding box with '#' for filled cells and
'.' for gaps. Placing a piece at (row, col) puts the TOP-LEFT corner of the
bounding box on that cell, even when that corner is a gap.

ACTIONS:
1. select_piece {index} - pick a piece from the inventory (0-based index)
2. rotate_piece - turn it 90 degrees clockwise; four turns restore it
3. place_piece {row, col} - all cells must be on the board, empty and free
   of obstacles or nothing happens
4. remove_piece {row, col} - give a placed piece back; it becomes the last
   inventory entry and is selected, keeping its orientation
5. reset_level - undo everything on the current level
6. next_level - only after the level is complete

Inventory indices shift after every placement and removal: always re-read
game_state before selecting by index.

STRATEGY:
• Place the largest and most awkward pieces first
• Use preview_placement to test a position without changing anything
• Watch for small enclosed gaps that no remaining piece can fill`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	cellArg, err := cellArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pos := engine.Coordinate{Row: cellArg["row"], Col: cellArg["col"]}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(args, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	size := state.Board.Size()
	if !state.Board.InBounds(pos) {
		return mcp.NewToolResultError(fmt.Sprintf("Cell %s is out of bounds. Board is %dx%d (0-%d for row and col)",
			pos, size, size, size-1)), nil
	}

	return mcp.NewToolResultText(describeCell(&state, pos)), nil
}

func describeCell(state *engine.GameState, pos engine.Coordinate) string {
	cell := state.Board.Cell(pos)

	var kind, description string
	switch {
	case cell.IsObstacle():
		kind = "Obstacle"
		description = "Blocked for the whole level; no piece may cover it"
	case cell.IsEmpty():
		kind = "Empty"
		description = "Free; a piece may cover it"
	default:
		id, _ := cell.Piece()
		kind = fmt.Sprintf("Piece %d", id)
		description = fmt.Sprintf("Covered by piece %d; remove_piece here returns it to the inventory", id)
		if p, ok := state.Board.Placement(id); ok {
			description += fmt.Sprintf(" (anchored at %s, rotated %d degrees)", p.Anchor, p.Orientation*90)
		}
	}

	return fmt.Sprintf("Cell %s:\nCharacter: %s\nType: %s\nDescription: %s\n",
		pos, engine.CellChar(cell), kind, description)
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nCatalog: %s (%s), %d levels\nCreated: %s\n\n%s",
		session.ID, session.CatalogName, session.CatalogID, session.Levels,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Level %d", state.Level)
	if state.Description != "" {
		fmt.Fprintf(&b, " - %s", state.Description)
	}
	b.WriteString("\n")
	if state.Message != "" {
		fmt.Fprintf(&b, "Message: %s\n", state.Message)
	}
	switch {
	case state.Complete && state.HasNextLevel:
		b.WriteString("Status: COMPLETE (use next_level)\n")
	case state.Complete:
		b.WriteString("Status: COMPLETE (last level of the catalog)\n")
	default:
		fmt.Fprintf(&b, "Status: %d pieces left\n", state.Inventory.Len())
	}

	b.WriteString("\nBoard:\n")
	b.WriteString(formatBoard(state.Board))

	b.WriteString("\nInventory:\n")
	b.WriteString(formatInventory(state))
	return b.String()
}

// formatBoard renders the board with column and row indices
func formatBoard(board engine.Board) string {
	var b strings.Builder
	size := board.Size()
	b.WriteString("    ")
	for c := 0; c < size; c++ {
		fmt.Fprintf(&b, "%d", c%10)
	}
	b.WriteString("\n")
	for r, row := range board.Rows() {
		fmt.Fprintf(&b, "%3d ", r)
		for _, cell := range row {
			b.WriteString(engine.CellChar(cell))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatInventory(state *engine.GameState) string {
	if state.Inventory.IsEmpty() {
		return "(empty)\n"
	}

	selected, hasSelection := state.SelectedIndex()
	var b strings.Builder
	for i, piece := range state.Inventory.Pieces() {
		shape := piece.Shape
		marker := ""
		if hasSelection && i == selected {
			marker = " <- selected"
			if state.RotationPolicy == engine.RotateSelectedPiece && state.Rotation != 0 {
				shape = shape.ApplyRotations(state.Rotation)
				marker += fmt.Sprintf(", rotated %d degrees", state.Rotation*90)
			}
		}
		fmt.Fprintf(&b, "[%d] piece %d (%d cells)%s\n", i, piece.ID, shape.FilledCount(), marker)
		for _, line := range strings.Split(shape.String(), "\n") {
			fmt.Fprintf(&b, "    %s\n", line)
		}
	}
	return b.String()
}

func formatActionResult(result *service.ActionResult) string {
	status := "OK"
	if !result.Success {
		status = "NOT APPLIED"
	}
	outcomes := make([]string, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		outcomes = append(outcomes, string(o))
	}

	header := fmt.Sprintf("%s: %s [%s]\n\n", status, result.Message, strings.Join(outcomes, ", "))
	return header + formatGameState(result.GameState)
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Action History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalActions)

	for _, entry := range history.Actions {
		fmt.Fprintf(&b, "%d. %s -> %s", entry.ActionNumber, entry.Action, entry.Outcome)
		if entry.PieceID != 0 {
			fmt.Fprintf(&b, " piece=%d", entry.PieceID)
		}
		if entry.Position != nil {
			fmt.Fprintf(&b, " at %s", entry.Position)
		}
		fmt.Fprintf(&b, " [level %d, %d left]\n", entry.Level, entry.PiecesLeft)
	}

	return b.String()
}
