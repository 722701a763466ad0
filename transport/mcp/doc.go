// Package mcp exposes the puzzle to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call is translated into a request to
// the REST API and the JSON response is rendered as plain text, with the board
// drawn as a character grid and each inventory piece drawn as its bounding box.
//
// Tools:
//   - create_session, list_sessions, get_session
//   - game_state, describe_cell
//   - select_piece, rotate_piece, place_piece, preview_placement, remove_piece
//   - reset_level, next_level
//   - action_history, list_catalogs, game_instructions
//
// Actions the engine rejects (a blocked placement, advancing an unfinished
// level) are returned as normal text starting with "NOT APPLIED"; only
// transport and lookup failures become tool errors.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080", version)
//
//	// Stdio mode
//	server.ServeStdio(client.GetMCPServer())
//
//	// HTTP mode
//	client.GetMCPServer().HandleMessage(ctx, rawMessage)
package mcp
