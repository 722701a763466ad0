// Package api provides HTTP REST API handlers for the grid puzzle.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create new session ({"catalog_id": "classic"}, optional)
//   - GET /api/sessions - List all sessions
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Puzzle Operations:
//   - GET /api/sessions/{id}/state - Board, inventory and selection
//   - POST /api/sessions/{id}/select - {"index": 0}
//   - POST /api/sessions/{id}/rotate - Rotate per the catalog's rotation policy
//   - POST /api/sessions/{id}/place - {"row": 0, "col": 0, "index": 0}; index is optional
//   - POST /api/sessions/{id}/remove - {"row": 0, "col": 0}
//   - POST /api/sessions/{id}/click - {"row": 0, "col": 0}; remove if occupied, else place
//   - POST /api/sessions/{id}/reset - Restart the current level
//   - POST /api/sessions/{id}/advance - Next level, once complete
//   - GET /api/sessions/{id}/preview?row=&col= - Cells the selection would cover
//   - GET /api/sessions/{id}/history?page=&limit=&order=asc|desc - Action history
//
// Catalogs:
//   - GET /api/catalogs - List available catalogs
//   - POST /api/catalogs?id= - Validate and store a catalog
//   - GET /api/catalogs/{name} - Get a catalog
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id} - WebSocket state updates
//
// Action endpoints always answer 200 with an ActionResult. A rejected
// placement or an unavailable advance is not an HTTP error: success is false
// and the outcome names what happened.
//
// Usage:
//
//	server := api.NewServer(gameService, hub, logger)
//	http.ListenAndServe(":8080", server.Handler())
//
// Error Handling:
//
// Errors are returned as JSON. Unknown sessions and catalogs map to 404,
// malformed bodies to 400 and everything else to 500:
//
//	{"error": "session not found: zz99"}
package api
