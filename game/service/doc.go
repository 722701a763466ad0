// Package service provides the business logic layer for the grid puzzle.
//
// GameService wraps the engine with session lookup, catalog loading,
// paginated action history and structured logging. Every transport (REST,
// WebSocket, MCP) talks to the engine through this package.
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level puzzle
// operations. SessionManager stores sessions and CatalogManager loads level
// catalogs; game/session and game/config provide the implementations.
//
// Actions:
//
// Each action returns an ActionResult carrying the outcomes reported by the
// engine, one GameEvent per outcome and the resulting state snapshot.
// Rejected and no-op actions return Success=false with a nil error; errors
// are reserved for unknown sessions and catalogs.
//
// Usage:
//
//	sessions := session.NewManager()
//	catalogs, _ := config.NewManager("catalogs")
//	svc := service.NewGameService(sessions, catalogs, slog.Default())
//
//	info, err := svc.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	svc.SelectPiece(ctx, info.ID, 0)
//	result, err := svc.Place(ctx, info.ID, engine.Coordinate{Row: 0, Col: 0}, nil)
package service
