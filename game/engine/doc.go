// Package engine provides the core rules for the grid packing puzzle.
//
// The engine package implements the puzzle mechanics including:
//   - Immutable shapes with quarter-turn rotation
//   - Board legality checks, placement and removal
//   - The ordered inventory of unplaced pieces
//   - Level catalogs and their load-time validation
//
// Core Types:
//
// The Engine interface defines the contract every collaborator (REST API,
// WebSocket hub, MCP tools) talks to, implemented by GameEngine. GameState is
// the serializable snapshot the engine swaps in after every successful
// operation; Board and Inventory are persistent values, so a snapshot held by
// a caller never changes underneath it.
//
// Usage:
//
//	gameEngine, err := engine.NewEngine(engine.DefaultCatalog())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine.SelectPiece(0)
//	result := gameEngine.AttemptPlacement(engine.Coordinate{Row: 0, Col: 0})
//	if result.Has(engine.OutcomeLevelComplete) {
//		gameEngine.AdvanceLevel()
//	}
//
// Game Rules:
//
// The board is a square grid partly blocked by obstacles. The player places
// every inventory piece on empty cells, rotating pieces as needed. A placed
// piece can be picked back up by clicking any of its cells. The level is
// complete when the inventory is empty.
package engine
