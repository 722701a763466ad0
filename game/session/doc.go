// Package session provides in-memory session management for the grid puzzle.
//
// Manager stores one service.Session per player. Each session owns its own
// engine.GameEngine built from the catalog it was created with, so sessions
// never share puzzle state.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs when the caller does not supply one.
// Lookups are case-insensitive.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", engine.DefaultCatalog())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Cleanup:
//
// CleanupExpiredSessions drops sessions idle for longer than a given age.
// Nothing is written to disk; a restart starts from an empty manager.
package session
