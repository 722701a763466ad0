// Package websocket pushes live puzzle state to browsers.
//
// A central Hub owns every connection. Clients attach to one session with
// /ws?session=<id> and receive a state_update message holding the full
// GameState after each change to that session, starting with the current
// state on connect. Clients do not send actions over the socket; they use
// the REST API.
//
// Message Protocol:
//
//	{"session_id": "ab12", "event": "state_update",
//	 "outcomes": ["placed", "level_complete"], "message": "...",
//	 "game_state": {...}}
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run()
//
//	hub.ServeWS(w, r, sessionID, state)
//	hub.BroadcastResult(sessionID, result)
//
// Concurrency:
//
// Only the Run goroutine reads or writes the session map. Each client has a
// read pump and a write pump; a client whose send buffer fills up is
// dropped.
package websocket
