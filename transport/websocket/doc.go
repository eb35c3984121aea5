// Package websocket provides the live WebSocket transport for scoresheets.
//
// The websocket package implements:
//   - Scoresheet-aware WebSocket connections
//   - Input events from the page applied through an EventHandler
//   - View broadcasting to every client of a scoresheet
//   - Connection lifecycle management
//
// Architecture:
//
// A central Hub owns the client registry in a single goroutine. Every
// registration, removal and broadcast travels through the hub's channels,
// so no other goroutine touches the registry. Each connection runs a read
// pump and a write pump.
//
// Message Protocol:
//
//   - Incoming: an input event, {"type": "cards", "player": 0, "slot": 2, "value": "4 5 10"}
//   - Outgoing: {"session_id": "ab12", "event": "view_update", "view": {...}}
//   - Errors go only to the sending client: {"session_id": "ab12", "event": "error", "data": "..."}
//
// Usage:
//
//	hub := websocket.NewHub(func(ctx context.Context, id string, ev form.Event) (*form.View, error) {
//		res, err := scoreService.ApplyEvent(ctx, id, ev)
//		if err != nil {
//			return nil, err
//		}
//		return res.View, nil
//	})
//	go hub.Run(ctx)
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("sheet"), nil)
//	})
//
// Connection Lifecycle:
//
// 1. Client connects with a scoresheet ID
// 2. The current view is queued for it and it is registered with the hub
// 3. Client sends input events, every client of the sheet receives the new view
// 4. Disconnection triggers cleanup
package websocket
