// Package api provides the HTTP handlers for the Lost Cities scorekeeper.
//
// The api package implements:
//   - The scoresheet page
//   - RESTful endpoints for scoresheets and input events
//   - Stateless score calculation
//   - Preset listing, lookup and saving
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Page:
//   - GET / - Create a scoresheet and redirect to its page (optional ?preset=)
//   - GET /sheets/{id} - Scoresheet page
//
// Scoresheets:
//   - POST /api/sheets - Create a scoresheet
//   - GET /api/sheets - List scoresheets (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sheets/{id} - Scoresheet details with state and view
//   - DELETE /api/sheets/{id} - Delete a scoresheet
//
// Form Operations:
//   - GET /api/sheets/{id}/view - Current view
//   - POST /api/sheets/{id}/events - Apply an input event
//   - PUT /api/sheets/{id}/parameters - Replace the scoring parameters
//   - PUT /api/sheets/{id}/players/{idx} - Replace one player
//   - POST /api/sheets/{id}/reset - Empty both players
//
// Scoring and Presets:
//   - POST /api/score - Score two players without a scoresheet
//   - GET /api/presets - List presets
//   - POST /api/presets - Save a preset
//   - GET /api/presets/{name} - Get a preset
//
// Input events mirror what the page sends on every keystroke:
//
//	{
//	  "type": "parameter|multiplier|cards|reset",
//	  "field": "base_value",   // parameter events
//	  "player": 0,             // multiplier and cards events
//	  "slot": 2,
//	  "value": "4 5 10"        // raw input text
//	}
//
// Card text that is not digits and whitespace is rejected with
// {"accepted": false} and the scoresheet is left unchanged.
//
// Usage:
//
//	server := api.NewServer(scoreService, hub)
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON. Unknown scoresheets and presets map to 404,
// invalid players, slots, fields, events and presets to 400, anything else
// to 500:
//
//	{
//	  "error": "error message"
//	}
package api
