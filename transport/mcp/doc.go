// Package mcp exposes the scoresheet REST API as Model Context Protocol tools.
//
// The Client proxies every tool call to a running HTTP API, so an agent sees
// the same scoresheets as the browser page. Calls are throttled by a token
// bucket limiter before they reach the API.
//
// Tools:
//   - create_sheet: create a scoresheet from a preset with optional player names
//   - list_sheets: list live scoresheets
//   - get_sheet: show a scoresheet with per expedition scores
//   - set_parameters: change base value, bonus threshold or bonus value
//   - set_multiplier: set the wager count of one expedition
//   - set_cards: enter the card values of one expedition ("2 3 9")
//   - reset_sheet: clear both players, keeping names and parameters
//   - calculate_score: score two players without creating a scoresheet
//   - list_presets: list scoring presets
//   - scoring_rules: explain the scoring formula
//
// The server runs over stdio (see main's stdio-mcp mode) or as an HTTP
// endpoint mounted at /mcp:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
