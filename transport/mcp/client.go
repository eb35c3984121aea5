package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/lost-cities-scorer/game/engine"
	"github.com/wricardo/lost-cities-scorer/game/form"
	"github.com/wricardo/lost-cities-scorer/game/service"
	"golang.org/x/time/rate"
)

// Proxy throttling: one REST call per interval with a small burst
const (
	apiCallInterval = 20 * time.Millisecond
	apiCallBurst    = 10
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(apiCallInterval), apiCallBurst),
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Lost Cities Scorekeeper",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Lost Cities Scorekeeper - MCP Interface

This is a thin client that proxies all requests to the REST API server.

A scoresheet holds two players with five expeditions each. Every expedition has a
multiplier (number of wager cards, 0-3) and a list of card values.

AVAILABLE TOOLS:
- create_sheet: Create a scoresheet (optional preset and player names)
- list_sheets: List live scoresheets
- get_sheet: Show a scoresheet with per-expedition scores
- set_parameters: Change base value, bonus threshold or bonus value
- set_multiplier: Set the multiplier of one expedition
- set_cards: Set the card values of one expedition, e.g. "2 3 9"
- reset_sheet: Empty both players, keeping names and parameters
- calculate_score: Score two players without a scoresheet
- list_presets: List scoring presets
- scoring_rules: Explain how expeditions are scored

Players and expeditions are numbered from 1.`),
	)

	c.registerTools()
}

func sheetIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Scoresheet ID",
	}
}

func slotProperties() map[string]interface{} {
	return map[string]interface{}{
		"sheet_id": sheetIDProperty(),
		"player": map[string]interface{}{
			"type":        "integer",
			"minimum":     1,
			"maximum":     engine.Players,
			"description": "Player number (1 or 2)",
		},
		"expedition": map[string]interface{}{
			"type":        "integer",
			"minimum":     1,
			"maximum":     engine.Expeditions,
			"description": "Expedition number (1-5: " + strings.Join(engine.ExpeditionNames[:], ", ") + ")",
		},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Scoresheet management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_sheet",
		Description: "Create a new scoresheet with optional preset and player names",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"preset": map[string]interface{}{
					"type":        "string",
					"description": "Preset ID to use (optional, see list_presets)",
				},
				"player1": map[string]interface{}{
					"type":        "string",
					"description": "Name of the first player (optional)",
				},
				"player2": map[string]interface{}{
					"type":        "string",
					"description": "Name of the second player (optional)",
				},
			},
		},
	}, c.handleCreateSheet)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sheets",
		Description: "List all live scoresheets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSheets)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_sheet",
		Description: "Show a scoresheet with every expedition score and the result",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"sheet_id": sheetIDProperty(),
			},
			Required: []string{"sheet_id"},
		},
	}, c.handleGetSheet)

	// Form operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_parameters",
		Description: "Change the scoring parameters of a scoresheet. Omitted values are kept.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"sheet_id": sheetIDProperty(),
				"base_value": map[string]interface{}{
					"type":        "integer",
					"description": "Cost subtracted from every started expedition (standard 20)",
				},
				"bonus_threshold": map[string]interface{}{
					"type":        "integer",
					"description": "Cards (wagers included) needed for the bonus (standard 8)",
				},
				"bonus_value": map[string]interface{}{
					"type":        "integer",
					"description": "Bonus points for a long expedition (standard 20)",
				},
			},
			Required: []string{"sheet_id"},
		},
	}, c.handleSetParameters)

	multiplierProps := slotProperties()
	multiplierProps["multiplier"] = map[string]interface{}{
		"type":        "integer",
		"minimum":     0,
		"maximum":     engine.MaxMultiplier,
		"description": "Number of wager cards played on the expedition",
	}
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_multiplier",
		Description: "Set the multiplier (wager count) of one expedition",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: multiplierProps,
			Required:   []string{"sheet_id", "player", "expedition", "multiplier"},
		},
	}, c.handleSetMultiplier)

	cardProps := slotProperties()
	cardProps["cards"] = map[string]interface{}{
		"type":        "string",
		"description": "Card values separated by spaces, e.g. \"2 3 9\". Empty clears the expedition.",
	}
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_cards",
		Description: "Set the card values played on one expedition",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: cardProps,
			Required:   []string{"sheet_id", "player", "expedition", "cards"},
		},
	}, c.handleSetCards)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_sheet",
		Description: "Empty both players of a scoresheet, keeping names and parameters",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"sheet_id": sheetIDProperty(),
			},
			Required: []string{"sheet_id"},
		},
	}, c.handleReset)

	// Stateless scoring
	expeditionList := map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type": "string",
		},
		"maxItems":    engine.Expeditions,
		"description": "Up to five expeditions as \"multiplier:cards\", e.g. [\"1:2 3 9\", \"0:4 5\"]",
	}
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "calculate_score",
		Description: "Score two players without creating a scoresheet",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"preset": map[string]interface{}{
					"type":        "string",
					"description": "Preset ID for the scoring parameters (optional)",
				},
				"player1_name":        map[string]interface{}{"type": "string"},
				"player2_name":        map[string]interface{}{"type": "string"},
				"player1_expeditions": expeditionList,
				"player2_expeditions": expeditionList,
			},
		},
	}, c.handleCalculateScore)

	// Presets and help
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_presets",
		Description: "List available scoring presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListPresets)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "scoring_rules",
		Description: "Explain how Lost Cities expeditions are scored",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleScoringRules)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

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
		args = map[string]interface{}{}
	}
	return args
}

func sheetPath(id string, parts ...string) string {
	p := "/api/sheets/" + url.PathEscape(id)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// intArg reads an integer argument. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	}
	return 0, false
}

func stringList(args map[string]interface{}, key string) []string {
	switch v := args[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, _ := item.(string)
			out = append(out, s)
		}
		return out
	}
	return nil
}

// slotArgs reads the 1-based player and expedition arguments
func slotArgs(args map[string]interface{}) (player, slot int, err error) {
	p, ok := intArg(args, "player")
	if !ok || !engine.ValidPlayer(p-1) {
		return 0, 0, fmt.Errorf("player must be 1 or %d", engine.Players)
	}
	s, ok := intArg(args, "expedition")
	if !ok || !engine.ValidSlot(s-1) {
		return 0, 0, fmt.Errorf("expedition must be between 1 and %d", engine.Expeditions)
	}
	return p - 1, s - 1, nil
}

// Tool handlers

func (c *Client) handleCreateSheet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	preset, _ := args["preset"].(string)
	player1, _ := args["player1"].(string)
	player2, _ := args["player2"].(string)

	body := service.CreateSheetRequest{Preset: preset}
	if player1 != "" || player2 != "" {
		body.PlayerNames = []string{player1, player2}
	}

	var sheet service.SheetInfo
	if err := c.apiCall(ctx, "POST", "/api/sheets", body, &sheet); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created scoresheet: %s\nPreset: %s\n\n", sheet.ID, sheet.Preset)
	result += formatView(sheet.View)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSheets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var sheets []service.SheetInfo
	if err := c.apiCall(ctx, "GET", "/api/sheets", nil, &sheets); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Live Scoresheets (%d):\n\n", len(sheets))
	for _, s := range sheets {
		line := fmt.Sprintf("- %s (Preset: %s, Created: %s)", s.ID, s.Preset, s.CreatedAt.Format("15:04:05"))
		if s.View != nil {
			line += " " + s.View.Result
		}
		result += line + "\n"
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSheet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sheetID, _ := arguments(request)["sheet_id"].(string)

	var sheet service.SheetInfo
	if err := c.apiCall(ctx, "GET", sheetPath(sheetID), nil, &sheet); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Scoresheet %s (Preset: %s)\n\n", sheet.ID, sheet.Preset)
	result += formatView(sheet.View)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSetParameters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sheetID, _ := args["sheet_id"].(string)

	var current form.View
	if err := c.apiCall(ctx, "GET", sheetPath(sheetID, "view"), nil, &current); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := current.Parameters
	if v, ok := intArg(args, "base_value"); ok {
		params.BaseValue = v
	}
	if v, ok := intArg(args, "bonus_threshold"); ok {
		params.BonusThreshold = v
	}
	if v, ok := intArg(args, "bonus_value"); ok {
		params.BonusValue = v
	}

	var view form.View
	if err := c.apiCall(ctx, "PUT", sheetPath(sheetID, "parameters"), params, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Parameters updated.\n\n" + formatView(&view)), nil
}

func (c *Client) handleSetMultiplier(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sheetID, _ := args["sheet_id"].(string)

	player, slot, err := slotArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	multiplier, ok := intArg(args, "multiplier")
	if !ok {
		return mcp.NewToolResultError("multiplier must be a number"), nil
	}

	ev := form.Event{Type: form.EventMultiplier, Player: player, Slot: slot, Value: strconv.Itoa(multiplier)}
	return c.sendEvent(ctx, sheetID, ev)
}

func (c *Client) handleSetCards(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sheetID, _ := args["sheet_id"].(string)
	cards, _ := args["cards"].(string)

	player, slot, err := slotArgs(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	ev := form.Event{Type: form.EventCards, Player: player, Slot: slot, Value: cards}
	return c.sendEvent(ctx, sheetID, ev)
}

func (c *Client) sendEvent(ctx context.Context, sheetID string, ev form.Event) (*mcp.CallToolResult, error) {
	var result service.EventResult
	if err := c.apiCall(ctx, "POST", sheetPath(sheetID, "events"), ev, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !result.Accepted {
		return mcp.NewToolResultError(fmt.Sprintf(
			"Rejected %q: card values must be numbers separated by spaces. The scoresheet is unchanged.", ev.Value)), nil
	}

	return mcp.NewToolResultText(formatView(result.View)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sheetID, _ := arguments(request)["sheet_id"].(string)

	var response struct {
		Message string     `json:"message"`
		View    *form.View `json:"view"`
	}
	if err := c.apiCall(ctx, "POST", sheetPath(sheetID, "reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message + "\n\n" + formatView(response.View)), nil
}

func (c *Client) handleCalculateScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	preset, _ := args["preset"].(string)

	req := service.CalculateRequest{Preset: preset}
	for i := 0; i < engine.Players; i++ {
		key := fmt.Sprintf("player%d", i+1)
		name, _ := args[key+"_name"].(string)
		player, err := form.ParsePlayer(name, stringList(args, key+"_expeditions"))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%s: %v", key, err)), nil
		}
		req.Players[i] = player
	}

	var view form.View
	if err := c.apiCall(ctx, "POST", "/api/score", req, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatView(&view)), nil
}

func (c *Client) handleListPresets(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var presets []service.PresetInfo
	if err := c.apiCall(ctx, "GET", "/api/presets", nil, &presets); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Presets:\n\n"
	for _, p := range presets {
		result += fmt.Sprintf("• %s\n  %s\n  %s\n\n", p.PresetID, p.Description, formatParameters(p.Parameters))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleScoringRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rules := fmt.Sprintf(`Lost Cities Scoring

Each player is scored on five expeditions (%s).

For every expedition:
• An expedition with no wager cards and no number cards scores 0.
• Otherwise: (sum of card values - base value) x (multiplier + 1)
• The multiplier is the number of wager cards (0-3).
• If multiplier + number of cards reaches the bonus threshold, the bonus value is added.
  The bonus is added after the multiplication.

A player's score is the sum of the five expeditions. The higher total wins.

Standard parameters: base value %d, bonus threshold %d, bonus value %d.

Example: multiplier 1 with cards 2 3 9 scores (14 - 20) x 2 = -12.

Card values are entered as numbers separated by spaces. Any other character rejects
the whole edit and the expedition keeps its previous cards.`,
		strings.Join(engine.ExpeditionNames[:], ", "),
		engine.DefaultBaseValue, engine.DefaultBonusThreshold, engine.DefaultBonusValue)

	return mcp.NewToolResultText(rules), nil
}

// Formatting helpers

func formatParameters(p engine.ScoringParameters) string {
	return fmt.Sprintf("Base value: %d, Bonus: +%d at %d cards", p.BaseValue, p.BonusValue, p.BonusThreshold)
}

func formatView(view *form.View) string {
	if view == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(formatParameters(view.Parameters))
	b.WriteString("\n\n")

	for i, player := range view.Players {
		fmt.Fprintf(&b, "%d. %s: %d\n", i+1, player.Name, player.Score)
		for slot, exp := range player.Expeditions {
			if exp.Multiplier == 0 && len(exp.Cards) == 0 {
				fmt.Fprintf(&b, "   %d %-6s -\n", slot+1, engine.ExpeditionNames[slot])
				continue
			}
			fmt.Fprintf(&b, "   %d %-6s x%d [%s] = %d\n",
				slot+1, engine.ExpeditionNames[slot], exp.Multiplier, form.FormatCardList(exp.Cards), exp.Score)
		}
	}

	b.WriteString("\n")
	b.WriteString(view.Result)
	b.WriteString("\n")
	return b.String()
}
