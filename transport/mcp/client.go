package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/knister-game/game/engine"
	"github.com/wricardo/knister-game/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Knister Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Knister Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Fill the 5x5 grid with dice roll totals. Every row, column and diagonal
scores based on the pattern it forms; diagonals count double. Maximize
your total score over 25 placements.

AVAILABLE TOOLS:
- game_state: Get current game state with the rendered grid
- place: Write the current roll into a free cell - requires intent explanation
- bulk_place: Place a sequence of positions at once - requires intent explanation
- roll_dice: Draw a fresh roll (overwrites the pending one)
- set_roll: Force the current roll to a specific value
- new_game: Reset to an empty grid
- placement_history: View past placements
- create_session: Create new game session
- get_session: Get session details
- list_sessions: List all active sessions
- list_configs: List available variants
- game_instructions: Get comprehensive game instructions and rules

NOTE: The 'intent' parameter on place/bulk_place tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional variant selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_name": map[string]interface{}{
					"type":        "string",
					"description": "Name of the variant to use (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "place",
		Description: "Place the current dice roll into a free grid cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"position": map[string]interface{}{
					"type":        "integer",
					"description": "Flat cell index 0-24 (row-major: position = row*5 + col)",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this placement (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "position"},
		},
	}, c.handlePlace)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_place",
		Description: "Execute multiple placements in sequence",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"positions": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "integer",
					},
					"description": "Array of flat cell indices 0-24",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of placements (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "positions"},
		},
	}, c.handleBulkPlace)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "roll_dice",
		Description: "Draw a fresh dice roll, overwriting any pending roll",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRollDice)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_roll",
		Description: "Force the current roll to a specific value (for playing with physical dice)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"value": map[string]interface{}{
					"type":        "integer",
					"description": "Dice total to set as the current roll",
				},
			},
			Required: []string{"session_id", "value"},
		},
	}, c.handleSetRoll)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Reset the session to an empty grid with a fresh first roll",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleNewGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "placement_history",
		Description: "Get placement history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handlePlacementHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game variants",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
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

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	configName, _ := args["config_name"].(string)

	body := map[string]string{}
	if configName != "" {
		body["config_name"] = configName
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s",
		session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Config: %s, Created: %s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatGameState(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handlePlace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	position, _ := args["position"].(float64)
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]interface{}{
		"position": int(position),
	}

	var result service.PlaceResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/place", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatPlaceResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleBulkPlace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	positionsRaw, _ := args["positions"].([]interface{})
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	positions := make([]int, 0, len(positionsRaw))
	for _, p := range positionsRaw {
		if pos, ok := p.(float64); ok {
			positions = append(positions, int(pos))
		}
	}

	body := map[string]interface{}{
		"positions": positions,
	}

	var result service.BulkPlaceResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/bulk-place", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatBulkPlaceResult(sessionID, &result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleRollDice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var result service.RollResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/roll", sessionID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := fmt.Sprintf("Rolled %d\n\n%s", result.Roll, formatGameState(result.GameState))
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleSetRoll(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	value, _ := args["value"].(float64)

	body := map[string]interface{}{
		"value": int(value),
	}

	var result service.RollResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/set-roll", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := fmt.Sprintf("Current roll set to %d\n\n%s", result.Roll, formatGameState(result.GameState))
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/new-game", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handlePlacementHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/history%s", sessionID, params), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHistory(&history)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	err := c.apiCall("GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Variants:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Grid: %dx%d, Dice: %dd%d\n\n",
			config.Name, config.ConfigID, config.Description,
			config.GridSize, config.GridSize, config.DiceCount, config.DiceFaces)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Knister Game - Complete Instructions

GAME OBJECTIVE:
Fill the 5x5 grid with dice totals over 25 turns and score as many points
as possible. Every turn the game rolls two dice; you choose which free cell
receives the total. Once placed, a value never moves.

SCORING (per row, column and diagonal, classic rules):
• Five of a kind ........ 10
• Four of a kind ......... 6
• Full house (3+2) ....... 8
• Straight without a 7 .. 12
• Straight with a 7 ...... 8
• Three of a kind ........ 3
• Two pairs .............. 3
• One pair ............... 1

The two main diagonals score DOUBLE. A straight is five consecutive values
in any order, e.g. 4,6,3,5,7 or 8,9,10,11,12.

SCORE UPDATES:
After each placement the whole grid is rescored and the reward for the turn
is the score delta. Placing a value can complete several lines at once.

POSITIONS:
Cells are addressed by flat index 0-24 in row-major order:
  0  1  2  3  4
  5  6  7  8  9
 10 11 12 13 14
 15 16 17 18 19
 20 21 22 23 24
Position = row*5 + col.

STRATEGY HINTS:
• Sevens are the most common total (1 in 6 rolls); reserve a line for them
  but remember a straight containing 7 scores less than one without.
• The center cell (12) sits on both diagonals, which score double.
• Extreme totals (2, 3, 11, 12) are rare; commit to pairs, not straights,
  when you hold them.
• The grid must be filled: a rare value placed early in a flexible spot is
  cheaper than a forced placement at the end.

TOOLS:
- place: single placement with flat position index
- bulk_place: a sequence of placements for efficiency
- set_roll: play with physical dice by forcing the roll value
- new_game: start over at any time

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously
- Each session has unique 4-character ID
- Sessions maintain independent state and variant
- Use session-specific tools for multi-game management`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	roll := "-"
	if state.RollSet {
		roll = fmt.Sprintf("%d", state.CurrentRoll)
	}
	cells := state.TotalPlacements + len(state.AvailablePositions)
	result.WriteString(fmt.Sprintf("Roll: %s | Score: %d | Last reward: %+d | Placements: %d/%d\n\n",
		roll, state.PreviousTotal, state.LastReward, state.TotalPlacements, cells))

	result.WriteString(formatGrid(state.Grid))

	if state.Finished {
		result.WriteString(fmt.Sprintf("\nGame finished! Final score: %d", state.PreviousTotal))
	} else {
		result.WriteString(fmt.Sprintf("\nFree cells: %d", len(state.AvailablePositions)))
	}

	return result.String()
}

// formatGrid renders the board with right-aligned values and dots for
// empty cells.
func formatGrid(grid [][]int) string {
	var b strings.Builder
	for _, row := range grid {
		for i, v := range row {
			if i > 0 {
				b.WriteString(" ")
			}
			if v == 0 {
				b.WriteString(" .")
			} else {
				b.WriteString(fmt.Sprintf("%2d", v))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func formatPlaceResult(result *service.PlaceResult) string {
	response := ""
	if result.Success {
		response = "✓ Placement successful\n"
	} else {
		response = fmt.Sprintf("✗ Placement failed (%s): %s\n", result.FailureCode, result.Message)
	}

	if result.Step != nil {
		s := result.Step
		response += fmt.Sprintf("Step: pos=%d (%d,%d) value=%d reward=%+d total=%d\n",
			s.Position, s.Row, s.Col, s.Value, s.Reward, s.TotalAfter)
	}

	if len(result.Events) > 0 {
		response += "Events:\n"
		for _, event := range result.Events {
			response += fmt.Sprintf("- %s: %s\n", event.Type, event.Message)
		}
	}

	response += "\n" + formatGameState(result.GameState)
	return response
}

func formatBulkPlaceResult(sessionID string, result *service.BulkPlaceResult) string {
	var b strings.Builder

	configName := ""
	if result.GameState != nil {
		configName = result.GameState.ConfigName
	}
	b.WriteString(fmt.Sprintf("Session: %s • Config: %s\n", sessionID, configName))

	b.WriteString(fmt.Sprintf("Executed %d/%d placements (score %+d)\n",
		result.PlacementsExecuted, result.RequestedPlacements, result.ScoreDelta))
	if result.StoppedReason != "" {
		b.WriteString(fmt.Sprintf("Stopped: %s\n", result.StoppedReason))
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps (this call):\n")
		for _, s := range result.Steps {
			b.WriteString(fmt.Sprintf("%d. pos=%d (%d,%d) value=%d reward=%+d total=%d\n",
				s.Idx, s.Position, s.Row, s.Col, s.Value, s.Reward, s.TotalAfter))
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Placement History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalPlacements)

	for _, entry := range history.Placements {
		result += fmt.Sprintf("%d. pos=%d (%d,%d) value=%d reward=%+d total=%d\n",
			entry.PlacementNumber, entry.Position, entry.Row, entry.Col,
			entry.Value, entry.Reward, entry.TotalAfter)
	}

	return result
}
