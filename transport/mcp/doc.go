// Package mcp provides Model Context Protocol server implementation for the Knister game.
//
// The mcp package implements:
//   - MCP server for AI agent integration
//   - Tool definitions for game operations
//   - Session-aware command execution
//   - Stdio and HTTP transport modes
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - game_state: Get current game state with a rendered grid
//   - place: Write the pending dice roll into a free cell
//   - bulk_place: Execute multiple placements in sequence
//   - roll_dice: Draw a fresh roll
//   - set_roll: Force the pending roll to a specific value
//   - new_game: Reset the session to an empty grid
//   - placement_history: Retrieve placement history with pagination
//   - create_session: Create new game session with variant selection
//   - get_session: Get specific session details
//   - list_sessions: List all active sessions
//   - list_configs: List available game variants
//   - game_instructions: Full rules and scoring reference
//
// Transport:
//
// The client is a thin proxy over the REST API. All tool handlers issue
// HTTP calls against the server's /api endpoints and render the JSON
// responses as plain text for the agent.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
//
// AI Integration:
//
// The MCP interface enables AI agents to:
//   - Autonomously play complete games
//   - Develop and test placement strategies
//   - Manage multiple concurrent sessions
//   - Learn from placement history
package mcp
