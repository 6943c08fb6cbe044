// Package api provides HTTP REST API handlers for the Knister game.
//
// The api package implements:
//   - RESTful endpoints for game operations
//   - Session management endpoints
//   - Variant listing and creation
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session
//   - GET /api/sessions - List all sessions
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Get current game state
//   - POST /api/sessions/{id}/place - Place the current roll in a cell
//   - POST /api/sessions/{id}/bulk-place - Place a sequence of positions
//   - POST /api/sessions/{id}/roll - Draw a fresh dice roll
//   - POST /api/sessions/{id}/set-roll - Force the current roll to a value
//   - POST /api/sessions/{id}/new-game - Reset the session to an empty grid
//   - GET /api/sessions/{id}/history - Get placement history with pagination
//
// Configuration:
//   - GET /api/configs - List available variants
//   - GET /api/configs/{name} - Get a specific variant
//   - POST /api/configs - Save a new variant
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Placements are sent as POST with a
// JSON body:
//
//	{
//	  "position": 12,          // flat 0-24 cell index for place
//	  "positions": [0, 1, 2],  // for bulk-place
//	  "value": 7               // for set-roll
//	}
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
//
// Failed placements return HTTP 200 with success=false and a failure_code of
// game_finished, invalid_position, or no_roll so clients can distinguish
// rule violations from transport errors.
package api
