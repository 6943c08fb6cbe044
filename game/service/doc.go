// Package service provides the business logic layer for the Knister game.
//
// The service package implements:
//   - Multi-session game management
//   - Variant management and loading
//   - Placement processing and failure mapping
//   - Session lifecycle management
//   - Placement history tracking
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game variant loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine, providing session isolation, variant management, and
// business logic orchestration. Each session maintains its own game engine
// instance with independent state.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, err := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	// Create a new session
//	sessionInfo, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Place the current roll
//	result, err := gameService.Place(ctx, sessionInfo.ID, 12)
//
// Session Management:
//
// Sessions are identified by unique 4-character IDs and maintain independent
// game state. Multiple sessions can run concurrently with different variants.
// Sessions track creation time, last access time, and placement history for
// analytics and debugging.
package service
