// Package engine provides the core game logic for Knister.
//
// Knister is a single-player dice-placement puzzle: two dice are rolled,
// their total is written into one empty cell of a 5x5 board, and the game
// ends after 25 placements when the board is full. Rows, columns, and the
// two diagonals are scored for poker-style patterns, diagonals counting
// double.
//
// The engine package implements:
//   - Board state, availability tracking, and termination detection
//   - Placement validation and application with incremental rewards
//   - Line and grid scoring
//   - Dice rolling with an injectable randomness source
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by KnisterEngine. GameState represents the current game state,
// while GameConfig defines a scoring variant loaded from JSON files.
//
// Usage:
//
//	eng := engine.NewEngineWithDefaults()
//	eng.NewGame()
//
//	for !eng.HasFinished() {
//		actions := eng.AvailableActions()
//		if err := eng.ChooseAction(actions[0]); err != nil {
//			log.Fatal(err)
//		}
//	}
//	total := eng.TotalReward()
//
// Concurrency:
//
// An engine instance performs no internal locking. Embedders sharing an
// instance across goroutines must serialize all calls.
package engine
