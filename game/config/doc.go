// Package config provides game variant management for the Knister engine.
//
// The config package handles:
//   - Loading game variants from JSON files
//   - Variant validation and verification
//   - Default variant management
//   - Variant discovery and listing
//
// Variant Format:
//
// Game variants are stored as JSON files in the configs directory.
// Each variant defines:
//   - Dice parameters (number of dice, faces per die)
//   - The scoring table for row, column and diagonal patterns
//   - The diagonal score multiplier
//
// Available Variants:
//
//   - classic: Standard Knister rules with two six-sided dice
//   - double_diagonals: Classic scoring with diagonals worth four times
//     a normal line
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load a specific variant
//	gameConfig, err := manager.LoadConfig("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Get the default variant
//	defaultConfig := manager.GetDefault()
//
//	// List available variants
//	configs, err := manager.ListConfigs()
//
// Validation:
//
// All variants are validated for:
//   - The fixed 5x5 grid size
//   - Dice count and face bounds
//   - Non-negative score values
//   - A diagonal multiplier of at least one
package config
