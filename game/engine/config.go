package engine

import (
	"encoding/json"
	"fmt"
	"os"
)

// ValidateGameConfig validates a game configuration for correctness.
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config cannot be nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Only the classic board is supported; grid_size is explicit in the JSON
	// so variant files stay self-describing.
	if config.GridSize != GridSize {
		return fmt.Errorf("config validation: grid_size must be %d, got %d", GridSize, config.GridSize)
	}

	if config.Dice.Count < MinDiceCount || config.Dice.Count > MaxDiceCount {
		return fmt.Errorf("config validation: dice.count must be between %d and %d, got %d",
			MinDiceCount, MaxDiceCount, config.Dice.Count)
	}
	if config.Dice.Faces < MinDiceFaces || config.Dice.Faces > MaxDiceFaces {
		return fmt.Errorf("config validation: dice.faces must be between %d and %d, got %d",
			MinDiceFaces, MaxDiceFaces, config.Dice.Faces)
	}

	scores := map[string]int{
		"five_of_a_kind":      config.Scoring.FiveOfAKind,
		"four_of_a_kind":      config.Scoring.FourOfAKind,
		"full_house":          config.Scoring.FullHouse,
		"three_of_a_kind":     config.Scoring.ThreeOfAKind,
		"two_pairs":           config.Scoring.TwoPairs,
		"one_pair":            config.Scoring.OnePair,
		"straight_with_pivot": config.Scoring.StraightWithPivot,
		"straight_no_pivot":   config.Scoring.StraightNoPivot,
	}
	for field, value := range scores {
		if value < 0 {
			return fmt.Errorf("config validation: scoring.%s must be non-negative, got %d", field, value)
		}
	}
	if config.Scoring.DiagonalMultiplier < 1 {
		return fmt.Errorf("config validation: scoring.diagonal_multiplier must be at least 1, got %d",
			config.Scoring.DiagonalMultiplier)
	}

	return nil
}

// LoadGameConfig loads and validates a game configuration from a JSON file.
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultGameConfig returns the classic Knister variant: a 5x5 board filled
// from two six-sided dice with the official score table.
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:        "Classic Knister",
		Description: "Official rules: 5x5 board, two six-sided dice",
		GridSize:    GridSize,
		Dice:        DiceConfig{Count: 2, Faces: 6},
		Scoring:     ClassicScoreTable(),
	}
}

// InitGameStateFromConfig creates a fresh game state for the configuration.
// The grid is empty, every position is available, and no roll is pending.
func InitGameStateFromConfig(config *GameConfig) *GameState {
	if config == nil {
		config = DefaultGameConfig()
	}

	size := config.GridSize
	grid := make([][]int, size)
	for i := range grid {
		grid[i] = make([]int, size)
	}

	available := make([]int, size*size)
	for i := range available {
		available[i] = i
	}

	return &GameState{
		Grid:               grid,
		AvailablePositions: available,
		ConfigName:         config.Name,
		PlacementHistory:   []PlacementEntry{},
	}
}
