// Command validate provides a small CLI that validates game variant JSON
// files in the ../configs directory. It checks:
//   - JSON structure and required fields
//   - Grid size, dice bounds, and score table constraints
//   - Straight feasibility: the dice must produce at least five distinct totals
//   - Scoring sanity: warns when a rarer pattern pays less than a common one
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/knister-game/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateConfig loads and validates a single variant JSON file. It runs the
// engine's structural validation plus playability checks the engine does
// not enforce.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	// Straights need at least five distinct dice totals.
	minTotal := config.Dice.Count
	maxTotal := config.Dice.Count * config.Dice.Faces
	distinctTotals := maxTotal - minTotal + 1
	if distinctTotals < engine.GridSize {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("Dice produce only %d distinct totals; straights need %d", distinctTotals, engine.GridSize))
	}

	// Informational: flag score values that invert pattern rarity.
	warnings := scoringWarnings(config.Scoring)

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", config.GridSize, config.GridSize))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Dice: %dd%d (totals %d-%d)", config.Dice.Count, config.Dice.Faces, minTotal, maxTotal))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Diagonal multiplier: %dx", config.Scoring.DiagonalMultiplier))
		for _, w := range warnings {
			result.Errors = append(result.Errors, "⚠ "+w)
		}
	}

	return result
}

// scoringWarnings reports score table entries where a strictly rarer line
// pattern pays less than a more common one. These are legal but usually
// indicate a typo in a custom variant.
func scoringWarnings(s engine.ScoreTable) []string {
	var warnings []string

	if s.FiveOfAKind < s.FourOfAKind {
		warnings = append(warnings, fmt.Sprintf("five_of_a_kind (%d) pays less than four_of_a_kind (%d)", s.FiveOfAKind, s.FourOfAKind))
	}
	if s.FourOfAKind < s.ThreeOfAKind {
		warnings = append(warnings, fmt.Sprintf("four_of_a_kind (%d) pays less than three_of_a_kind (%d)", s.FourOfAKind, s.ThreeOfAKind))
	}
	if s.ThreeOfAKind < s.OnePair {
		warnings = append(warnings, fmt.Sprintf("three_of_a_kind (%d) pays less than one_pair (%d)", s.ThreeOfAKind, s.OnePair))
	}
	if s.TwoPairs < s.OnePair {
		warnings = append(warnings, fmt.Sprintf("two_pairs (%d) pays less than one_pair (%d)", s.TwoPairs, s.OnePair))
	}

	return warnings
}

// main scans ../configs for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
