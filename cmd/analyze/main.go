// Command analyze prints quick, human-readable statistics about variant
// configuration files in the project's configs directory. It summarizes
// dice and scoring settings, the roll value distribution, and score
// statistics from random playouts.
package main

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"sort"

	"github.com/wricardo/knister-game/game/engine"
)

const playouts = 2000

func main() {
	configs := []string{
		"classic.json",
		"triple_diagonals.json",
	}

	for _, configFile := range configs {
		fmt.Printf("\n=== Analyzing %s ===\n", configFile)
		analyzeConfig(filepath.Join("configs", configFile))
	}
}

func analyzeConfig(path string) {
	config, err := engine.LoadGameConfig(path)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	fmt.Printf("Name: %s\n", config.Name)
	fmt.Printf("Grid Size: %d x %d\n", config.GridSize, config.GridSize)
	fmt.Printf("Dice: %dd%d (totals %d-%d)\n",
		config.Dice.Count, config.Dice.Faces,
		config.Dice.Count, config.Dice.Count*config.Dice.Faces)
	fmt.Printf("Diagonal Multiplier: %dx\n", config.Scoring.DiagonalMultiplier)

	dist := rollDistribution(config.Dice)
	fmt.Println("Roll distribution:")
	totals := make([]int, 0, len(dist))
	for total := range dist {
		totals = append(totals, total)
	}
	sort.Ints(totals)
	for _, total := range totals {
		fmt.Printf("  %2d: %5.2f%%\n", total, dist[total]*100)
	}

	stats, err := randomPlayoutStats(config, playouts)
	if err != nil {
		fmt.Printf("Error running playouts: %v\n", err)
		return
	}
	fmt.Printf("Random playouts (%d games):\n", playouts)
	fmt.Printf("  Min score:  %d\n", stats.Min)
	fmt.Printf("  Mean score: %.1f\n", stats.Mean)
	fmt.Printf("  Max score:  %d\n", stats.Max)
}

// rollDistribution returns the probability of each dice total by enumerating
// all face combinations.
func rollDistribution(dice engine.DiceConfig) map[int]float64 {
	counts := map[int]int{0: 1}
	for i := 0; i < dice.Count; i++ {
		next := make(map[int]int)
		for total, count := range counts {
			for face := 1; face <= dice.Faces; face++ {
				next[total+face] += count
			}
		}
		counts = next
	}

	outcomes := 1
	for i := 0; i < dice.Count; i++ {
		outcomes *= dice.Faces
	}

	dist := make(map[int]float64, len(counts))
	for total, count := range counts {
		dist[total] = float64(count) / float64(outcomes)
	}
	return dist
}

// PlayoutStats summarizes final scores over a batch of random games.
type PlayoutStats struct {
	Min  int
	Max  int
	Mean float64
}

// randomPlayoutStats plays n complete games placing every roll into a
// uniformly random free cell.
func randomPlayoutStats(config *engine.GameConfig, n int) (*PlayoutStats, error) {
	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}

	stats := &PlayoutStats{Min: int(^uint(0) >> 1)}
	sum := 0

	for i := 0; i < n; i++ {
		eng.NewGame()
		for !eng.HasFinished() {
			avail := eng.AvailableActions()
			pos := avail[rand.IntN(len(avail))]
			if err := eng.ChooseAction(pos); err != nil {
				return nil, err
			}
		}

		score := eng.TotalReward()
		sum += score
		if score < stats.Min {
			stats.Min = score
		}
		if score > stats.Max {
			stats.Max = score
		}
	}

	stats.Mean = float64(sum) / float64(n)
	return stats, nil
}
