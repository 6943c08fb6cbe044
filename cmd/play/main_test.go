package main

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/wricardo/knister-game/game/engine"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		wantErr  bool
	}{
		{"0", 0, false},
		{"24", 24, false},
		{"12", 12, false},
		{"1,1", 0, false},
		{"5,5", 24, false},
		{"2,3", 7, false},
		{" 3 , 4 ", 13, false},
		{"25", 0, true},
		{"-1", 0, true},
		{"0,1", 0, true},
		{"6,1", 0, true},
		{"1,6", 0, true},
		{"a,b", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, test := range tests {
		got, err := parseAction(test.input)
		if test.wantErr {
			if err == nil {
				t.Errorf("parseAction(%q) expected error, got %d", test.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseAction(%q) unexpected error: %v", test.input, err)
			continue
		}
		if got != test.expected {
			t.Errorf("parseAction(%q) = %d, expected %d", test.input, got, test.expected)
		}
	}
}

func TestPrintGrid(t *testing.T) {
	grid := make([][]int, engine.GridSize)
	for i := range grid {
		grid[i] = make([]int, engine.GridSize)
	}
	grid[0][0] = 7
	grid[2][2] = 12

	var buf bytes.Buffer
	printGrid(&buf, grid)

	output := buf.String()

	if !strings.Contains(output, "CURRENT GRID:") {
		t.Errorf("Expected grid header, got: %s", output)
	}
	if !strings.Contains(output, "1 | 7 |") {
		t.Errorf("Expected value 7 in first row, got: %s", output)
	}
	if !strings.Contains(output, "|12 |") {
		t.Errorf("Expected value 12 in third row, got: %s", output)
	}
	if !strings.Contains(output, "    1   2   3   4   5") {
		t.Errorf("Expected column headers, got: %s", output)
	}
}

func TestPlayGame_FullGame(t *testing.T) {
	eng, err := engine.NewEngineWithRoller(
		engine.DefaultGameConfig(),
		engine.RollerFunc(func() int { return 7 }),
	)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	// Fill the board in order, one index per line.
	var input strings.Builder
	for i := 0; i < engine.CellCount; i++ {
		input.WriteString(strconv.Itoa(i))
		input.WriteString("\n")
	}

	var out bytes.Buffer
	if err := playGame(eng, strings.NewReader(input.String()), &out); err != nil {
		t.Fatalf("playGame failed: %v", err)
	}

	if !eng.HasFinished() {
		t.Error("Expected game to be finished")
	}

	output := out.String()
	if !strings.Contains(output, "Game over!") {
		t.Errorf("Expected game over banner, got: %s", output)
	}

	// All sevens: every row and column scores five of a kind (10), the two
	// diagonals score double (20 each). 10*10 + 2*20 = 140.
	if eng.TotalReward() != 140 {
		t.Errorf("Expected final score 140 for all-sevens board, got %d", eng.TotalReward())
	}
	if !strings.Contains(output, "Final score: 140") {
		t.Errorf("Expected final score in output, got: %s", output)
	}
}

func TestPlayGame_RejectsOccupiedCell(t *testing.T) {
	eng, err := engine.NewEngineWithRoller(
		engine.DefaultGameConfig(),
		engine.RollerFunc(func() int { return 5 }),
	)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	// Place at 0, then try 0 again, then fill the rest.
	var input strings.Builder
	input.WriteString("0\n0\n")
	for i := 1; i < engine.CellCount; i++ {
		input.WriteString(strconv.Itoa(i))
		input.WriteString("\n")
	}

	var out bytes.Buffer
	if err := playGame(eng, strings.NewReader(input.String()), &out); err != nil {
		t.Fatalf("playGame failed: %v", err)
	}

	if !strings.Contains(out.String(), "already taken") {
		t.Errorf("Expected occupied-cell message, got: %s", out.String())
	}
	if !eng.HasFinished() {
		t.Error("Expected game to be finished")
	}
}

func TestPlayGame_EOFMidGame(t *testing.T) {
	eng, err := engine.NewEngineWithRoller(
		engine.DefaultGameConfig(),
		engine.RollerFunc(func() int { return 9 }),
	)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	var out bytes.Buffer
	err = playGame(eng, strings.NewReader("0\n1\n"), &out)
	if err == nil {
		t.Error("Expected error when input ends mid-game")
	}
}
