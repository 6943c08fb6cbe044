package engine

import (
	"errors"
	"testing"
)

// scriptRoller replays a fixed sequence of totals, wrapping around at the end.
type scriptRoller struct {
	values []int
	next   int
}

func (r *scriptRoller) Roll() int {
	v := r.values[r.next%len(r.values)]
	r.next++
	return v
}

func newScriptedEngine(t *testing.T, values ...int) *KnisterEngine {
	t.Helper()
	eng, err := NewEngineWithRoller(DefaultGameConfig(), &scriptRoller{values: values})
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return eng
}

func TestNewEngine(t *testing.T) {
	config := DefaultGameConfig()
	eng, err := NewEngine(config)
	if err != nil {
		t.Fatalf("Failed to create new engine: %v", err)
	}

	if eng.HasFinished() {
		t.Error("Expected game not to be finished initially")
	}
	if eng.TotalReward() != 0 {
		t.Errorf("Expected initial total reward 0, got %d", eng.TotalReward())
	}
	if eng.LastReward() != 0 {
		t.Errorf("Expected initial last reward 0, got %d", eng.LastReward())
	}
	if _, ok := eng.CurrentRoll(); ok {
		t.Error("Expected no pending roll before NewGame")
	}
	if got := len(eng.AvailableActions()); got != CellCount {
		t.Errorf("Expected %d available actions, got %d", CellCount, got)
	}
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	config := DefaultGameConfig()
	config.GridSize = 4

	if _, err := NewEngine(config); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestNewGame_DrawsFirstRoll(t *testing.T) {
	eng := NewEngineWithDefaults()
	eng.NewGame()

	roll, ok := eng.CurrentRoll()
	if !ok {
		t.Fatal("Expected a pending roll after NewGame")
	}
	if roll < 2 || roll > 12 {
		t.Errorf("Expected roll in [2,12], got %d", roll)
	}
}

func TestNewGame_ResetsEverything(t *testing.T) {
	eng := newScriptedEngine(t, 7)
	eng.NewGame()

	for i := 0; i < 5; i++ {
		if err := eng.ChooseAction(i); err != nil {
			t.Fatalf("Placement %d failed: %v", i, err)
		}
	}
	if eng.TotalReward() == 0 {
		t.Error("Expected non-zero score before reset")
	}

	eng.NewGame()

	if got := len(eng.AvailableActions()); got != CellCount {
		t.Errorf("Expected %d available actions after NewGame, got %d", CellCount, got)
	}
	if eng.TotalReward() != 0 {
		t.Errorf("Expected total reward 0 after NewGame, got %d", eng.TotalReward())
	}
	if eng.LastReward() != 0 {
		t.Errorf("Expected last reward 0 after NewGame, got %d", eng.LastReward())
	}
	if eng.HasFinished() {
		t.Error("Expected game not finished after NewGame")
	}
	if len(eng.PlacementHistory()) != 0 {
		t.Error("Expected empty placement history after NewGame")
	}
	for _, row := range eng.Grid() {
		for _, v := range row {
			if v != 0 {
				t.Fatalf("Expected empty grid after NewGame, found %d", v)
			}
		}
	}
}

func TestChooseAction_PlacesRollAndUpdatesRewards(t *testing.T) {
	eng := newScriptedEngine(t, 6, 6, 3)
	eng.NewGame()

	if err := eng.ChooseAction(0); err != nil {
		t.Fatalf("First placement failed: %v", err)
	}
	if eng.LastReward() != 0 {
		t.Errorf("Expected reward 0 for a lone value, got %d", eng.LastReward())
	}

	// Second 6 next to the first completes a row pair.
	if err := eng.ChooseAction(1); err != nil {
		t.Fatalf("Second placement failed: %v", err)
	}
	if eng.LastReward() != 1 {
		t.Errorf("Expected reward 1 for pair, got %d", eng.LastReward())
	}
	if eng.TotalReward() != 1 {
		t.Errorf("Expected total 1, got %d", eng.TotalReward())
	}

	grid := eng.Grid()
	if grid[0][0] != 6 || grid[0][1] != 6 {
		t.Errorf("Expected placed values at row 0, got %v", grid[0])
	}

	actions := eng.AvailableActions()
	if len(actions) != CellCount-2 {
		t.Errorf("Expected %d available actions, got %d", CellCount-2, len(actions))
	}
	for _, a := range actions {
		if a == 0 || a == 1 {
			t.Errorf("Expected position %d to be consumed", a)
		}
	}
}

func TestChooseAction_RowColMapping(t *testing.T) {
	eng := newScriptedEngine(t, 9)
	eng.NewGame()

	// Position 13 maps to row 2, col 3.
	if err := eng.ChooseAction(13); err != nil {
		t.Fatalf("Placement failed: %v", err)
	}
	if got := eng.Grid()[2][3]; got != 9 {
		t.Errorf("Expected 9 at (2,3), got %d", got)
	}

	last := eng.LastPlacement()
	if last == nil {
		t.Fatal("Expected a placement record")
	}
	if last.Row != 2 || last.Col != 3 || last.Position != 13 {
		t.Errorf("Unexpected placement record: %+v", last)
	}
}

func TestChooseAction_InvalidPosition(t *testing.T) {
	eng := newScriptedEngine(t, 7)
	eng.NewGame()

	before := eng.GetState()

	tests := []struct {
		name     string
		position int
	}{
		{"negative", -1},
		{"out of range", CellCount},
		{"far out of range", 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := eng.ChooseAction(tt.position)
			if !errors.Is(err, ErrInvalidAction) {
				t.Errorf("Expected ErrInvalidAction, got %v", err)
			}
		})
	}

	// Occupied cell.
	if err := eng.ChooseAction(5); err != nil {
		t.Fatalf("Placement failed: %v", err)
	}
	if err := eng.ChooseAction(5); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("Expected ErrInvalidAction for occupied cell, got %v", err)
	}

	// Failed attempts must not have disturbed anything except the one
	// successful placement.
	after := eng.GetState()
	if len(after.AvailablePositions) != len(before.AvailablePositions)-1 {
		t.Errorf("Expected exactly one position consumed, before=%d after=%d",
			len(before.AvailablePositions), len(after.AvailablePositions))
	}
}

func TestChooseAction_NoDice(t *testing.T) {
	eng := newScriptedEngine(t, 7)
	// No NewGame: fresh state has no pending roll.

	err := eng.ChooseAction(0)
	if !errors.Is(err, ErrNoDice) {
		t.Errorf("Expected ErrNoDice, got %v", err)
	}
	if got := len(eng.AvailableActions()); got != CellCount {
		t.Errorf("Expected state unchanged on failure, got %d actions", got)
	}
}

func TestChooseAction_GameFinished(t *testing.T) {
	eng := newScriptedEngine(t, 7)
	eng.NewGame()

	for i := 0; i < CellCount; i++ {
		if err := eng.ChooseAction(i); err != nil {
			t.Fatalf("Placement %d failed: %v", i, err)
		}
	}
	if !eng.HasFinished() {
		t.Fatal("Expected game finished after filling the board")
	}

	gridBefore := eng.Grid()
	err := eng.ChooseAction(0)
	if !errors.Is(err, ErrGameFinished) {
		t.Errorf("Expected ErrGameFinished, got %v", err)
	}
	gridAfter := eng.Grid()
	for i := range gridBefore {
		for j := range gridBefore[i] {
			if gridBefore[i][j] != gridAfter[i][j] {
				t.Fatalf("Grid mutated after GameFinished failure at (%d,%d)", i, j)
			}
		}
	}
}

func TestChooseAction_FinishingMoveDrawsNoRoll(t *testing.T) {
	eng := newScriptedEngine(t, 7)
	eng.NewGame()

	for i := 0; i < CellCount-1; i++ {
		if err := eng.ChooseAction(i); err != nil {
			t.Fatalf("Placement %d failed: %v", i, err)
		}
	}

	rollsBefore := eng.roller.(*scriptRoller).next
	if err := eng.ChooseAction(CellCount - 1); err != nil {
		t.Fatalf("Finishing placement failed: %v", err)
	}
	rollsAfter := eng.roller.(*scriptRoller).next

	if rollsAfter != rollsBefore {
		t.Error("Expected no roll drawn by the finishing move")
	}
	if !eng.HasFinished() {
		t.Error("Expected finished after last placement")
	}
}

func TestChooseAction_DeltaConsistency(t *testing.T) {
	eng := newScriptedEngine(t, 5, 9, 5, 9, 5, 2, 11, 2, 11, 2, 7, 3, 7, 3, 7)
	eng.NewGame()

	for !eng.HasFinished() {
		before := eng.TotalReward()
		if err := eng.ChooseAction(eng.AvailableActions()[0]); err != nil {
			t.Fatalf("Placement failed: %v", err)
		}
		after := eng.TotalReward()
		if eng.LastReward() != after-before {
			t.Fatalf("Delta mismatch: lastReward=%d, total went %d -> %d",
				eng.LastReward(), before, after)
		}
	}
}

func TestChooseAction_RollInvariant(t *testing.T) {
	eng := NewEngineWithDefaults()
	eng.NewGame()

	for i := 0; i < 10; i++ {
		if err := eng.ChooseAction(eng.AvailableActions()[0]); err != nil {
			t.Fatalf("Placement failed: %v", err)
		}
		roll, ok := eng.CurrentRoll()
		if !ok {
			t.Fatal("Expected a fresh roll after non-finishing placement")
		}
		if roll < 2 || roll > 12 {
			t.Errorf("Expected roll in [2,12], got %d", roll)
		}
	}
}

func TestSetCurrentRoll_NoValidation(t *testing.T) {
	eng := NewEngineWithDefaults()
	eng.NewGame()

	// Out-of-domain values are accepted and placed verbatim.
	eng.SetCurrentRoll(99)
	if err := eng.ChooseAction(0); err != nil {
		t.Fatalf("Placement failed: %v", err)
	}
	if got := eng.Grid()[0][0]; got != 99 {
		t.Errorf("Expected 99 placed, got %d", got)
	}

	eng.SetCurrentRoll(-3)
	if roll, ok := eng.CurrentRoll(); !ok || roll != -3 {
		t.Errorf("Expected roll -3 stored, got %d (set=%v)", roll, ok)
	}
}

func TestEndToEnd_DeterministicFullGame(t *testing.T) {
	eng := NewEngineWithDefaults()
	eng.NewGame()

	// Deterministic roll sequence; always place on the first free cell.
	rolls := []int{2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	placements := 0
	for !eng.HasFinished() {
		eng.SetCurrentRoll(rolls[placements%len(rolls)])
		if err := eng.ChooseAction(eng.AvailableActions()[0]); err != nil {
			t.Fatalf("Placement %d failed: %v", placements, err)
		}
		placements++
		if placements > CellCount {
			t.Fatal("Game did not terminate after filling the board")
		}
	}

	if placements != CellCount {
		t.Errorf("Expected exactly %d placements, got %d", CellCount, placements)
	}

	// Total reward must match an independent recomputation over the grid.
	config := eng.GetConfig()
	independent := TotalScore(eng.Grid(), config.Scoring, config.Dice.StraightPivot())
	if eng.TotalReward() != independent {
		t.Errorf("Total reward %d does not match independent score %d",
			eng.TotalReward(), independent)
	}

	// Rewards must telescope to the final total.
	sum := 0
	for _, entry := range eng.PlacementHistory() {
		sum += entry.Reward
	}
	if sum != eng.TotalReward() {
		t.Errorf("Reward deltas sum to %d, total is %d", sum, eng.TotalReward())
	}
}

func TestDefensiveCopies(t *testing.T) {
	eng := newScriptedEngine(t, 7)
	eng.NewGame()

	grid := eng.Grid()
	grid[0][0] = 999
	if eng.Grid()[0][0] == 999 {
		t.Error("Grid() must return an independent copy")
	}

	actions := eng.AvailableActions()
	actions[0] = 999
	if eng.AvailableActions()[0] == 999 {
		t.Error("AvailableActions() must return an independent copy")
	}

	state := eng.GetState()
	state.Grid[1][1] = 999
	state.Finished = true
	if eng.Grid()[1][1] == 999 || eng.HasFinished() {
		t.Error("GetState() must return an independent copy")
	}
}

func TestSetState_RestoresSnapshot(t *testing.T) {
	eng := newScriptedEngine(t, 4, 4, 8)
	eng.NewGame()
	if err := eng.ChooseAction(0); err != nil {
		t.Fatalf("Placement failed: %v", err)
	}
	snapshot := eng.GetState()

	other := NewEngineWithDefaults()
	if err := other.SetState(snapshot); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}

	if other.Grid()[0][0] != 4 {
		t.Errorf("Expected restored grid value 4, got %d", other.Grid()[0][0])
	}
	if len(other.AvailableActions()) != CellCount-1 {
		t.Errorf("Expected %d actions after restore, got %d",
			CellCount-1, len(other.AvailableActions()))
	}

	if err := other.SetState(nil); err == nil {
		t.Error("Expected error for nil state")
	}
}
