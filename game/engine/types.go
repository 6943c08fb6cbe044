package engine

import "errors"

const (
	// GridSize is the side length of the classic Knister board.
	GridSize = 5

	// CellCount is the number of placeable cells on the board.
	CellCount = GridSize * GridSize

	// Validation constants
	MinDiceCount       = 1
	MaxDiceCount       = 4
	MinDiceFaces       = 2
	MaxDiceFaces       = 20
	MaxBulkPlacements  = CellCount
	MaxHistoryPageSize = 100
)

// Placement failure sentinels. ChooseAction returns exactly one of these
// (possibly wrapped) and leaves the game state untouched on failure.
var (
	ErrGameFinished  = errors.New("game has already finished")
	ErrInvalidAction = errors.New("invalid action")
	ErrNoDice        = errors.New("current roll is not set")
)

// DiceConfig describes the dice pool rolled before each placement.
type DiceConfig struct {
	Count int `json:"count"`
	Faces int `json:"faces"`
}

// ScoreTable holds the point values awarded per line pattern.
type ScoreTable struct {
	FiveOfAKind        int `json:"five_of_a_kind"`
	FourOfAKind        int `json:"four_of_a_kind"`
	FullHouse          int `json:"full_house"`
	ThreeOfAKind       int `json:"three_of_a_kind"`
	TwoPairs           int `json:"two_pairs"`
	OnePair            int `json:"one_pair"`
	StraightWithPivot  int `json:"straight_with_pivot"`
	StraightNoPivot    int `json:"straight_no_pivot"`
	DiagonalMultiplier int `json:"diagonal_multiplier"`
}

// GameConfig represents a game variant loaded from JSON. The classic variant
// uses two six-sided dice and the official Knister score table.
type GameConfig struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	GridSize    int        `json:"grid_size"`
	Dice        DiceConfig `json:"dice"`
	Scoring     ScoreTable `json:"scoring"`
}

// PlacementEntry records a single successful placement.
type PlacementEntry struct {
	Position        int   `json:"position"`
	Row             int   `json:"row"`
	Col             int   `json:"col"`
	Value           int   `json:"value"`
	Reward          int   `json:"reward"`
	TotalAfter      int   `json:"total_after"`
	Timestamp       int64 `json:"timestamp"`
	PlacementNumber int   `json:"placement_number"`
}

// GameState represents the complete game state. Zero grid cells are empty;
// filled cells hold dice totals.
type GameState struct {
	Grid               [][]int          `json:"grid"`
	AvailablePositions []int            `json:"available_positions"`
	CurrentRoll        int              `json:"current_roll"`
	RollSet            bool             `json:"roll_set"`
	Finished           bool             `json:"finished"`
	LastReward         int              `json:"last_reward"`
	PreviousTotal      int              `json:"previous_total"`
	ConfigName         string           `json:"config_name"`
	PlacementHistory   []PlacementEntry `json:"placement_history"`
	TotalPlacements    int              `json:"total_placements"`
}

// Clone returns a deep copy of the state. Mutating the copy never affects
// the engine that produced it.
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	cp := *gs
	cp.Grid = copyGrid(gs.Grid)
	cp.AvailablePositions = append([]int(nil), gs.AvailablePositions...)
	cp.PlacementHistory = append([]PlacementEntry(nil), gs.PlacementHistory...)
	return &cp
}

func copyGrid(grid [][]int) [][]int {
	cp := make([][]int, len(grid))
	for i, row := range grid {
		cp[i] = append([]int(nil), row...)
	}
	return cp
}
