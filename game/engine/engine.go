package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game lifecycle
	NewGame()
	GetState() *GameState
	SetState(state *GameState) error
	HasFinished() bool

	// Dice
	RollDice()
	SetCurrentRoll(value int)
	CurrentRoll() (int, bool)

	// Board
	Grid() [][]int
	AvailableActions() []int
	ChooseAction(position int) error

	// Rewards
	LastReward() int
	TotalReward() int

	// Configuration
	GetConfig() *GameConfig

	// History
	PlacementHistory() []PlacementEntry
	LastPlacement() *PlacementEntry
}

// KnisterEngine implements the Engine interface. A single instance is meant
// for exclusive use by one caller; embedders that share an instance across
// goroutines must serialize access themselves.
type KnisterEngine struct {
	state  *GameState
	config *GameConfig
	roller Roller
	pivot  int
}

// NewEngine creates a new game engine with the provided configuration.
// The first game starts only when NewGame is called.
func NewEngine(config *GameConfig) (*KnisterEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	return &KnisterEngine{
		config: config,
		state:  InitGameStateFromConfig(config),
		roller: NewRandomRoller(config.Dice),
		pivot:  config.Dice.StraightPivot(),
	}, nil
}

// NewEngineWithDefaults creates a new game engine with the classic variant.
func NewEngineWithDefaults() *KnisterEngine {
	config := DefaultGameConfig()
	return &KnisterEngine{
		config: config,
		state:  InitGameStateFromConfig(config),
		roller: NewRandomRoller(config.Dice),
		pivot:  config.Dice.StraightPivot(),
	}
}

// NewEngineWithRoller creates an engine that draws rolls from the supplied
// roller instead of the process-wide random source. Used for deterministic
// play and testing.
func NewEngineWithRoller(config *GameConfig, roller Roller) (*KnisterEngine, error) {
	eng, err := NewEngine(config)
	if err != nil {
		return nil, err
	}
	eng.roller = roller
	return eng, nil
}

// NewGame resets the board, availability, rewards, and finished flag, then
// draws the first roll.
func (e *KnisterEngine) NewGame() {
	e.state = InitGameStateFromConfig(e.config)
	e.RollDice()
}

// GetState returns a deep copy of the current game state.
func (e *KnisterEngine) GetState() *GameState {
	return e.state.Clone()
}

// SetState replaces the engine state (used for persistence loading). The
// engine keeps its own copy so later caller mutations cannot leak in.
func (e *KnisterEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	e.state = state.Clone()
	return nil
}

// HasFinished returns whether the board is full.
func (e *KnisterEngine) HasFinished() bool {
	return e.state.Finished
}

// RollDice draws a new dice total and stores it as the pending roll,
// overwriting any existing one.
func (e *KnisterEngine) RollDice() {
	e.state.CurrentRoll = e.roller.Roll()
	e.state.RollSet = true
}

// SetCurrentRoll stores an explicit roll value, bypassing randomness. No
// range validation is performed: callers feeding external dice are trusted,
// and out-of-range values will be placed and scored as-is.
func (e *KnisterEngine) SetCurrentRoll(value int) {
	e.state.CurrentRoll = value
	e.state.RollSet = true
}

// CurrentRoll returns the pending dice total, and false when none is set.
func (e *KnisterEngine) CurrentRoll() (int, bool) {
	return e.state.CurrentRoll, e.state.RollSet
}

// Grid returns an independent copy of the board.
func (e *KnisterEngine) Grid() [][]int {
	return copyGrid(e.state.Grid)
}

// AvailableActions returns an independent copy of the free cell indices.
func (e *KnisterEngine) AvailableActions() []int {
	return append([]int(nil), e.state.AvailablePositions...)
}

// ChooseAction places the pending roll at the given position and updates
// rewards. It fails with ErrGameFinished after the board is full, with
// ErrInvalidAction for occupied or out-of-range positions, and with
// ErrNoDice when no roll is pending; failures leave the state unchanged.
//
// The value is placed before rescoring, and the next roll is drawn only
// after the finished check so a finishing move never produces a fresh roll.
func (e *KnisterEngine) ChooseAction(position int) error {
	st := e.state

	if st.Finished {
		return ErrGameFinished
	}

	idx := -1
	for i, p := range st.AvailablePositions {
		if p == position {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: position %d", ErrInvalidAction, position)
	}

	if !st.RollSet {
		return ErrNoDice
	}

	row, col := position/e.config.GridSize, position%e.config.GridSize
	st.Grid[row][col] = st.CurrentRoll
	st.AvailablePositions = append(st.AvailablePositions[:idx], st.AvailablePositions[idx+1:]...)

	total := TotalScore(st.Grid, e.config.Scoring, e.pivot)
	st.LastReward = total - st.PreviousTotal
	st.PreviousTotal = total

	st.TotalPlacements++
	st.PlacementHistory = append(st.PlacementHistory, PlacementEntry{
		Position:        position,
		Row:             row,
		Col:             col,
		Value:           st.CurrentRoll,
		Reward:          st.LastReward,
		TotalAfter:      total,
		Timestamp:       time.Now().Unix(),
		PlacementNumber: st.TotalPlacements,
	})

	if len(st.AvailablePositions) == 0 {
		st.Finished = true
	} else {
		e.RollDice()
	}

	return nil
}

// LastReward returns the score delta of the most recent placement, or 0
// before any placement in a fresh game.
func (e *KnisterEngine) LastReward() int {
	return e.state.LastReward
}

// TotalReward returns the total score, recomputed from the grid.
func (e *KnisterEngine) TotalReward() int {
	return TotalScore(e.state.Grid, e.config.Scoring, e.pivot)
}

// GetConfig returns the current game configuration.
func (e *KnisterEngine) GetConfig() *GameConfig {
	return e.config
}

// PlacementHistory returns a copy of the placement log for this game.
func (e *KnisterEngine) PlacementHistory() []PlacementEntry {
	return append([]PlacementEntry(nil), e.state.PlacementHistory...)
}

// LastPlacement returns the most recent placement, or nil if none.
func (e *KnisterEngine) LastPlacement() *PlacementEntry {
	if len(e.state.PlacementHistory) == 0 {
		return nil
	}
	last := e.state.PlacementHistory[len(e.state.PlacementHistory)-1]
	return &last
}
