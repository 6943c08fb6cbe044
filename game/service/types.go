package service

import (
	"time"

	"github.com/wricardo/knister-game/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// PlaceResult contains the result of a single placement
type PlaceResult struct {
	Success   bool              `json:"success"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
	Step      *PlacementStep    `json:"step,omitempty"`

	// Failure diagnostics
	FailureCode string `json:"failure_code,omitempty"` // game_finished|invalid_position|no_roll
}

// BulkPlaceResult contains the result of multiple placements
type BulkPlaceResult struct {
	// Summary
	PlacementsExecuted  int               `json:"placements_executed"`
	RequestedPlacements int               `json:"requested_placements"`
	Success             bool              `json:"success"`
	GameState           *engine.GameState `json:"game_state"`
	Events              []GameEvent       `json:"events"`
	StoppedReason       string            `json:"stopped_reason,omitempty"`
	StopReasonCode      string            `json:"stop_reason_code,omitempty"` // game_finished|invalid_position|no_roll
	StoppedOnPlacement  int               `json:"stopped_on_placement,omitempty"`
	Truncated           bool              `json:"truncated,omitempty"`
	Limit               int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartScore int `json:"start_score"`
	EndScore   int `json:"end_score"`
	ScoreDelta int `json:"score_delta"`

	// Per-step compact trace (only for this call)
	Steps []PlacementStep `json:"steps,omitempty"`

	// Final status aids
	Finished           bool   `json:"finished"`
	Message            string `json:"message,omitempty"`
	AvailablePositions []int  `json:"available_positions,omitempty"`
}

// PlacementStep is a compact record for each executed placement
type PlacementStep struct {
	Idx          int  `json:"idx"`
	Position     int  `json:"position"`
	Row          int  `json:"row"`
	Col          int  `json:"col"`
	Value        int  `json:"value"`
	Reward       int  `json:"reward"`
	TotalAfter   int  `json:"total_after"`
	NextRoll     int  `json:"next_roll,omitempty"`
	FinishedGame bool `json:"finished_game,omitempty"`
}

// RollResult contains the outcome of rolling or forcing the dice
type RollResult struct {
	Roll      int               `json:"roll"`
	GameState *engine.GameState `json:"game_state"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "placement", "roll", "game_finished", "new_game"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Position  int       `json:"position,omitempty"`
}

// HistoryOptions configures placement history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated placement history
type HistoryResponse struct {
	Placements      []engine.PlacementEntry `json:"placements"`
	TotalPlacements int                     `json:"total_placements"`
	Page            int                     `json:"page"`
	PageSize        int                     `json:"page_size"`
	TotalPages      int                     `json:"total_pages"`
	HasNext         bool                    `json:"has_next"`
	HasPrevious     bool                    `json:"has_previous"`
}

// ConfigInfo provides information about a game variant
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	GridSize    int    `json:"grid_size"`
	DiceCount   int    `json:"dice_count"`
	DiceFaces   int    `json:"dice_faces"`
}
