package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/knister-game/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given display name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "classic"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v", configName, configIDs)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available variants", configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     s.getConfigID(session.Config.Name),
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}, nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, &SessionInfo{
			ID:             sess.ID,
			ConfigName:     s.getConfigID(sess.Config.Name),
			CreatedAt:      sess.CreatedAt,
			LastAccessedAt: sess.LastAccessedAt,
			GameState:      sess.Engine.GetState(),
			GameConfig:     sess.Config,
		})
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Place writes the current roll into a grid cell for a session
func (s *gameServiceImpl) Place(ctx context.Context, sessionID string, position int) (*PlaceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	placeErr := sess.Engine.ChooseAction(position)
	state := sess.Engine.GetState()

	result := &PlaceResult{
		Success:   placeErr == nil,
		GameState: state,
	}

	if placeErr != nil {
		result.Message = placeErr.Error()
		result.FailureCode = failureCode(placeErr)
		return result, nil
	}

	entry := sess.Engine.LastPlacement()
	result.Message = fmt.Sprintf("Placed %d at (%d,%d) for %+d points", entry.Value, entry.Row, entry.Col, entry.Reward)
	result.Events = placementEvents(entry, state)
	result.Step = &PlacementStep{
		Idx:          1,
		Position:     entry.Position,
		Row:          entry.Row,
		Col:          entry.Col,
		Value:        entry.Value,
		Reward:       entry.Reward,
		TotalAfter:   entry.TotalAfter,
		FinishedGame: state.Finished,
	}
	if !state.Finished {
		result.Step.NextRoll = state.CurrentRoll
	}

	// Auto-save session after placement
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after placement: %v\n", sessionID, err)
	}

	return result, nil
}

// BulkPlace executes multiple placements in sequence
func (s *gameServiceImpl) BulkPlace(ctx context.Context, sessionID string, positions []int) (*BulkPlaceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	state := sess.Engine.GetState()
	startScore := state.PreviousTotal

	result := &BulkPlaceResult{
		RequestedPlacements: len(positions),
		Events:              make([]GameEvent, 0),
		Success:             true,
		StartScore:          startScore,
		Finished:            state.Finished,
	}

	// Limit placements to prevent abuse
	if len(positions) > engine.MaxBulkPlacements {
		result.Truncated = true
		result.Limit = engine.MaxBulkPlacements
		positions = positions[:engine.MaxBulkPlacements]
	}

	for i, position := range positions {
		placeErr := sess.Engine.ChooseAction(position)
		if placeErr != nil {
			result.Success = false
			result.StoppedReason = fmt.Sprintf("placement %d failed: %v", i+1, placeErr)
			result.StopReasonCode = failureCode(placeErr)
			result.StoppedOnPlacement = i + 1
			break
		}

		result.PlacementsExecuted++
		currState := sess.Engine.GetState()
		entry := sess.Engine.LastPlacement()

		result.Events = append(result.Events, placementEvents(entry, currState)...)

		step := PlacementStep{
			Idx:          i + 1,
			Position:     entry.Position,
			Row:          entry.Row,
			Col:          entry.Col,
			Value:        entry.Value,
			Reward:       entry.Reward,
			TotalAfter:   entry.TotalAfter,
			FinishedGame: currState.Finished,
		}
		if !currState.Finished {
			step.NextRoll = currState.CurrentRoll
		}
		result.Steps = append(result.Steps, step)
	}

	endState := sess.Engine.GetState()
	result.GameState = endState
	result.EndScore = endState.PreviousTotal
	result.ScoreDelta = endState.PreviousTotal - startScore
	result.Finished = endState.Finished
	result.AvailablePositions = endState.AvailablePositions

	if endState.Finished {
		result.Message = fmt.Sprintf("Game finished with %d points", endState.PreviousTotal)
	} else {
		result.Message = fmt.Sprintf("Current roll: %d, %d cells remain", endState.CurrentRoll, len(endState.AvailablePositions))
	}

	// Auto-save session after bulk placements
	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after bulk placements: %v\n", sessionID, err)
	}

	return result, nil
}

// RollDice draws a fresh roll for a session
func (s *gameServiceImpl) RollDice(ctx context.Context, sessionID string) (*RollResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	sess.Engine.RollDice()
	roll, _ := sess.Engine.CurrentRoll()

	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after roll: %v\n", sessionID, err)
	}

	return &RollResult{
		Roll:      roll,
		GameState: sess.Engine.GetState(),
	}, nil
}

// SetRoll forces the current roll to a specific value
func (s *gameServiceImpl) SetRoll(ctx context.Context, sessionID string, value int) (*RollResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	sess.Engine.SetCurrentRoll(value)

	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after set-roll: %v\n", sessionID, err)
	}

	return &RollResult{
		Roll:      value,
		GameState: sess.Engine.GetState(),
	}, nil
}

// NewGame resets a session to an empty grid with a fresh first roll
func (s *gameServiceImpl) NewGame(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	sess.Engine.NewGame()

	if err := s.sessions.Save(sessionID); err != nil {
		fmt.Printf("Warning: Failed to persist session %s after new game: %v\n", sessionID, err)
	}

	return sess.Engine.GetState(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetPlacementHistory returns paginated placement history
func (s *gameServiceImpl) GetPlacementHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.PlacementHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > engine.MaxHistoryPageSize {
		opts.Limit = engine.MaxHistoryPageSize
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var placements []engine.PlacementEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			placements = append(placements, history[i])
		}
	} else {
		if start < total {
			placements = history[start:end]
		}
	}

	if placements == nil {
		placements = []engine.PlacementEntry{}
	}

	return &HistoryResponse{
		Placements:      placements,
		TotalPlacements: total,
		Page:            opts.Page,
		PageSize:        opts.Limit,
		TotalPages:      totalPages,
		HasNext:         opts.Page < totalPages,
		HasPrevious:     opts.Page > 1,
	}, nil
}

// ListConfigs returns available game variants
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game variant
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game variant to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// failureCode maps engine errors to machine-friendly codes
func failureCode(err error) string {
	switch {
	case errors.Is(err, engine.ErrGameFinished):
		return "game_finished"
	case errors.Is(err, engine.ErrInvalidAction):
		return "invalid_position"
	case errors.Is(err, engine.ErrNoDice):
		return "no_roll"
	default:
		return "error"
	}
}

// placementEvents generates events from a completed placement
func placementEvents(entry *engine.PlacementEntry, state *engine.GameState) []GameEvent {
	if entry == nil {
		return nil
	}

	events := []GameEvent{
		{
			Type:      "placement",
			Message:   fmt.Sprintf("Placed %d at (%d,%d) for %+d points", entry.Value, entry.Row, entry.Col, entry.Reward),
			Timestamp: time.Now(),
			Position:  entry.Position,
		},
	}

	if state.Finished {
		events = append(events, GameEvent{
			Type:      "game_finished",
			Message:   fmt.Sprintf("Grid full! Final score: %d", entry.TotalAfter),
			Timestamp: time.Now(),
		})
	} else {
		events = append(events, GameEvent{
			Type:      "roll",
			Message:   fmt.Sprintf("Rolled %d", state.CurrentRoll),
			Timestamp: time.Now(),
		})
	}

	return events
}
