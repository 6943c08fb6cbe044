package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/wricardo/knister-game/game/engine"
	"github.com/wricardo/knister-game/game/service"
)

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}
	eng.NewGame()

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id string, config *engine.GameConfig) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, config)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errors.New("session not found")
}

func (m *MockSessionManager) Save(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	return nil
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
}

func NewMockConfigManager() *MockConfigManager {
	classic := engine.DefaultGameConfig()
	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"classic": classic,
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	if config, exists := m.configs[name]; exists {
		return config, nil
	}
	return nil, errors.New("configuration not found")
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	var infos []*service.ConfigInfo
	for id, config := range m.configs {
		infos = append(infos, &service.ConfigInfo{
			Filename:    id + ".json",
			ConfigID:    id,
			Name:        config.Name,
			Description: config.Description,
			GridSize:    config.GridSize,
			DiceCount:   config.Dice.Count,
			DiceFaces:   config.Dice.Faces,
		})
	}
	return infos, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["classic"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	m.configs[name] = config
	return nil
}

func newTestService() service.GameService {
	return service.NewGameService(NewMockSessionManager(), NewMockConfigManager())
}

func TestCreateSession(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	t.Run("default config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if info.ID == "" {
			t.Error("Expected non-empty session ID")
		}
		if info.GameState == nil {
			t.Fatal("Expected game state to be set")
		}
		if !info.GameState.RollSet {
			t.Error("Expected a fresh session to have a pending roll")
		}
		if len(info.GameState.AvailablePositions) != engine.CellCount {
			t.Errorf("Expected %d available positions, got %d",
				engine.CellCount, len(info.GameState.AvailablePositions))
		}
	})

	t.Run("named config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "classic")
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if info.ConfigName != "classic" {
			t.Errorf("Expected config name 'classic', got '%s'", info.ConfigName)
		}
	})

	t.Run("unknown config", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "does-not-exist")
		if err == nil {
			t.Error("Expected error for unknown config")
		}
	})
}

func TestGetSession(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	got, err := svc.GetSession(ctx, info.ID)
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if got.ID != info.ID {
		t.Errorf("Expected session ID %s, got %s", info.ID, got.ID)
	}

	_, err = svc.GetSession(ctx, "missing")
	if err == nil {
		t.Error("Expected error for missing session")
	}
}

func TestListSessions(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.CreateSession(ctx, ""); err != nil {
			t.Fatalf("Failed to create session %d: %v", i, err)
		}
	}

	sessions, err := svc.ListSessions(ctx)
	if err != nil {
		t.Fatalf("Failed to list sessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Errorf("Expected 3 sessions, got %d", len(sessions))
	}
}

func TestDeleteSession(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "")

	if err := svc.DeleteSession(ctx, info.ID); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}

	if _, err := svc.GetSession(ctx, info.ID); err == nil {
		t.Error("Expected error getting deleted session")
	}
}

func TestPlace(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "")

	t.Run("successful placement", func(t *testing.T) {
		if _, err := svc.SetRoll(ctx, info.ID, 8); err != nil {
			t.Fatalf("Failed to set roll: %v", err)
		}

		result, err := svc.Place(ctx, info.ID, 12)
		if err != nil {
			t.Fatalf("Place returned error: %v", err)
		}
		if !result.Success {
			t.Fatalf("Expected success, got failure: %s", result.Message)
		}
		if result.Step == nil {
			t.Fatal("Expected step info")
		}
		if result.Step.Position != 12 || result.Step.Row != 2 || result.Step.Col != 2 {
			t.Errorf("Unexpected step coordinates: %+v", result.Step)
		}
		if result.Step.Value != 8 {
			t.Errorf("Expected placed value 8, got %d", result.Step.Value)
		}
		if result.GameState.Grid[2][2] != 8 {
			t.Errorf("Expected grid cell to hold 8, got %d", result.GameState.Grid[2][2])
		}
		if len(result.Events) == 0 {
			t.Error("Expected placement events")
		}
	})

	t.Run("occupied cell", func(t *testing.T) {
		result, err := svc.Place(ctx, info.ID, 12)
		if err != nil {
			t.Fatalf("Place returned error: %v", err)
		}
		if result.Success {
			t.Error("Expected failure placing on occupied cell")
		}
		if result.FailureCode != "invalid_position" {
			t.Errorf("Expected failure code 'invalid_position', got '%s'", result.FailureCode)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		result, err := svc.Place(ctx, info.ID, 25)
		if err != nil {
			t.Fatalf("Place returned error: %v", err)
		}
		if result.Success {
			t.Error("Expected failure for out-of-range position")
		}
		if result.FailureCode != "invalid_position" {
			t.Errorf("Expected failure code 'invalid_position', got '%s'", result.FailureCode)
		}
	})

	t.Run("missing session", func(t *testing.T) {
		if _, err := svc.Place(ctx, "missing", 0); err == nil {
			t.Error("Expected error for missing session")
		}
	})
}

func TestPlace_GameFinished(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "")

	for pos := 0; pos < engine.CellCount; pos++ {
		result, err := svc.Place(ctx, info.ID, pos)
		if err != nil {
			t.Fatalf("Place %d returned error: %v", pos, err)
		}
		if !result.Success {
			t.Fatalf("Placement %d failed: %s", pos, result.Message)
		}
	}

	result, err := svc.Place(ctx, info.ID, 0)
	if err != nil {
		t.Fatalf("Place returned error: %v", err)
	}
	if result.Success {
		t.Error("Expected failure after game finished")
	}
	if result.FailureCode != "game_finished" {
		t.Errorf("Expected failure code 'game_finished', got '%s'", result.FailureCode)
	}
}

func TestBulkPlace(t *testing.T) {
	ctx := context.Background()

	t.Run("full game", func(t *testing.T) {
		svc := newTestService()
		info, _ := svc.CreateSession(ctx, "")

		positions := make([]int, engine.CellCount)
		for i := range positions {
			positions[i] = i
		}

		result, err := svc.BulkPlace(ctx, info.ID, positions)
		if err != nil {
			t.Fatalf("BulkPlace returned error: %v", err)
		}
		if !result.Success {
			t.Fatalf("Expected success, stopped: %s", result.StoppedReason)
		}
		if result.PlacementsExecuted != engine.CellCount {
			t.Errorf("Expected %d placements, got %d", engine.CellCount, result.PlacementsExecuted)
		}
		if !result.Finished {
			t.Error("Expected game to be finished")
		}
		if len(result.Steps) != engine.CellCount {
			t.Errorf("Expected %d steps, got %d", engine.CellCount, len(result.Steps))
		}
		if !result.Steps[len(result.Steps)-1].FinishedGame {
			t.Error("Expected last step to finish the game")
		}
		if result.EndScore != result.GameState.PreviousTotal {
			t.Errorf("End score mismatch: %d vs %d", result.EndScore, result.GameState.PreviousTotal)
		}
	})

	t.Run("stops on invalid position", func(t *testing.T) {
		svc := newTestService()
		info, _ := svc.CreateSession(ctx, "")

		result, err := svc.BulkPlace(ctx, info.ID, []int{0, 0, 1})
		if err != nil {
			t.Fatalf("BulkPlace returned error: %v", err)
		}
		if result.Success {
			t.Error("Expected failure on repeated position")
		}
		if result.PlacementsExecuted != 1 {
			t.Errorf("Expected 1 placement executed, got %d", result.PlacementsExecuted)
		}
		if result.StoppedOnPlacement != 2 {
			t.Errorf("Expected stop on placement 2, got %d", result.StoppedOnPlacement)
		}
		if result.StopReasonCode != "invalid_position" {
			t.Errorf("Expected stop code 'invalid_position', got '%s'", result.StopReasonCode)
		}
	})

	t.Run("truncates oversized request", func(t *testing.T) {
		svc := newTestService()
		info, _ := svc.CreateSession(ctx, "")

		positions := make([]int, engine.MaxBulkPlacements+10)
		for i := range positions {
			positions[i] = i % engine.CellCount
		}

		result, err := svc.BulkPlace(ctx, info.ID, positions)
		if err != nil {
			t.Fatalf("BulkPlace returned error: %v", err)
		}
		if !result.Truncated {
			t.Error("Expected truncation")
		}
		if result.Limit != engine.MaxBulkPlacements {
			t.Errorf("Expected limit %d, got %d", engine.MaxBulkPlacements, result.Limit)
		}
	})
}

func TestRollAndSetRoll(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "")

	t.Run("roll dice", func(t *testing.T) {
		result, err := svc.RollDice(ctx, info.ID)
		if err != nil {
			t.Fatalf("RollDice returned error: %v", err)
		}
		if result.Roll < 2 || result.Roll > 12 {
			t.Errorf("Roll %d outside [2,12]", result.Roll)
		}
		if result.GameState.CurrentRoll != result.Roll {
			t.Errorf("State roll %d does not match result %d", result.GameState.CurrentRoll, result.Roll)
		}
	})

	t.Run("set roll", func(t *testing.T) {
		result, err := svc.SetRoll(ctx, info.ID, 11)
		if err != nil {
			t.Fatalf("SetRoll returned error: %v", err)
		}
		if result.Roll != 11 {
			t.Errorf("Expected roll 11, got %d", result.Roll)
		}
		if result.GameState.CurrentRoll != 11 {
			t.Errorf("Expected state roll 11, got %d", result.GameState.CurrentRoll)
		}
	})

	t.Run("set roll accepts any value", func(t *testing.T) {
		result, err := svc.SetRoll(ctx, info.ID, 99)
		if err != nil {
			t.Fatalf("SetRoll returned error: %v", err)
		}
		if result.Roll != 99 {
			t.Errorf("Expected roll 99, got %d", result.Roll)
		}
	})
}

func TestNewGame(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "")

	// Fill some cells first
	if _, err := svc.BulkPlace(ctx, info.ID, []int{0, 1, 2}); err != nil {
		t.Fatalf("BulkPlace returned error: %v", err)
	}

	state, err := svc.NewGame(ctx, info.ID)
	if err != nil {
		t.Fatalf("NewGame returned error: %v", err)
	}
	if len(state.AvailablePositions) != engine.CellCount {
		t.Errorf("Expected %d available positions after reset, got %d",
			engine.CellCount, len(state.AvailablePositions))
	}
	if state.PreviousTotal != 0 {
		t.Errorf("Expected score 0 after reset, got %d", state.PreviousTotal)
	}
	if !state.RollSet {
		t.Error("Expected a fresh roll after reset")
	}
	if len(state.PlacementHistory) != 0 {
		t.Errorf("Expected empty history after reset, got %d entries", len(state.PlacementHistory))
	}
}

func TestGetPlacementHistory(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	info, _ := svc.CreateSession(ctx, "")

	if _, err := svc.BulkPlace(ctx, info.ID, []int{0, 1, 2, 3, 4}); err != nil {
		t.Fatalf("BulkPlace returned error: %v", err)
	}

	t.Run("defaults", func(t *testing.T) {
		resp, err := svc.GetPlacementHistory(ctx, info.ID, service.HistoryOptions{})
		if err != nil {
			t.Fatalf("GetPlacementHistory returned error: %v", err)
		}
		if resp.TotalPlacements != 5 {
			t.Errorf("Expected 5 total placements, got %d", resp.TotalPlacements)
		}
		if len(resp.Placements) != 5 {
			t.Errorf("Expected 5 placements in page, got %d", len(resp.Placements))
		}
		// Default order is most recent first
		if resp.Placements[0].Position != 4 {
			t.Errorf("Expected most recent placement first, got position %d", resp.Placements[0].Position)
		}
	})

	t.Run("ascending order", func(t *testing.T) {
		resp, err := svc.GetPlacementHistory(ctx, info.ID, service.HistoryOptions{Order: "asc"})
		if err != nil {
			t.Fatalf("GetPlacementHistory returned error: %v", err)
		}
		if resp.Placements[0].Position != 0 {
			t.Errorf("Expected oldest placement first, got position %d", resp.Placements[0].Position)
		}
	})

	t.Run("pagination", func(t *testing.T) {
		resp, err := svc.GetPlacementHistory(ctx, info.ID, service.HistoryOptions{Page: 2, Limit: 2, Order: "asc"})
		if err != nil {
			t.Fatalf("GetPlacementHistory returned error: %v", err)
		}
		if resp.TotalPages != 3 {
			t.Errorf("Expected 3 pages, got %d", resp.TotalPages)
		}
		if len(resp.Placements) != 2 {
			t.Errorf("Expected 2 placements on page 2, got %d", len(resp.Placements))
		}
		if resp.Placements[0].Position != 2 {
			t.Errorf("Expected position 2 first on page 2, got %d", resp.Placements[0].Position)
		}
		if !resp.HasNext || !resp.HasPrevious {
			t.Error("Expected both next and previous pages")
		}
	})
}

func TestListConfigs(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	configs, err := svc.ListConfigs(ctx)
	if err != nil {
		t.Fatalf("ListConfigs returned error: %v", err)
	}
	if len(configs) == 0 {
		t.Fatal("Expected at least one config")
	}
	if configs[0].DiceCount != 2 || configs[0].DiceFaces != 6 {
		t.Errorf("Expected classic 2d6 config, got %dd%d", configs[0].DiceCount, configs[0].DiceFaces)
	}
}
