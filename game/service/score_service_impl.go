package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wricardo/lost-cities-scorer/game/engine"
	"github.com/wricardo/lost-cities-scorer/game/form"
)

var (
	// ErrSessionNotFound is returned by SessionManager implementations for unknown scoresheets
	ErrSessionNotFound = errors.New("session not found")
	// ErrPresetNotFound is returned by ConfigManager implementations for unknown presets
	ErrPresetNotFound = errors.New("preset not found")
	// ErrInvalidPreset is returned for presets that fail validation
	ErrInvalidPreset = errors.New("invalid preset")
)

// scoreServiceImpl implements the ScoreService interface
type scoreServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.Mutex
}

// NewScoreService creates a new score service instance
func NewScoreService(sessions SessionManager, configs ConfigManager) ScoreService {
	return &scoreServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// CreateSheet creates a new scoresheet
func (s *scoreServiceImpl) CreateSheet(ctx context.Context, req CreateSheetRequest) (*SheetInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	preset, err := s.resolvePreset(req.Preset)
	if err != nil {
		return nil, err
	}

	names := preset.PlayerNames
	if len(req.PlayerNames) > 0 {
		names = req.PlayerNames
	}
	if len(names) > engine.Players {
		return nil, fmt.Errorf("%w: at most %d player names allowed", form.ErrInvalidPlayer, engine.Players)
	}

	// Let the session manager generate a 4-character ID
	sess, err := s.sessions.Create("", preset, engine.ResolvePlayerNames(names))
	if err != nil {
		return nil, fmt.Errorf("failed to create scoresheet: %w", err)
	}

	return sheetInfo(sess), nil
}

// GetSheet retrieves scoresheet information
func (s *scoreServiceImpl) GetSheet(ctx context.Context, sheetID string) (*SheetInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sheetID)
	if err != nil {
		return nil, err
	}
	return sheetInfo(sess), nil
}

// ListSheets returns all live scoresheets
func (s *scoreServiceImpl) ListSheets(ctx context.Context) ([]*SheetInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SheetInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sheetInfo(sess))
	}
	return result, nil
}

// DeleteSheet removes a scoresheet
func (s *scoreServiceImpl) DeleteSheet(ctx context.Context, sheetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sheetID)
}

// ApplyEvent applies one input event to a scoresheet
func (s *scoreServiceImpl) ApplyEvent(ctx context.Context, sheetID string, ev form.Event) (*EventResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sheetID)
	if err != nil {
		return nil, err
	}

	accepted, err := sess.Controller.Apply(ev)
	if err != nil {
		return nil, err
	}

	view := sess.Controller.View()
	return &EventResult{Accepted: accepted, View: &view}, nil
}

// SetParameters replaces the scoring parameters of a scoresheet
func (s *scoreServiceImpl) SetParameters(ctx context.Context, sheetID string, params engine.ScoringParameters) (*form.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sheetID)
	if err != nil {
		return nil, err
	}

	sess.Controller.SetParameters(params)
	view := sess.Controller.View()
	return &view, nil
}

// ReplacePlayer swaps one player of a scoresheet
func (s *scoreServiceImpl) ReplacePlayer(ctx context.Context, sheetID string, idx int, player engine.Player) (*form.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sheetID)
	if err != nil {
		return nil, err
	}

	if err := sess.Controller.ReplacePlayer(idx, player); err != nil {
		return nil, err
	}
	view := sess.Controller.View()
	return &view, nil
}

// Reset empties both players of a scoresheet
func (s *scoreServiceImpl) Reset(ctx context.Context, sheetID string) (*form.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sheetID)
	if err != nil {
		return nil, err
	}

	sess.Controller.Reset()
	view := sess.Controller.View()
	return &view, nil
}

// GetView returns the current display of a scoresheet
func (s *scoreServiceImpl) GetView(ctx context.Context, sheetID string) (*form.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.touch(sheetID)
	if err != nil {
		return nil, err
	}

	view := sess.Controller.View()
	return &view, nil
}

// Calculate scores two players without storing anything
func (s *scoreServiceImpl) Calculate(ctx context.Context, req CalculateRequest) (*form.View, error) {
	var params engine.ScoringParameters
	if req.Parameters != nil {
		params = *req.Parameters
	} else {
		preset, err := s.resolvePreset(req.Preset)
		if err != nil {
			return nil, err
		}
		params = preset.Parameters
	}

	state := engine.AppState{ScoringParameters: params}
	for i, p := range req.Players {
		if p.Name == "" {
			p.Name = engine.DefaultPlayerNames()[i]
		}
		state.Players[i] = p.Clone()
	}

	view := form.Render(state)
	return &view, nil
}

// ListPresets returns the available scoring presets
func (s *scoreServiceImpl) ListPresets(ctx context.Context) ([]*PresetInfo, error) {
	return s.configs.ListPresets()
}

// LoadPreset returns a scoring preset by name
func (s *scoreServiceImpl) LoadPreset(ctx context.Context, name string) (*engine.Preset, error) {
	return s.configs.LoadPreset(name)
}

// SavePreset stores a scoring preset
func (s *scoreServiceImpl) SavePreset(ctx context.Context, name string, preset *engine.Preset) error {
	return s.configs.SavePreset(name, preset)
}

// resolvePreset loads the named preset, or the default for an empty name
func (s *scoreServiceImpl) resolvePreset(name string) (*engine.Preset, error) {
	if name == "" {
		return s.configs.GetDefault(), nil
	}

	preset, err := s.configs.LoadPreset(name)
	if err != nil {
		if errors.Is(err, ErrPresetNotFound) {
			available, listErr := s.configs.ListPresets()
			if listErr == nil && len(available) > 0 {
				var ids []string
				for _, p := range available {
					ids = append(ids, p.PresetID)
				}
				return nil, fmt.Errorf("%w: '%s'. Available presets: %v", ErrPresetNotFound, name, ids)
			}
		}
		return nil, fmt.Errorf("failed to load preset %s: %w", name, err)
	}
	return preset, nil
}

// touch fetches a scoresheet and records the access
func (s *scoreServiceImpl) touch(sheetID string) (*Session, error) {
	sess, err := s.sessions.Get(sheetID)
	if err != nil {
		return nil, fmt.Errorf("scoresheet not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sheetID)
	return sess, nil
}

func sheetInfo(sess *Session) *SheetInfo {
	view := sess.Controller.View()
	return &SheetInfo{
		ID:             sess.ID,
		Preset:         sess.PresetName,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		State:          sess.Controller.State(),
		View:           &view,
	}
}
