package service

import (
	"time"

	"github.com/wricardo/lost-cities-scorer/game/engine"
	"github.com/wricardo/lost-cities-scorer/game/form"
)

// CreateSheetRequest selects the preset and player names of a new scoresheet
type CreateSheetRequest struct {
	Preset      string   `json:"preset,omitempty"`
	PlayerNames []string `json:"player_names,omitempty"`
}

// SheetInfo provides information about a scoresheet
type SheetInfo struct {
	ID             string          `json:"id"`
	Preset         string          `json:"preset"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
	State          engine.AppState `json:"state"`
	View           *form.View      `json:"view"`
}

// EventResult contains the outcome of an input event
type EventResult struct {
	Accepted bool       `json:"accepted"`
	View     *form.View `json:"view"`
}

// CalculateRequest scores two players without creating a scoresheet.
// Parameters take precedence over Preset; with neither the default preset is used.
type CalculateRequest struct {
	Preset     string                        `json:"preset,omitempty"`
	Parameters *engine.ScoringParameters     `json:"parameters,omitempty"`
	Players    [engine.Players]engine.Player `json:"players"`
}

// PresetInfo provides information about a scoring preset
type PresetInfo struct {
	Filename    string                   `json:"filename"`
	PresetID    string                   `json:"preset_id"` // The identifier to use for scoresheet creation
	Name        string                   `json:"name"`      // Display name
	Description string                   `json:"description"`
	Parameters  engine.ScoringParameters `json:"parameters"`
}
