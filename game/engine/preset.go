package engine

import (
	"fmt"
	"strings"
)

// DefaultPresetName is the preset used when none is requested
const DefaultPresetName = "standard"

// Preset is a named set of scoring parameters loaded from a config file
type Preset struct {
	Name        string            `json:"name" toml:"name"`
	Description string            `json:"description" toml:"description"`
	Parameters  ScoringParameters `json:"parameters" toml:"parameters"`
	PlayerNames []string          `json:"player_names,omitempty" toml:"player_names,omitempty"`
}

// NewDefaultPreset returns the built-in standard rules
func NewDefaultPreset() *Preset {
	return &Preset{
		Name:        DefaultPresetName,
		Description: "Standard Lost Cities scoring",
		Parameters:  NewScoringParameters(),
	}
}

// ValidatePreset checks a preset for structural correctness.
// Parameter values themselves are unconstrained.
func ValidatePreset(preset *Preset) error {
	if preset == nil {
		return fmt.Errorf("preset validation: preset is nil")
	}
	if strings.TrimSpace(preset.Name) == "" {
		return fmt.Errorf("preset validation: name is required")
	}
	if len(preset.PlayerNames) > Players {
		return fmt.Errorf("preset validation: at most %d player names allowed, got %d", Players, len(preset.PlayerNames))
	}
	for i, name := range preset.PlayerNames {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("preset validation: player_names[%d] is empty", i)
		}
	}
	return nil
}

// ResolvePlayerNames fills missing names with the defaults
func ResolvePlayerNames(names []string) [Players]string {
	resolved := DefaultPlayerNames()
	for i, name := range names {
		if i >= Players {
			break
		}
		if name = strings.TrimSpace(name); name != "" {
			resolved[i] = name
		}
	}
	return resolved
}
