package engine

import "testing"

func TestValidatePreset(t *testing.T) {
	tests := []struct {
		name    string
		preset  *Preset
		wantErr bool
	}{
		{"default", NewDefaultPreset(), false},
		{"nil", nil, true},
		{"missing name", &Preset{Parameters: NewScoringParameters()}, true},
		{"negative values allowed", &Preset{Name: "odd", Parameters: ScoringParameters{BaseValue: -1, BonusThreshold: 0, BonusValue: -5}}, false},
		{"too many names", &Preset{Name: "x", PlayerNames: []string{"a", "b", "c"}}, true},
		{"blank name", &Preset{Name: "x", PlayerNames: []string{"a", " "}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePreset(tt.preset)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePreset() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolvePlayerNames(t *testing.T) {
	got := ResolvePlayerNames([]string{"Alice"})
	if got != [Players]string{"Alice", "Player 2"} {
		t.Errorf("Unexpected names %v", got)
	}

	got = ResolvePlayerNames([]string{"", "Bob", "Extra"})
	if got != [Players]string{"Player 1", "Bob"} {
		t.Errorf("Unexpected names %v", got)
	}
}
