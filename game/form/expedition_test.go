package form

import (
	"errors"
	"slices"
	"testing"
)

func TestParseExpedition(t *testing.T) {
	tests := []struct {
		input      string
		multiplier int
		cards      []int
		wantErr    bool
	}{
		{"1:2 3 9", 1, []int{2, 3, 9}, false},
		{"2 3 9", 0, []int{2, 3, 9}, false},
		{"3:", 3, []int{}, false},
		{"", 0, []int{}, false},
		{" 2 :  4   5 ", 2, []int{4, 5}, false},
		{"1:2 x", 0, nil, true},
		{"1:2:3", 0, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, cards, err := ParseExpedition(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCards) {
					t.Errorf("Expected ErrInvalidCards, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if m != tt.multiplier {
				t.Errorf("Expected multiplier %d, got %d", tt.multiplier, m)
			}
			if !slices.Equal(cards, tt.cards) {
				t.Errorf("Expected cards %v, got %v", tt.cards, cards)
			}
		})
	}
}

func TestParsePlayer(t *testing.T) {
	p, err := ParsePlayer("Ana", []string{"1:2 3 9", "", "0:10"})
	if err != nil {
		t.Fatalf("ParsePlayer failed: %v", err)
	}
	if p.Name != "Ana" {
		t.Errorf("Expected name Ana, got %s", p.Name)
	}
	if p.Multipliers[0] != 1 || !slices.Equal(p.CardSets[0], []int{2, 3, 9}) {
		t.Errorf("Unexpected slot 0: %d %v", p.Multipliers[0], p.CardSets[0])
	}
	if len(p.CardSets[1]) != 0 || len(p.CardSets[4]) != 0 {
		t.Error("Expected untouched slots to be empty")
	}
	if !slices.Equal(p.CardSets[2], []int{10}) {
		t.Errorf("Expected slot 2 [10], got %v", p.CardSets[2])
	}

	if _, err := ParsePlayer("x", make([]string, 6)); !errors.Is(err, ErrInvalidSlot) {
		t.Errorf("Expected ErrInvalidSlot for six expeditions, got %v", err)
	}
	if _, err := ParsePlayer("x", []string{"1:a"}); !errors.Is(err, ErrInvalidCards) {
		t.Errorf("Expected ErrInvalidCards, got %v", err)
	}
}
