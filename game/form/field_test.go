package form

import (
	"slices"
	"testing"
)

func TestCardListField_Input(t *testing.T) {
	f := NewCardListField([]int{})

	cards, accepted, changed := f.Input("2 3")
	if !accepted || !changed {
		t.Fatalf("Expected accepted and changed, got %v %v", accepted, changed)
	}
	if !slices.Equal(cards, []int{2, 3}) {
		t.Errorf("Expected [2 3], got %v", cards)
	}

	// Whitespace-only edit is accepted but not propagated
	_, accepted, changed = f.Input("2 3 ")
	if !accepted || changed {
		t.Errorf("Expected accepted without change, got %v %v", accepted, changed)
	}
	if f.Display != "2 3 " {
		t.Errorf("Expected display to keep typed text, got %q", f.Display)
	}

	// Rejected edit leaves everything in place
	_, accepted, changed = f.Input("2 3 a")
	if accepted || changed {
		t.Errorf("Expected rejection, got %v %v", accepted, changed)
	}
	if f.Display != "2 3 " || !slices.Equal(f.Committed, []int{2, 3}) {
		t.Errorf("Rejected input changed the field: %+v", f)
	}
}

func TestCardListField_Sync(t *testing.T) {
	t.Run("keeps equivalent text", func(t *testing.T) {
		f := NewCardListField([]int{})
		f.Input("2  3 ")
		f.Sync([]int{2, 3})
		if f.Display != "2  3 " {
			t.Errorf("Expected display to be kept, got %q", f.Display)
		}
	})

	t.Run("rewrites stale text", func(t *testing.T) {
		f := NewCardListField([]int{})
		f.Input("2 3")
		f.Sync([]int{})
		if f.Display != "" {
			t.Errorf("Expected empty display after external reset, got %q", f.Display)
		}
		if len(f.Committed) != 0 {
			t.Errorf("Expected empty committed list, got %v", f.Committed)
		}
	})

	t.Run("canonical rendering", func(t *testing.T) {
		f := NewCardListField(nil)
		f.Sync([]int{4, 5, 10})
		if f.Display != "4 5 10" {
			t.Errorf("Expected '4 5 10', got %q", f.Display)
		}
	})
}

func TestDisplayMatches(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		cards []int
		want  bool
	}{
		{"empty", "", []int{}, true},
		{"canonical", "2 3 9", []int{2, 3, 9}, true},
		{"extra whitespace", " 2  3 9 ", []int{2, 3, 9}, true},
		{"typed ahead of committed list", "12", []int{1}, false},
		{"shorter list", "1", []int{1, 2}, false},
		{"rejected text", "1 a", []int{1}, false},
		{"stale text after reset", "2 3", []int{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayMatches(tt.text, tt.cards); got != tt.want {
				t.Errorf("DisplayMatches(%q, %v) = %v, expected %v", tt.text, tt.cards, got, tt.want)
			}
		})
	}
}
