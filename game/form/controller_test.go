package form

import (
	"errors"
	"slices"
	"testing"

	"github.com/wricardo/lost-cities-scorer/game/engine"
)

func newTestController() *Controller {
	return NewController(engine.NewScoringParameters(), engine.DefaultPlayerNames())
}

func TestNewController(t *testing.T) {
	c := newTestController()
	view := c.View()

	if view.Parameters != engine.NewScoringParameters() {
		t.Errorf("Expected default parameters, got %+v", view.Parameters)
	}
	if view.Result != "Its a tie! 0 to 0" {
		t.Errorf("Expected tie text, got %q", view.Result)
	}
	if view.Players[0].Name != "Player 1" || view.Players[1].Name != "Player 2" {
		t.Errorf("Unexpected player names: %s, %s", view.Players[0].Name, view.Players[1].Name)
	}
	if view.Winner != -1 {
		t.Errorf("Expected no winner, got %d", view.Winner)
	}
}

func TestController_EndToEnd(t *testing.T) {
	c := newTestController()

	if err := c.SetMultiplier(0, 0, "1"); err != nil {
		t.Fatalf("SetMultiplier failed: %v", err)
	}
	accepted, err := c.SetCardSetText(0, 0, "2 3 9")
	if err != nil || !accepted {
		t.Fatalf("SetCardSetText failed: accepted=%v err=%v", accepted, err)
	}

	view := c.View()
	if got := view.Players[0].Expeditions[0].Score; got != -12 {
		t.Errorf("Expected expedition score -12, got %d", got)
	}
	for slot := 1; slot < engine.Expeditions; slot++ {
		if got := view.Players[0].Expeditions[slot].Score; got != 0 {
			t.Errorf("Expected slot %d score 0, got %d", slot, got)
		}
	}
	if view.Players[0].Score != -12 {
		t.Errorf("Expected total -12, got %d", view.Players[0].Score)
	}
	if view.Result != "Player 2 wins! 0 to -12" {
		t.Errorf("Unexpected result %q", view.Result)
	}
}

func TestController_SetParameter(t *testing.T) {
	c := newTestController()

	tests := []struct {
		field    ParamField
		raw      string
		expected engine.ScoringParameters
	}{
		{FieldBaseValue, "15", engine.ScoringParameters{BaseValue: 15, BonusThreshold: 8, BonusValue: 20}},
		{FieldBonusThreshold, "", engine.ScoringParameters{BaseValue: 15, BonusThreshold: 0, BonusValue: 20}},
		{FieldBonusValue, "-4", engine.ScoringParameters{BaseValue: 15, BonusThreshold: 0, BonusValue: -4}},
		{FieldBonusThreshold, "x", engine.ScoringParameters{BaseValue: 15, BonusThreshold: 0, BonusValue: -4}},
	}

	for _, tt := range tests {
		if err := c.SetParameter(tt.field, tt.raw); err != nil {
			t.Fatalf("SetParameter(%s, %q) failed: %v", tt.field, tt.raw, err)
		}
		if got := c.State().ScoringParameters; got != tt.expected {
			t.Errorf("After %s=%q expected %+v, got %+v", tt.field, tt.raw, tt.expected, got)
		}
	}

	if err := c.SetParameter("nope", "1"); !errors.Is(err, ErrInvalidField) {
		t.Errorf("Expected ErrInvalidField, got %v", err)
	}
}

func TestController_RejectedCardEdit(t *testing.T) {
	c := newTestController()
	c.SetCardSetText(1, 2, "1 2")
	before := c.State()
	version := c.Version()

	accepted, err := c.SetCardSetText(1, 2, "1 2 a")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if accepted {
		t.Error("Expected edit to be rejected")
	}
	if !slices.Equal(c.State().Players[1].CardSets[2], before.Players[1].CardSets[2]) {
		t.Errorf("Rejected edit changed state: %v", c.State().Players[1].CardSets[2])
	}
	if c.Version() != version {
		t.Errorf("Rejected edit bumped version")
	}
	if text := c.View().Players[1].Expeditions[2].Text; text != "1 2" {
		t.Errorf("Expected display '1 2', got %q", text)
	}
}

func TestController_OverflowingCardEditRejected(t *testing.T) {
	c := newTestController()
	c.SetCardSetText(0, 1, "5")

	accepted, err := c.SetCardSetText(0, 1, "5 99999999999999999999")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if accepted {
		t.Error("Expected overflowing card value to be rejected")
	}
	view := c.View()
	if text := view.Players[0].Expeditions[1].Text; text != "5" {
		t.Errorf("Expected display '5', got %q", text)
	}
	if score := view.Players[0].Expeditions[1].Score; score != -15 {
		t.Errorf("Expected score -15, got %d", score)
	}
}

func TestController_FieldKeepsEmptyList(t *testing.T) {
	c := newTestController()

	f, err := c.Field(0, 0)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if f.Committed == nil {
		t.Error("Expected empty committed list, got nil")
	}

	c.SetCardSetText(0, 0, "3 4")
	c.Reset()
	f, _ = c.Field(0, 0)
	if f.Committed == nil || len(f.Committed) != 0 {
		t.Errorf("Expected empty committed list after reset, got %#v", f.Committed)
	}
	if f.Display != "" {
		t.Errorf("Expected empty display after reset, got %q", f.Display)
	}
}

func TestController_WhitespaceEditDoesNotChurn(t *testing.T) {
	c := newTestController()
	c.SetCardSetText(0, 1, "4 5")
	version := c.Version()

	accepted, _ := c.SetCardSetText(0, 1, "4  5 ")
	if !accepted {
		t.Fatal("Expected whitespace edit to be accepted")
	}
	if c.Version() != version {
		t.Errorf("Expected no state change, version %d -> %d", version, c.Version())
	}
	if text := c.View().Players[0].Expeditions[1].Text; text != "4  5 " {
		t.Errorf("Expected typed text to be displayed, got %q", text)
	}
}

func TestController_Reset(t *testing.T) {
	c := newTestController()
	c.SetParameter(FieldBaseValue, "10")
	c.SetMultiplier(0, 4, "3")
	c.SetCardSetText(0, 4, "7 8 ")
	c.SetCardSetText(1, 0, "2")
	c.ReplacePlayer(1, c.State().Players[1].WithCardSet(3, []int{6}))

	c.Reset()
	state := c.State()

	if state.ScoringParameters.BaseValue != 10 {
		t.Errorf("Reset changed parameters: %+v", state.ScoringParameters)
	}
	for i, p := range state.Players {
		if p.Name != engine.DefaultPlayerNames()[i] {
			t.Errorf("Reset changed name to %s", p.Name)
		}
		if p.Multipliers != [engine.Expeditions]int{} {
			t.Errorf("Expected zero multipliers, got %v", p.Multipliers)
		}
		for slot, cards := range p.CardSets {
			if len(cards) != 0 {
				t.Errorf("Expected empty cards at %d, got %v", slot, cards)
			}
		}
	}

	// Stale text is resynchronized
	view := c.View()
	if text := view.Players[0].Expeditions[4].Text; text != "" {
		t.Errorf("Expected field text cleared, got %q", text)
	}
	if text := view.Players[1].Expeditions[3].Text; text != "" {
		t.Errorf("Expected field text cleared, got %q", text)
	}
}

func TestController_ReplacePlayer(t *testing.T) {
	c := newTestController()
	replacement := engine.NewPlayer("Dana").WithMultiplier(2, 1).WithCardSet(2, []int{8, 9})

	if err := c.ReplacePlayer(1, replacement); err != nil {
		t.Fatalf("ReplacePlayer failed: %v", err)
	}

	view := c.View()
	if view.Players[1].Name != "Dana" {
		t.Errorf("Expected Dana, got %s", view.Players[1].Name)
	}
	if text := view.Players[1].Expeditions[2].Text; text != "8 9" {
		t.Errorf("Expected synced text '8 9', got %q", text)
	}
	if view.Players[0].Name != "Player 1" {
		t.Errorf("Other player changed")
	}

	if err := c.ReplacePlayer(5, replacement); !errors.Is(err, ErrInvalidPlayer) {
		t.Errorf("Expected ErrInvalidPlayer, got %v", err)
	}
}

func TestController_Apply(t *testing.T) {
	c := newTestController()

	events := []Event{
		{Type: EventParameter, Field: FieldBonusThreshold, Value: "3"},
		{Type: EventMultiplier, Player: 1, Slot: 0, Value: "2"},
		{Type: EventCards, Player: 1, Slot: 0, Value: "10 10"},
	}
	for _, ev := range events {
		accepted, err := c.Apply(ev)
		if err != nil || !accepted {
			t.Fatalf("Apply(%+v) = %v, %v", ev, accepted, err)
		}
	}

	// (20 - 20) * 3 + bonus, since 2 + 2 >= 3
	if got := c.View().Players[1].Score; got != 20 {
		t.Errorf("Expected score 20, got %d", got)
	}

	if accepted, _ := c.Apply(Event{Type: EventCards, Player: 1, Slot: 0, Value: "x"}); accepted {
		t.Error("Expected rejected card text")
	}

	if _, err := c.Apply(Event{Type: EventReset}); err != nil {
		t.Fatalf("Reset event failed: %v", err)
	}
	if got := c.View().Players[1].Score; got != 0 {
		t.Errorf("Expected score 0 after reset, got %d", got)
	}

	invalid := []struct {
		ev  Event
		err error
	}{
		{Event{Type: "undo"}, ErrInvalidEvent},
		{Event{Type: EventCards, Player: 2, Slot: 0, Value: "1"}, ErrInvalidPlayer},
		{Event{Type: EventMultiplier, Player: 0, Slot: 5, Value: "1"}, ErrInvalidSlot},
		{Event{Type: EventParameter, Field: "bonus", Value: "1"}, ErrInvalidField},
	}
	for _, tt := range invalid {
		if _, err := c.Apply(tt.ev); !errors.Is(err, tt.err) {
			t.Errorf("Apply(%+v) error = %v, expected %v", tt.ev, err, tt.err)
		}
	}
}

func TestController_StateIsSnapshot(t *testing.T) {
	c := newTestController()
	c.SetCardSetText(0, 0, "1 2")

	state := c.State()
	state.Players[0].CardSets[0][0] = 50

	if got := c.State().Players[0].CardSets[0][0]; got != 1 {
		t.Errorf("Snapshot aliases controller state, got %d", got)
	}
}
