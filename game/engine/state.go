package engine

import (
	"fmt"
	"slices"
)

// ValidSlot reports whether slot addresses an expedition
func ValidSlot(slot int) bool {
	return slot >= 0 && slot < Expeditions
}

// ValidPlayer reports whether idx addresses a player
func ValidPlayer(idx int) bool {
	return idx >= 0 && idx < Players
}

// Clone returns a deep copy of the player
func (p Player) Clone() Player {
	c := p
	for i, cards := range p.CardSets {
		c.CardSets[i] = cloneCards(cards)
	}
	return c
}

// WithMultiplier returns a copy of the player with one multiplier replaced
func (p Player) WithMultiplier(slot, multiplier int) Player {
	c := p.Clone()
	if ValidSlot(slot) {
		c.Multipliers[slot] = multiplier
	}
	return c
}

// WithCardSet returns a copy of the player with one card set replaced
func (p Player) WithCardSet(slot int, cards []int) Player {
	c := p.Clone()
	if ValidSlot(slot) {
		c.CardSets[slot] = cloneCards(cards)
	}
	return c
}

// Reset returns an empty player that keeps this player's name
func (p Player) Reset() Player {
	return NewPlayer(p.Name)
}

// Equal reports whether two players hold the same values
func (p Player) Equal(o Player) bool {
	if p.Name != o.Name || p.Multipliers != o.Multipliers {
		return false
	}
	for i := range p.CardSets {
		if !slices.Equal(p.CardSets[i], o.CardSets[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the state
func (s AppState) Clone() AppState {
	c := s
	for i, p := range s.Players {
		c.Players[i] = p.Clone()
	}
	return c
}

// WithParameters returns a copy of the state with new scoring parameters
func (s AppState) WithParameters(params ScoringParameters) AppState {
	c := s.Clone()
	c.ScoringParameters = params
	return c
}

// WithPlayer returns a copy of the state with one player replaced
func (s AppState) WithPlayer(idx int, player Player) (AppState, error) {
	if !ValidPlayer(idx) {
		return s, fmt.Errorf("player index %d out of range", idx)
	}
	c := s.Clone()
	c.Players[idx] = player.Clone()
	return c, nil
}

// Reset returns a copy of the state with both players emptied.
// Names and scoring parameters are kept.
func (s AppState) Reset() AppState {
	c := s.Clone()
	for i, p := range c.Players {
		c.Players[i] = p.Reset()
	}
	return c
}

func cloneCards(cards []int) []int {
	if cards == nil {
		return []int{}
	}
	return slices.Clone(cards)
}
