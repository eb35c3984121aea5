// Package engine provides the scoring rules for the Lost Cities scorekeeper.
//
// The engine package implements:
//   - Expedition scoring (card sum, base value, multiplier, bonus)
//   - Player totals across the five expeditions
//   - The winner / tie result text
//   - Immutable state values for the scoresheet
//
// Core Types:
//
// ScoringParameters holds the global rule values shared by both players.
// Player holds one player's name, multipliers and card sets, one slot per
// expedition. AppState is the complete scoresheet: parameters plus exactly
// two players.
//
// Usage:
//
//	params := engine.NewScoringParameters()
//	player := engine.NewPlayer("Player 1").
//		WithMultiplier(0, 1).
//		WithCardSet(0, []int{2, 3, 9})
//
//	score := engine.PlayerScore(params, player) // -12
//
// Scoring Rules:
//
// An expedition that was never started (no multiplier, no cards) scores 0.
// Otherwise the card values are summed, the base value is subtracted, and the
// result is multiplied by multiplier+1. When multiplier+card count reaches the
// bonus threshold the bonus value is added.
//
// Values are never mutated in place. The With* helpers return new values
// that share no slices with their receiver.
package engine
