package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wricardo/lost-cities-scorer/game/engine"
)

// ErrInvalidCards is returned when expedition text holds anything but
// digits and whitespace
var ErrInvalidCards = errors.New("invalid card list")

// ParseExpedition parses a compact expedition description of the form
// "multiplier:cards", for example "1:2 3 9". The multiplier part may be
// omitted ("4 5 6") and the card part may be empty ("2:").
func ParseExpedition(s string) (multiplier int, cards []int, err error) {
	text := s
	if i := strings.IndexByte(s, ':'); i >= 0 {
		multiplier = ParseInt(s[:i])
		text = s[i+1:]
	}

	cards, ok := ParseCardList(text)
	if !ok {
		return 0, nil, fmt.Errorf("%w: %q", ErrInvalidCards, s)
	}
	return multiplier, cards, nil
}

// ParsePlayer builds a player from up to five expedition descriptions, one
// per slot in order. Missing slots stay empty.
func ParsePlayer(name string, expeditions []string) (engine.Player, error) {
	player := engine.NewPlayer(name)
	if len(expeditions) > engine.Expeditions {
		return player, fmt.Errorf("%w: %d expeditions given, at most %d allowed",
			ErrInvalidSlot, len(expeditions), engine.Expeditions)
	}

	for slot, exp := range expeditions {
		m, cards, err := ParseExpedition(exp)
		if err != nil {
			return player, fmt.Errorf("expedition %d: %w", slot+1, err)
		}
		player = player.WithMultiplier(slot, m).WithCardSet(slot, cards)
	}
	return player, nil
}
