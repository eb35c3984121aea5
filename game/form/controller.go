package form

import (
	"errors"
	"fmt"
	"slices"

	"github.com/wricardo/lost-cities-scorer/game/engine"
)

var (
	ErrInvalidPlayer = errors.New("invalid player")
	ErrInvalidSlot   = errors.New("invalid expedition slot")
	ErrInvalidField  = errors.New("invalid parameter field")
	ErrInvalidEvent  = errors.New("invalid event")
)

// ParamField names one of the scoring parameter inputs
type ParamField string

const (
	FieldBaseValue      ParamField = "base_value"
	FieldBonusThreshold ParamField = "bonus_threshold"
	FieldBonusValue     ParamField = "bonus_value"
)

// ParamFields lists the parameter inputs in display order
var ParamFields = []ParamField{FieldBaseValue, FieldBonusThreshold, FieldBonusValue}

// Label returns the form label of the field
func (f ParamField) Label() string {
	switch f {
	case FieldBaseValue:
		return "Base Value"
	case FieldBonusThreshold:
		return "Bonus Threshold"
	case FieldBonusValue:
		return "Bonus Value"
	}
	return string(f)
}

// Value returns the parameter the field edits
func (f ParamField) Value(p engine.ScoringParameters) int {
	switch f {
	case FieldBaseValue:
		return p.BaseValue
	case FieldBonusThreshold:
		return p.BonusThreshold
	case FieldBonusValue:
		return p.BonusValue
	}
	return 0
}

// Controller owns a scoresheet and applies form input to it
type Controller struct {
	state   engine.AppState
	fields  [engine.Players][engine.Expeditions]CardListField
	version uint64
}

// NewController creates a controller for a fresh scoresheet
func NewController(params engine.ScoringParameters, names [engine.Players]string) *Controller {
	return NewControllerFromState(engine.NewAppState(params, names))
}

// NewControllerFromState creates a controller for an existing scoresheet
func NewControllerFromState(state engine.AppState) *Controller {
	c := &Controller{state: state.Clone()}
	for i, p := range c.state.Players {
		for j, cards := range p.CardSets {
			c.fields[i][j] = NewCardListField(cards)
		}
	}
	return c
}

// State returns a snapshot of the scoresheet
func (c *Controller) State() engine.AppState {
	return c.state.Clone()
}

// Version counts the state changes applied so far
func (c *Controller) Version() uint64 {
	return c.version
}

// Field returns a copy of a card-list field buffer
func (c *Controller) Field(player, slot int) (CardListField, error) {
	if err := checkSlot(player, slot); err != nil {
		return CardListField{}, err
	}
	f := c.fields[player][slot]
	return CardListField{Committed: slices.Clone(f.Committed), Display: f.Display}, nil
}

// SetParameter applies text typed into a scoring parameter field
func (c *Controller) SetParameter(field ParamField, raw string) error {
	value := ParseInt(raw)
	params := c.state.ScoringParameters

	switch field {
	case FieldBaseValue:
		params.BaseValue = value
	case FieldBonusThreshold:
		params.BonusThreshold = value
	case FieldBonusValue:
		params.BonusValue = value
	default:
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}

	c.SetParameters(params)
	return nil
}

// SetParameters replaces all scoring parameters
func (c *Controller) SetParameters(params engine.ScoringParameters) {
	c.commit(c.state.WithParameters(params))
}

// SetMultiplier applies a multiplier selection for one expedition
func (c *Controller) SetMultiplier(player, slot int, raw string) error {
	if err := checkSlot(player, slot); err != nil {
		return err
	}
	updated := c.state.Players[player].WithMultiplier(slot, ParseInt(raw))
	return c.ReplacePlayer(player, updated)
}

// SetCardSetText applies text typed into a card-list field.
// accepted is false when the text was rejected and the state left unchanged.
func (c *Controller) SetCardSetText(player, slot int, raw string) (accepted bool, err error) {
	if err := checkSlot(player, slot); err != nil {
		return false, err
	}

	cards, accepted, changed := c.fields[player][slot].Input(raw)
	if !accepted {
		return false, nil
	}
	if changed {
		updated := c.state.Players[player].WithCardSet(slot, cards)
		if err := c.ReplacePlayer(player, updated); err != nil {
			return false, err
		}
	}
	return true, nil
}

// ReplacePlayer swaps in a complete player value for one player slot
func (c *Controller) ReplacePlayer(idx int, player engine.Player) error {
	next, err := c.state.WithPlayer(idx, player)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPlayer, err)
	}
	c.commit(next)
	return nil
}

// Reset empties both players, keeping their names and the scoring parameters
func (c *Controller) Reset() {
	c.commit(c.state.Reset())
}

// Apply dispatches an input event from the render surface
func (c *Controller) Apply(ev Event) (accepted bool, err error) {
	switch ev.Type {
	case EventParameter:
		if err := c.SetParameter(ev.Field, ev.Value); err != nil {
			return false, err
		}
		return true, nil
	case EventMultiplier:
		if err := c.SetMultiplier(ev.Player, ev.Slot, ev.Value); err != nil {
			return false, err
		}
		return true, nil
	case EventCards:
		return c.SetCardSetText(ev.Player, ev.Slot, ev.Value)
	case EventReset:
		c.Reset()
		return true, nil
	default:
		return false, fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, ev.Type)
	}
}

// commit installs a new state and resynchronizes the card-list buffers
func (c *Controller) commit(next engine.AppState) {
	c.state = next
	c.version++
	for i, p := range c.state.Players {
		for j, cards := range p.CardSets {
			c.fields[i][j].Sync(cards)
		}
	}
}

func checkSlot(player, slot int) error {
	if !engine.ValidPlayer(player) {
		return fmt.Errorf("%w: %d", ErrInvalidPlayer, player)
	}
	if !engine.ValidSlot(slot) {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, slot)
	}
	return nil
}
