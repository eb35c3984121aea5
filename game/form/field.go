package form

import "slices"

// CardListField buffers the text of one card-list input against the list
// committed to the scoresheet.
type CardListField struct {
	Committed []int
	Display   string
}

// NewCardListField returns a field showing the canonical rendering of cards
func NewCardListField(cards []int) CardListField {
	return CardListField{
		Committed: slices.Clone(cards),
		Display:   FormatCardList(cards),
	}
}

// Input applies text typed into the field.
// Rejected text leaves the field untouched and returns accepted=false. When the
// parsed list differs from the committed one it is returned with changed=true
// and becomes the committed list.
func (f *CardListField) Input(text string) (cards []int, accepted, changed bool) {
	parsed, ok := ParseCardList(text)
	if !ok {
		return nil, false, false
	}

	f.Display = text
	if slices.Equal(parsed, f.Committed) {
		return parsed, true, false
	}
	f.Committed = parsed
	return slices.Clone(parsed), true, true
}

// Sync adopts a committed list set from outside the field.
// The display text is rewritten only when it would not parse to cards.
func (f *CardListField) Sync(cards []int) {
	if !DisplayMatches(f.Display, cards) {
		f.Display = FormatCardList(cards)
	}
	f.Committed = slices.Clone(cards)
}

// DisplayMatches reports whether text is an accepted rendering of cards.
// The page script applies the same rule before overwriting a card input.
func DisplayMatches(text string, cards []int) bool {
	current, ok := ParseCardList(text)
	return ok && slices.Equal(current, cards)
}
