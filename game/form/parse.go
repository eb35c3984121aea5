package form

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ParseInt parses the leading base-10 integer of s.
// Surrounding whitespace and trailing non-digits are ignored. Text without a
// leading integer yields 0; integers that do not fit an int are clamped.
func ParseInt(s string) int {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if errors.Is(err, strconv.ErrRange) {
		if s[0] == '-' {
			return math.MinInt
		}
		return math.MaxInt
	}
	return n
}

// NormalizeCardText collapses whitespace runs to single spaces and trims the ends
func NormalizeCardText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ParseCardList parses the text of a card-list field.
// ok is false when the text holds anything but digits and whitespace, or a
// card value too large for an int, in which case the edit must be ignored.
func ParseCardList(s string) (cards []int, ok bool) {
	normalized := NormalizeCardText(s)
	if normalized == "" {
		return []int{}, true
	}

	tokens := strings.Split(normalized, " ")
	cards = make([]int, 0, len(tokens))
	for _, tok := range tokens {
		if !isDigits(tok) {
			return nil, false
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, false
		}
		cards = append(cards, n)
	}
	return cards, true
}

// FormatCardList renders a card list the way the form displays it
func FormatCardList(cards []int) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, " ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
