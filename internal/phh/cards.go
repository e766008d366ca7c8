package phh

import (
	"strings"

	"github.com/lox/holdemtracker/internal/deck"
)

// FormatCard converts a card to PHH notation, rank then lower-case suit
// (e.g. "Th"). Unknown cards are written as "??".
func FormatCard(c deck.Card) string {
	if !c.IsSet() {
		return "??"
	}
	return c.Rank.String() + strings.ToLower(c.Suit.Char())
}

// FormatCards concatenates cards in PHH notation, as used by deal actions.
func FormatCards(cards []deck.Card) string {
	var sb strings.Builder
	for _, c := range cards {
		sb.WriteString(FormatCard(c))
	}
	return sb.String()
}

// formatHand returns the hole cards, or "????" when they were never shown.
func formatHand(h deck.Hand) string {
	if !h.IsSet() {
		return "????"
	}
	return FormatCards(h.Cards())
}
