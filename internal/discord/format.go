package discord

import (
	"strings"

	"github.com/fadedpez/relancina/pkg/entities"
)

var suitSymbols = map[entities.Suit]string{
	entities.Hearts:   "♥",
	entities.Diamonds: "♦",
	entities.Clubs:    "♣",
	entities.Spades:   "♠",
}

// FormatCard renders a card as rank and suit symbol, e.g. "10♥"
func FormatCard(card entities.Card) string {
	if card.IsJoker() {
		return "🃏"
	}
	return string(card.Rank) + suitSymbols[card.Suit]
}

// FormatHand renders cards separated by spaces
func FormatHand(cards []entities.Card) string {
	if len(cards) == 0 {
		return "-"
	}
	parts := make([]string, len(cards))
	for i, card := range cards {
		parts[i] = FormatCard(card)
	}
	return strings.Join(parts, " ")
}
