package entities

import "fmt"

// Suit represents a card suit
type Suit string

const (
	Hearts   Suit = "HEARTS"
	Diamonds Suit = "DIAMONDS"
	Clubs    Suit = "CLUBS"
	Spades   Suit = "SPADES"
)

// Suits lists the four suits in deck-building order
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Rank represents a card rank
type Rank string

const (
	Ace   Rank = "A"
	Two   Rank = "2"
	Three Rank = "3"
	Four  Rank = "4"
	Five  Rank = "5"
	Six   Rank = "6"
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Ten   Rank = "10"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
)

// Ranks lists the thirteen ranks in deck-building order
var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// CardKind separates ranked cards from Jokers
type CardKind string

const (
	KindNormal CardKind = "NORMAL"
	KindJoker  CardKind = "JOKER"
)

// Card represents a playing card. Jokers carry no rank or suit.
type Card struct {
	Rank   Rank     `json:"rank,omitempty"`
	Suit   Suit     `json:"suit,omitempty"`
	Kind   CardKind `json:"kind"`
	FaceUp bool     `json:"faceUp"`
}

// NewCard creates a new ranked card
func NewCard(suit Suit, rank Rank) Card {
	return Card{
		Suit: suit,
		Rank: rank,
		Kind: KindNormal,
	}
}

// NewJoker creates a Joker
func NewJoker() Card {
	return Card{Kind: KindJoker}
}

// IsJoker reports whether the card is a Joker
func (c Card) IsJoker() bool {
	return c.Kind == KindJoker
}

// IsAce reports whether the card is an Ace
func (c Card) IsAce() bool {
	return c.Kind == KindNormal && c.Rank == Ace
}

// String returns the string representation of the card
func (c Card) String() string {
	if c.IsJoker() {
		return "JOKER"
	}
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}
