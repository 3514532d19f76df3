package entities

import "math/rand"

// DeckSize is the number of cards in a fresh deck: 52 ranked cards and 4 Jokers
const DeckSize = 56

// JokerCount is the number of Jokers in a fresh deck
const JokerCount = 4

// Deck is an ordered pile of cards. The top card is the last element.
type Deck struct {
	Cards []Card
}

// NewDeck creates an unshuffled 56-card deck, one of each rank and suit plus the Jokers
func NewDeck() *Deck {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	for i := 0; i < JokerCount; i++ {
		cards = append(cards, NewJoker())
	}

	return &Deck{Cards: cards}
}

// Shuffle permutes the deck in place with a Fisher-Yates shuffle driven by r
func (d *Deck) Shuffle(r *rand.Rand) {
	for i := len(d.Cards) - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// Draw removes and returns the top card, face up. It returns false on an empty deck.
func (d *Deck) Draw() (Card, bool) {
	if len(d.Cards) == 0 {
		return Card{}, false
	}
	last := len(d.Cards) - 1
	card := d.Cards[last]
	d.Cards = d.Cards[:last]
	card.FaceUp = true
	return card, true
}

// Add places cards on top of the deck
func (d *Deck) Add(cards ...Card) {
	d.Cards = append(d.Cards, cards...)
}

// Len returns the number of cards left
func (d *Deck) Len() int {
	return len(d.Cards)
}

// Empty removes every card and returns them
func (d *Deck) Empty() []Card {
	cards := d.Cards
	d.Cards = nil
	return cards
}
