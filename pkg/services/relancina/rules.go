package relancina

import (
	"strconv"

	"github.com/fadedpez/relancina/pkg/entities"
)

const (
	MinPlayers = 3 // Smallest table a game can be created with
	MaxPlayers = 5 // Largest table a game can be created with

	MinBet = 200  // Smallest wager accepted
	MaxBet = 5000 // Largest wager accepted

	DefaultCredits = 10000 // Starting credits for a roster entry without a balance

	// FreshDeckThreshold is the number of cards outside the hands below which a
	// restart builds a brand new deck instead of reshuffling the discard pile.
	FreshDeckThreshold = 30

	// CardCountThreshold is the hand size from which the card count multiplies winnings
	CardCountThreshold = 5
)

// Special names a two-card hand that scores outside the normal total
type Special string

const (
	SpecialNone            Special = ""
	SpecialDouble2         Special = "DOUBLE_2"
	SpecialDoubleA         Special = "DOUBLE_A"
	SpecialTwentyPointFive Special = "TWENTY_POINT_FIVE"
	SpecialCanChange       Special = "CAN_CHANGE"
)

// Bonus multipliers for the special hands
const (
	Double2Multiplier         = 4
	DoubleAMultiplier         = 5
	TwentyPointFiveMultiplier = 2
)

// CardValue returns the value of a card that is not an Ace.
// Aces are resolved by Evaluate.
func CardValue(card entities.Card) int {
	if card.IsJoker() {
		return -5
	}
	switch card.Rank {
	case entities.Ace:
		return 11
	case entities.Jack, entities.Queen, entities.King:
		return 10
	default:
		val, _ := strconv.Atoi(string(card.Rank))
		return val
	}
}

// Evaluate sums a hand. An Ace counts as its entry in aceChoices when there is
// one, otherwise as 11, dropping to 1 while the total is over 21.
func Evaluate(hand []entities.Card, aceChoices map[int]int) int {
	total := 0
	undecided := 0

	for i, card := range hand {
		if card.IsAce() {
			if choice, ok := aceChoices[i]; ok {
				total += choice
				continue
			}
			undecided++
			total += 11
			continue
		}
		total += CardValue(card)
	}

	for total > 21 && undecided > 0 {
		total -= 10
		undecided--
	}

	return total
}

// HandAnalysis is the full valuation of a hand
type HandAnalysis struct {
	Total               int             `json:"total"`
	Score               entities.Points `json:"score"`
	IsBust              bool            `json:"isBust"`
	Is21                bool            `json:"is21"`
	IsTwentyPointFive   bool            `json:"is20_5"`
	IsDouble2           bool            `json:"isDouble2"`
	IsDoubleA           bool            `json:"isDoubleA"`
	CanChangeHand       bool            `json:"canChangeHand"`
	Special             Special         `json:"special,omitempty"`
	BonusMultiplier     int             `json:"bonusMultiplier"`
	CardCountMultiplier int             `json:"cardCountMultiplier"`
	HasAces             bool            `json:"hasAces"`
	AceCount            int             `json:"aceCount"`
	AceIndices          []int           `json:"aceIndices"`
}

// Analyze evaluates a hand and detects the two-card specials.
// The specials are checked in order: double 2, double Ace, 20.5, change.
func Analyze(hand []entities.Card, aceChoices map[int]int) HandAnalysis {
	total := Evaluate(hand, aceChoices)

	a := HandAnalysis{
		Total:               total,
		Score:               entities.Whole(total),
		IsBust:              total > 21,
		Is21:                total == 21,
		BonusMultiplier:     1,
		CardCountMultiplier: 1,
		AceIndices:          []int{},
	}
	if len(hand) >= CardCountThreshold {
		a.CardCountMultiplier = len(hand)
	}
	for i, card := range hand {
		if card.IsAce() {
			a.AceIndices = append(a.AceIndices, i)
		}
	}
	a.AceCount = len(a.AceIndices)
	a.HasAces = a.AceCount > 0

	if len(hand) != 2 {
		return a
	}

	first, second := hand[0], hand[1]
	switch {
	case isRank(first, entities.Two) && isRank(second, entities.Two):
		a.IsDouble2 = true
		a.Special = SpecialDouble2
		a.BonusMultiplier = Double2Multiplier
	case first.IsAce() && second.IsAce():
		// Scored by the special, never as a bust whatever the Ace choices
		a.IsDoubleA = true
		a.IsBust = false
		a.Special = SpecialDoubleA
		a.BonusMultiplier = DoubleAMultiplier
	case total == 14:
		a.IsTwentyPointFive = true
		a.Special = SpecialTwentyPointFive
		a.Score = entities.TwentyPointFive
		a.BonusMultiplier = TwentyPointFiveMultiplier
	case total == 12:
		a.CanChangeHand = true
		a.Special = SpecialCanChange
	}

	return a
}

// Locked reports whether the hand is a double 2 or double Ace, which can take no more cards
func (a HandAnalysis) Locked() bool {
	return a.IsDouble2 || a.IsDoubleA
}

// Multiplier is the bonus multiplier times the card count multiplier
func (a HandAnalysis) Multiplier() int {
	return a.BonusMultiplier * a.CardCountMultiplier
}

// IsNatural21 reports a two-card 21, whose Aces can no longer be changed
func IsNatural21(hand []entities.Card, a HandAnalysis) bool {
	return len(hand) == 2 && a.Is21
}

func isRank(card entities.Card, rank entities.Rank) bool {
	return card.Kind == entities.KindNormal && card.Rank == rank
}
