package relancina

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/fadedpez/relancina/pkg/entities"
)

var fixedNow = time.Date(2025, time.April, 12, 21, 0, 0, 0, time.UTC)

func c(rank entities.Rank) entities.Card {
	return entities.NewCard(entities.Hearts, rank)
}

func joker() entities.Card {
	return entities.NewJoker()
}

func hand(ranks ...entities.Rank) []entities.Card {
	out := make([]entities.Card, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, c(r))
	}
	return out
}

func roster(n int) []PlayerSpec {
	out := make([]PlayerSpec, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, PlayerSpec{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Player %d", i)})
	}
	return out
}

// newTestGame seats n players p1..pn with a seeded shuffle
func newTestGame(n int) *Game {
	g, err := NewGame(roster(n), rand.New(rand.NewSource(42)))
	if err != nil {
		panic(err)
	}
	g.now = func() time.Time { return fixedNow }
	return g
}

// rig stacks cards on top of the deck so they are drawn in the given order
func rig(g *Game, cards ...entities.Card) {
	for i := len(cards) - 1; i >= 0; i-- {
		g.Deck.Cards = append(g.Deck.Cards, cards[i])
	}
}

// rigDeal stacks the initial deal so every dealt player, in roster order,
// receives the matching two-card hand. Extra cards follow the deal.
func rigDeal(g *Game, hands [][]entities.Card, extra ...entities.Card) {
	var order []entities.Card
	for round := 0; round < 2; round++ {
		for _, h := range hands {
			order = append(order, h[round])
		}
	}
	rig(g, append(order, extra...)...)
}

// betAll wagers amount for everyone who still owes a bet
func betAll(g *Game, amount int64) {
	for _, id := range g.awaitingBets() {
		if _, err := g.PlaceBet(id, amount); err != nil {
			panic(err)
		}
	}
}

// dealRound bets 500 for every player and deals the rigged hands
func dealRound(g *Game, hands [][]entities.Card, extra ...entities.Card) *StartResult {
	betAll(g, 500)
	rigDeal(g, hands, extra...)
	result, err := g.Start()
	if err != nil {
		panic(err)
	}
	return result
}

func totalCredits(g *Game) int64 {
	var total int64
	for _, p := range g.Players {
		total += p.Credits + p.Bet
	}
	return total
}

func mustPlayer(g *Game, id string) *Player {
	p, err := g.Player(id)
	if err != nil {
		panic(err)
	}
	return p
}
