package relancina

import (
	"fmt"

	"github.com/fadedpez/relancina/internal/types"
	"github.com/fadedpez/relancina/pkg/entities"
)

// BetLine is one player's row in the bets summary
type BetLine struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Bet      int64  `json:"bet"`
	Credits  int64  `json:"credits"`
	IsHouse  bool   `json:"isHouse"`
	HasBet   bool   `json:"hasBet"`
	Eligible bool   `json:"eligible"`
}

// BetsSummary is the table's wagers for the coming round
type BetsSummary struct {
	GameID          string    `json:"gameId"`
	State           string    `json:"state"`
	Bets            []BetLine `json:"bets"`
	TotalBets       int64     `json:"totalBets"`
	PlayersWithBets int       `json:"playersWithBets"`
	TotalPlayers    int       `json:"totalPlayers"`
	AllPlayersReady bool      `json:"allPlayersReady"`
	AwaitingBets    []string  `json:"awaitingBets"`
}

// PlaceBet debits a wager from the player. Betting again replaces the previous wager.
func (g *Game) PlaceBet(playerID string, amount int64) (*BetLine, error) {
	if err := g.requireState("place a bet", entities.StateWaiting); err != nil {
		return nil, err
	}
	p, err := g.Player(playerID)
	if err != nil {
		return nil, err
	}
	if !p.eligible() {
		return nil, types.Errorf(types.ErrIllegalState, "%s cannot bet while %s", p.Name, p.Status)
	}
	if p.IsHouse {
		return nil, types.Errorf(types.ErrIllegalState, "%s is the house and does not bet", p.Name)
	}
	if amount < MinBet || amount > MaxBet {
		return nil, types.Errorf(types.ErrValidation, "bet must be between %d and %d, got %d", MinBet, MaxBet, amount)
	}
	if amount > p.Credits+p.Bet {
		return nil, types.Errorf(types.ErrValidation, "%s has %d credits, cannot bet %d", p.Name, p.Credits+p.Bet, amount)
	}

	if p.Bet > 0 {
		g.refund(p, "replaced wager")
	}
	p.Credits -= amount
	p.Bet = amount
	g.record(p, entities.TransactionTypeBet, -amount, fmt.Sprintf("bet %d", amount))

	line := g.betLine(p)
	return &line, nil
}

// Bets summarizes every player's wager and who still owes one
func (g *Game) Bets() *BetsSummary {
	summary := &BetsSummary{
		GameID:       g.ID,
		State:        string(g.State),
		TotalPlayers: len(g.Players),
		AwaitingBets: []string{},
	}
	for _, p := range g.Players {
		line := g.betLine(p)
		summary.Bets = append(summary.Bets, line)
		summary.TotalBets += p.Bet
		if line.HasBet {
			summary.PlayersWithBets++
		}
	}
	summary.AwaitingBets = g.awaitingBets()
	summary.AllPlayersReady = g.State == entities.StateWaiting &&
		len(summary.AwaitingBets) == 0 &&
		len(g.wouldPlay()) >= 2
	return summary
}

func (g *Game) betLine(p *Player) BetLine {
	return BetLine{
		PlayerID: p.ID,
		Name:     p.Name,
		Bet:      p.Bet,
		Credits:  p.Credits,
		IsHouse:  p.IsHouse,
		HasBet:   p.Bet > 0,
		Eligible: p.eligible(),
	}
}

// prospectiveHouse is the player who will be house when the next round starts
func (g *Game) prospectiveHouse() *Player {
	if h := g.House(); h != nil && h.eligible() {
		return h
	}
	for _, p := range g.Players {
		if p.eligible() {
			return p
		}
	}
	return nil
}

// wouldPlay lists the players who would be dealt in against the prospective house
func (g *Game) wouldPlay() []*Player {
	house := g.prospectiveHouse()
	var out []*Player
	for _, p := range g.Players {
		if p != house && p.eligible() {
			out = append(out, p)
		}
	}
	return out
}

// awaitingBets lists the ids of players who must still wager before the start
func (g *Game) awaitingBets() []string {
	out := []string{}
	for _, p := range g.wouldPlay() {
		if p.Bet <= 0 {
			out = append(out, p.ID)
		}
	}
	return out
}

// refund returns the player's live wager to their credits
func (g *Game) refund(p *Player, reason string) int64 {
	amount := p.Bet
	if amount <= 0 {
		return 0
	}
	p.Credits += amount
	p.Bet = 0
	g.record(p, entities.TransactionTypeRefund, amount, reason)
	return amount
}

// forfeit hands the player's live wager to the house. Without a house the wager is refunded.
func (g *Game) forfeit(p *Player, reason string) int64 {
	amount := p.Bet
	if amount <= 0 {
		return 0
	}
	house := g.House()
	if house == nil || house == p {
		g.refund(p, reason)
		return 0
	}
	p.Bet = 0
	p.forfeited += amount
	g.record(p, entities.TransactionTypeForfeit, 0, fmt.Sprintf("%s: lost %d", reason, amount))
	house.Credits += amount
	g.record(house, entities.TransactionTypeForfeit, amount, fmt.Sprintf("%s from %s", reason, p.Name))
	return amount
}
