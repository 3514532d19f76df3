package relancina

import (
	"fmt"
	"time"

	"github.com/fadedpez/relancina/pkg/entities"
)

// PlayerOutcome is one non-house player's settlement
type PlayerOutcome struct {
	PlayerID        string                `json:"playerId"`
	Name            string                `json:"name"`
	Outcome         entities.Outcome      `json:"outcome"`
	Bet             int64                 `json:"bet"`
	Multiplier      int                   `json:"multiplier"`
	Winnings        int64                 `json:"winnings"`
	CreditsChange   int64                 `json:"creditsChange"`
	PreviousCredits int64                 `json:"previousCredits"`
	NewCredits      int64                 `json:"newCredits"`
	Score           entities.Points       `json:"score"`
	HouseScore      entities.Points       `json:"houseScore"`
	Special         Special               `json:"special,omitempty"`
	Status          entities.PlayerStatus `json:"status"`
	Hand            []entities.Card       `json:"hand"`
}

// HouseSettlement is the house's side of a round
type HouseSettlement struct {
	PlayerID        string          `json:"playerId"`
	Name            string          `json:"name"`
	PreviousCredits int64           `json:"previousCredits"`
	NewCredits      int64           `json:"newCredits"`
	Net             int64           `json:"net"`
	Score           entities.Points `json:"score"`
	Bust            bool            `json:"bust"`
	Special         Special         `json:"special,omitempty"`
	Hand            []entities.Card `json:"hand"`
}

// Resolution is the settled result of a finished round
type Resolution struct {
	GameID     string                `json:"gameId"`
	Round      int                   `json:"round"`
	Reason     entities.FinishReason `json:"reason"`
	House      HouseSettlement       `json:"house"`
	Results    []PlayerOutcome       `json:"results"`
	Winners    int                   `json:"winners"`
	Losers     int                   `json:"losers"`
	Ties       int                   `json:"ties"`
	Refunds    int                   `json:"refunds"`
	Eliminated []string              `json:"eliminated"`
	ResolvedAt time.Time             `json:"resolvedAt"`
}

// ResolveWinners returns the settlement of a finished round. Settlement
// happens once, when the round finishes; later calls return the same result.
func (g *Game) ResolveWinners() (*Resolution, error) {
	if err := g.requireState("resolve winners", entities.StateFinished); err != nil {
		return nil, err
	}
	if g.Resolution == nil {
		g.settle(entities.FinishResolved)
	}
	return g.Resolution, nil
}

// settle moves credits between the table and the house and stores the Resolution
func (g *Game) settle(reason entities.FinishReason) {
	house := g.House()
	res := &Resolution{
		GameID:     g.ID,
		Round:      g.Round,
		Reason:     reason,
		Results:    []PlayerOutcome{},
		Eliminated: []string{},
		ResolvedAt: g.now(),
	}

	var houseNet int64
	for _, p := range g.Players {
		if p.IsHouse || !p.inRound {
			continue
		}

		out := PlayerOutcome{
			PlayerID:        p.ID,
			Name:            p.Name,
			Bet:             p.Bet,
			Multiplier:      1,
			PreviousCredits: p.Credits,
			Score:           p.Analysis.Score,
			Special:         p.Analysis.Special,
			Status:          p.Status,
			Hand:            append([]entities.Card(nil), p.Hand...),
		}
		if house != nil {
			out.HouseScore = house.Analysis.Score
		}

		var outcome entities.Outcome
		multiplier := 1
		switch {
		case p.Status == entities.StatusDisconnected:
			// The wager already went to the house when the player left
			out.Bet = p.forfeited
			outcome = entities.OutcomeLose
		case reason == entities.FinishHouseDisconnected:
			outcome = entities.OutcomeRefund
		case reason == entities.FinishNotEnoughPlayers:
			if p.Status == entities.StatusBust {
				outcome = entities.OutcomeLose
			} else {
				outcome = entities.OutcomeRefund
			}
		default:
			outcome, multiplier = judge(p, house)
		}

		switch outcome {
		case entities.OutcomeWin:
			out.Multiplier = multiplier
			out.Winnings = p.Bet * int64(multiplier)
			p.Credits += out.Winnings
			houseNet -= out.Winnings
			g.record(p, entities.TransactionTypePayout, out.Winnings,
				fmt.Sprintf("won %d x%d", p.Bet, multiplier))
			p.Bet = 0
			res.Winners++
		case entities.OutcomeLose:
			houseNet += p.Bet
			p.Bet = 0
			res.Losers++
		case entities.OutcomeTie:
			g.refund(p, "tie with the house")
			res.Ties++
		case entities.OutcomeRefund:
			g.refund(p, string(reason))
			res.Refunds++
		}

		out.Outcome = outcome
		out.NewCredits = p.Credits
		out.CreditsChange = out.NewCredits - out.PreviousCredits
		res.Results = append(res.Results, out)
	}

	if house != nil {
		res.House = HouseSettlement{
			PlayerID:        house.ID,
			Name:            house.Name,
			PreviousCredits: house.Credits,
			Net:             houseNet,
			Score:           house.Analysis.Score,
			Bust:            house.Status == entities.StatusBust,
			Special:         house.Analysis.Special,
			Hand:            append([]entities.Card(nil), house.Hand...),
		}
		house.Credits += houseNet
		res.House.NewCredits = house.Credits
		if houseNet != 0 {
			g.record(house, entities.TransactionTypeHouseSettlement, houseNet,
				fmt.Sprintf("round %d settlement", g.Round))
		}
	}

	for _, p := range g.Players {
		if p.inRound && !p.IsHouse && p.Credits <= 0 && p.Status != entities.StatusDisconnected {
			p.Status = entities.StatusSpectator
			res.Eliminated = append(res.Eliminated, p.ID)
		}
	}

	g.Resolution = res
}

// judge compares a player's hand with the house's. Earlier rules win.
func judge(p, house *Player) (entities.Outcome, int) {
	pa := p.Analysis
	var ha HandAnalysis
	houseBust := false
	if house != nil {
		ha = house.Analysis
		houseBust = house.Status == entities.StatusBust || ha.IsBust
	}
	twenty := entities.Whole(20)

	switch {
	case p.Status == entities.StatusBust || pa.IsBust:
		return entities.OutcomeLose, 1
	case houseBust:
		return entities.OutcomeWin, pa.Multiplier()
	case pa.IsDoubleA:
		if ha.IsDoubleA {
			return entities.OutcomeTie, 1
		}
		return entities.OutcomeWin, DoubleAMultiplier
	case pa.IsDouble2:
		if ha.IsDoubleA {
			return entities.OutcomeLose, 1
		}
		if ha.IsDouble2 {
			return entities.OutcomeTie, 1
		}
		return entities.OutcomeWin, Double2Multiplier
	case ha.IsDoubleA || ha.IsDouble2:
		return entities.OutcomeLose, 1
	case pa.IsTwentyPointFive:
		if ha.IsTwentyPointFive {
			return entities.OutcomeTie, 1
		}
		if ha.Score <= twenty {
			return entities.OutcomeWin, pa.Multiplier()
		}
		return entities.OutcomeLose, 1
	case ha.IsTwentyPointFive && pa.Score <= twenty:
		return entities.OutcomeLose, 1
	case pa.Score > ha.Score:
		return entities.OutcomeWin, pa.Multiplier()
	case pa.Score < ha.Score:
		return entities.OutcomeLose, 1
	default:
		return entities.OutcomeTie, 1
	}
}
