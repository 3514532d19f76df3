package relancina

import (
	"github.com/fadedpez/relancina/internal/types"
	"github.com/fadedpez/relancina/pkg/entities"
)

// DisconnectResult describes what a departure did to the table
type DisconnectResult struct {
	Game       *GameView   `json:"game"`
	PlayerID   string      `json:"playerId"`
	Name       string      `json:"name"`
	WasHouse   bool        `json:"wasHouse"`
	Forfeited  int64       `json:"forfeited"`
	Finished   bool        `json:"finished"`
	Resolution *Resolution `json:"resolution,omitempty"`
}

// Disconnect removes a player from play. A live wager goes to the house. Losing
// the house, or dropping below two players, ends the round with refunds.
func (g *Game) Disconnect(playerID string) (*DisconnectResult, error) {
	p, err := g.Player(playerID)
	if err != nil {
		return nil, err
	}
	if p.Status == entities.StatusDisconnected {
		return nil, types.Errorf(types.ErrIllegalState, "%s already left", p.Name)
	}

	hadTurn := g.CurrentPlayer() == p
	p.Status = entities.StatusDisconnected
	p.IsConnected = false

	result := &DisconnectResult{PlayerID: p.ID, Name: p.Name, WasHouse: p.IsHouse}

	switch g.State {
	case entities.StateWaiting:
		switch {
		case p.IsHouse:
			err = g.abandon(entities.FinishHouseDisconnected)
		default:
			result.Forfeited = g.forfeit(p, "disconnected")
			if len(g.wouldPlay()) < 2 {
				err = g.abandon(entities.FinishNotEnoughPlayers)
			}
		}
		if err != nil {
			return nil, err
		}
	case entities.StatePlaying, entities.StateHouseTurn:
		switch {
		case p.IsHouse:
			err = g.finish(entities.FinishHouseDisconnected)
		default:
			result.Forfeited = g.forfeit(p, "disconnected")
			if len(g.nonHouseEligible()) < 2 {
				err = g.finish(entities.FinishNotEnoughPlayers)
			} else if hadTurn {
				err = g.advanceTurn()
			}
		}
		if err != nil {
			return nil, err
		}
	}

	result.Finished = g.State == entities.StateFinished
	if result.Finished {
		result.Resolution = g.Resolution
	}
	result.Game = g.View()
	return result, nil
}

// abandon finishes a round that was never dealt. Wagers placed for it are
// settled as that round so they come back to their owners.
func (g *Game) abandon(reason entities.FinishReason) error {
	for _, p := range g.Players {
		p.inRound = !p.IsHouse && (p.Bet > 0 || p.forfeited > 0)
	}
	g.Round++
	g.Resolution = nil
	g.recorded = false
	return g.finish(reason)
}
