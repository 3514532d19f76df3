package relancina

import (
	"github.com/fadedpez/relancina/pkg/entities"
)

// Player is a seat at a Relancina table
type Player struct {
	ID             string
	Name           string
	Credits        int64
	Hand           []entities.Card
	Bet            int64
	IsHouse        bool
	Status         entities.PlayerStatus
	AceChoices     map[int]int
	HasChangedHand bool
	IsConnected    bool
	Analysis       HandAnalysis

	// inRound is set for players dealt into the current round
	inRound bool
	// forfeited holds a bet lost by disconnecting mid-round, kept for the round result
	forfeited int64
}

// PlayerSpec describes a roster entry for CreateGame. Zero values take defaults.
type PlayerSpec struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Credits *int64 `json:"credits,omitempty"`
	IsHouse bool   `json:"isHouse"`
}

// eligible reports whether the player can be dealt into a round
func (p *Player) eligible() bool {
	return p.IsConnected &&
		p.Status != entities.StatusDisconnected &&
		p.Status != entities.StatusSpectator
}

// canAct reports whether the player still has a turn to take
func (p *Player) canAct() bool {
	return p.IsConnected && p.Status == entities.StatusActive
}

func (p *Player) analyze() {
	p.Analysis = Analyze(p.Hand, p.AceChoices)
}

// resetHand clears everything about the previous hand
func (p *Player) resetHand() {
	p.Hand = nil
	p.AceChoices = make(map[int]int)
	p.HasChangedHand = false
	p.Analysis = Analyze(nil, nil)
	p.forfeited = 0
}
