package relancina

import (
	"fmt"
	"time"

	"github.com/fadedpez/relancina/pkg/entities"
)

// DeckInfo reports the card piles
type DeckInfo struct {
	Remaining  int `json:"remaining"`
	Discarded  int `json:"discarded"`
	Reshuffles int `json:"reshuffles"`
}

// PlayerView is a read-only snapshot of a player
type PlayerView struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Credits        int64                 `json:"credits"`
	Bet            int64                 `json:"bet"`
	IsHouse        bool                  `json:"isHouse"`
	Status         entities.PlayerStatus `json:"status"`
	IsConnected    bool                  `json:"isConnected"`
	HasChangedHand bool                  `json:"hasChangedHand"`
	Hand           []entities.Card       `json:"hand,omitempty"`
	AceChoices     map[int]int           `json:"aceChoices,omitempty"`
	Analysis       *HandAnalysis         `json:"analysis,omitempty"`
}

// GameView is a read-only snapshot of a game
type GameView struct {
	ID              string             `json:"id"`
	State           entities.GameState `json:"state"`
	Round           int                `json:"round"`
	HouseID         string             `json:"houseId"`
	TurnIndex       int                `json:"turnIndex"`
	PlayOrder       []string           `json:"playOrder"`
	CurrentPlayerID string             `json:"currentPlayerId,omitempty"`
	Players         []PlayerView       `json:"players"`
	Deck            DeckInfo           `json:"deck"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
	Resolution      *Resolution        `json:"resolution,omitempty"`
}

// GameSummary is the short form used in game listings
type GameSummary struct {
	ID        string             `json:"id"`
	State     entities.GameState `json:"state"`
	Round     int                `json:"round"`
	Players   int                `json:"players"`
	HouseID   string             `json:"houseId"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// TurnView says whose move it is
type TurnView struct {
	GameID    string             `json:"gameId"`
	State     entities.GameState `json:"state"`
	TurnIndex int                `json:"turnIndex"`
	Position  string             `json:"position"`
	PlayOrder []string           `json:"playOrder"`
	Current   *PlayerView        `json:"current,omitempty"`
	House     *PlayerView        `json:"house,omitempty"`
}

// ActionResult is returned by every hand action
type ActionResult struct {
	GameID       string                `json:"gameId"`
	State        entities.GameState    `json:"state"`
	PlayerID     string                `json:"playerId"`
	Name         string                `json:"name"`
	Card         *entities.Card        `json:"card,omitempty"`
	OldHand      []entities.Card       `json:"oldHand,omitempty"`
	Hand         []entities.Card       `json:"hand"`
	Analysis     HandAnalysis          `json:"analysis"`
	Status       entities.PlayerStatus `json:"status"`
	NextPlayerID string                `json:"nextPlayerId,omitempty"`
	Deck         DeckInfo              `json:"deck"`
	Resolution   *Resolution           `json:"resolution,omitempty"`
}

// View snapshots the whole game. Hands are hidden until cards are dealt.
func (g *Game) View() *GameView {
	v := &GameView{
		ID:        g.ID,
		State:     g.State,
		Round:     g.Round,
		HouseID:   g.HouseID,
		TurnIndex: g.TurnIndex,
		PlayOrder: append([]string{}, g.PlayOrder...),
		Deck:      g.deckInfo(),
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
	if current := g.CurrentPlayer(); current != nil {
		v.CurrentPlayerID = current.ID
	}
	if g.State == entities.StateFinished {
		v.Resolution = g.Resolution
	}
	for _, p := range g.Players {
		v.Players = append(v.Players, g.playerView(p))
	}
	return v
}

// Summary is the listing form of the game
func (g *Game) Summary() GameSummary {
	return GameSummary{
		ID:        g.ID,
		State:     g.State,
		Round:     g.Round,
		Players:   len(g.Players),
		HouseID:   g.HouseID,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// Turn reports the current turn, or the house during HOUSE_TURN
func (g *Game) Turn() *TurnView {
	v := &TurnView{
		GameID:    g.ID,
		State:     g.State,
		TurnIndex: g.TurnIndex,
		PlayOrder: append([]string{}, g.PlayOrder...),
	}
	position := g.TurnIndex + 1
	if position > len(g.PlayOrder) {
		position = len(g.PlayOrder)
	}
	v.Position = fmt.Sprintf("%d/%d", position, len(g.PlayOrder))

	if current := g.CurrentPlayer(); current != nil {
		pv := g.playerView(current)
		v.Current = &pv
	}
	if house := g.House(); house != nil {
		hv := g.playerView(house)
		v.House = &hv
		if g.State == entities.StateHouseTurn {
			v.Current = &hv
		}
	}
	return v
}

func (g *Game) playerView(p *Player) PlayerView {
	pv := PlayerView{
		ID:             p.ID,
		Name:           p.Name,
		Credits:        p.Credits,
		Bet:            p.Bet,
		IsHouse:        p.IsHouse,
		Status:         p.Status,
		IsConnected:    p.IsConnected,
		HasChangedHand: p.HasChangedHand,
	}
	if g.State != entities.StateWaiting && len(p.Hand) > 0 {
		pv.Hand = append([]entities.Card(nil), p.Hand...)
		analysis := p.Analysis
		pv.Analysis = &analysis
		if len(p.AceChoices) > 0 {
			pv.AceChoices = make(map[int]int, len(p.AceChoices))
			for k, val := range p.AceChoices {
				pv.AceChoices[k] = val
			}
		}
	}
	return pv
}

func (g *Game) deckInfo() DeckInfo {
	return DeckInfo{
		Remaining:  g.Deck.Len(),
		Discarded:  len(g.DiscardPile),
		Reshuffles: g.DeckReshuffles,
	}
}

func (g *Game) actionResult(p *Player) *ActionResult {
	r := &ActionResult{
		GameID:   g.ID,
		State:    g.State,
		PlayerID: p.ID,
		Name:     p.Name,
		Hand:     append([]entities.Card(nil), p.Hand...),
		Analysis: p.Analysis,
		Status:   p.Status,
		Deck:     g.deckInfo(),
	}
	if next := g.CurrentPlayer(); next != nil {
		r.NextPlayerID = next.ID
	}
	if g.State == entities.StateFinished {
		r.Resolution = g.Resolution
	}
	return r
}
