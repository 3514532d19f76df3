package relancina

import (
	"strings"

	"github.com/fadedpez/relancina/internal/types"
	"github.com/fadedpez/relancina/pkg/entities"
)

// StartResult describes a deal, or a restart that is still waiting for wagers
type StartResult struct {
	Game         *GameView `json:"game"`
	Started      bool      `json:"started"`
	HouseID      string    `json:"houseId"`
	HouseChanged bool      `json:"houseChanged"`
	NaturalHouse bool      `json:"naturalHouse"`
	FreshDeck    bool      `json:"freshDeck,omitempty"`
	AwaitingBets []string  `json:"awaitingBets"`
}

// Start deals a new round. On a finished game it restarts the table instead.
func (g *Game) Start() (*StartResult, error) {
	if g.State == entities.StateFinished {
		return g.Restart()
	}
	return g.start()
}

func (g *Game) start() (*StartResult, error) {
	if err := g.requireState("start", entities.StateWaiting); err != nil {
		return nil, err
	}
	house := g.prospectiveHouse()
	if house == nil {
		return nil, types.NewGameError(types.ErrIllegalState, "no connected players left")
	}
	if players := g.wouldPlay(); len(players) < 2 {
		return nil, types.Errorf(types.ErrIllegalState,
			"at least 2 players besides the house are needed, have %d", len(players))
	}
	if missing := g.awaitingBets(); len(missing) > 0 {
		return nil, types.Errorf(types.ErrIllegalState, "waiting for bets from %s", g.names(missing))
	}

	result := &StartResult{Started: true, AwaitingBets: []string{}}
	result.HouseChanged = g.HouseID != house.ID
	g.assignHouse(house, "promoted to house")

	if err := g.setState(entities.StatePlaying); err != nil {
		return nil, err
	}
	g.Round++
	g.Resolution = nil
	g.recorded = false

	var dealt []*Player
	for _, p := range g.Players {
		g.discard(p.Hand...)
		p.resetHand()
		p.inRound = p.eligible()
		if p.inRound {
			p.Status = entities.StatusActive
			dealt = append(dealt, p)
		}
	}

	for i := 0; i < 2; i++ {
		for _, p := range dealt {
			card, err := g.draw()
			if err != nil {
				return nil, err
			}
			p.Hand = append(p.Hand, card)
		}
	}

	for _, p := range dealt {
		p.analyze()
		if p.Analysis.Locked() {
			p.Status = entities.StatusStand
		}
	}

	// The first player dealt a natural 21 takes over the bank
	for _, p := range dealt {
		if !p.IsHouse && p.Analysis.Is21 {
			g.assignHouse(p, "natural 21, promoted to house")
			result.HouseChanged = true
			result.NaturalHouse = true
			break
		}
	}

	g.computePlayOrder()
	g.TurnIndex = 0
	if err := g.seekTurn(); err != nil {
		return nil, err
	}

	result.HouseID = g.HouseID
	result.Game = g.View()
	return result, nil
}

// assignHouse makes p the house. A promoted player's live wager is returned.
func (g *Game) assignHouse(p *Player, reason string) {
	if old := g.House(); old != nil && old != p {
		old.IsHouse = false
	}
	p.IsHouse = true
	g.HouseID = p.ID
	g.refund(p, reason)
}

// seekTurn moves TurnIndex forward to the next player able to act, ending the
// player phase when nobody is left.
func (g *Game) seekTurn() error {
	for g.TurnIndex < len(g.PlayOrder) {
		if p, err := g.Player(g.PlayOrder[g.TurnIndex]); err == nil && p.canAct() {
			return nil
		}
		g.TurnIndex++
	}
	return g.endPlayerPhase()
}

// advanceTurn passes the turn on from the current player
func (g *Game) advanceTurn() error {
	if g.State != entities.StatePlaying {
		return nil
	}
	g.TurnIndex++
	return g.seekTurn()
}

func (g *Game) endPlayerPhase() error {
	if len(g.nonHouseEligible()) < 2 {
		return g.finish(entities.FinishNotEnoughPlayers)
	}
	return g.setState(entities.StateHouseTurn)
}

// finish ends the round and settles it
func (g *Game) finish(reason entities.FinishReason) error {
	if err := g.setState(entities.StateFinished); err != nil {
		return err
	}
	g.settle(reason)
	return nil
}

// turnPlayer returns playerID if it is their turn to act
func (g *Game) turnPlayer(playerID, action string) (*Player, error) {
	if err := g.requireState(action, entities.StatePlaying); err != nil {
		return nil, err
	}
	p, err := g.Player(playerID)
	if err != nil {
		return nil, err
	}
	if current := g.CurrentPlayer(); current == nil || current.ID != p.ID {
		return nil, types.Errorf(types.ErrIllegalState, "it is not %s's turn", p.Name)
	}
	return p, nil
}

// activeTurnPlayer is turnPlayer for actions that need a live hand
func (g *Game) activeTurnPlayer(playerID, action string) (*Player, error) {
	p, err := g.turnPlayer(playerID, action)
	if err != nil {
		return nil, err
	}
	if p.Status.Done() {
		return nil, types.Errorf(types.ErrIllegalState, "%s is already %s", p.Name, p.Status)
	}
	return p, nil
}

// Hit draws a card for the current player
func (g *Game) Hit(playerID string) (*ActionResult, error) {
	p, err := g.activeTurnPlayer(playerID, "hit")
	if err != nil {
		return nil, err
	}
	card, err := g.hit(p)
	if err != nil {
		return nil, err
	}
	if p.Analysis.IsBust {
		p.Status = entities.StatusBust
		if err := g.advanceTurn(); err != nil {
			return nil, err
		}
	}
	result := g.actionResult(p)
	result.Card = &card
	return result, nil
}

func (g *Game) hit(p *Player) (entities.Card, error) {
	if p.Analysis.Locked() {
		return entities.Card{}, types.Errorf(types.ErrIllegalState, "%s holds %s and cannot take more cards", p.Name, p.Analysis.Special)
	}
	if p.Analysis.IsBust {
		return entities.Card{}, types.Errorf(types.ErrIllegalState, "%s is bust", p.Name)
	}
	card, err := g.draw()
	if err != nil {
		return entities.Card{}, err
	}
	p.Hand = append(p.Hand, card)
	p.analyze()
	return card, nil
}

// Stand ends the current player's turn
func (g *Game) Stand(playerID string) (*ActionResult, error) {
	p, err := g.turnPlayer(playerID, "stand")
	if err != nil {
		return nil, err
	}
	if p.Status != entities.StatusBust {
		p.Status = entities.StatusStand
	}
	if err := g.advanceTurn(); err != nil {
		return nil, err
	}
	return g.actionResult(p), nil
}

// ChangeHand swaps a two-card 12 for two new cards, once per round
func (g *Game) ChangeHand(playerID string) (*ActionResult, error) {
	p, err := g.activeTurnPlayer(playerID, "change hand")
	if err != nil {
		return nil, err
	}
	if p.HasChangedHand {
		return nil, types.Errorf(types.ErrIllegalState, "%s already changed hand this round", p.Name)
	}
	if len(p.Hand) != 2 || !p.Analysis.CanChangeHand {
		return nil, types.NewGameError(types.ErrIllegalState, "only an untouched two-card hand totalling 12 can be changed")
	}

	old := append([]entities.Card(nil), p.Hand...)
	g.discard(old...)
	p.Hand = nil
	for i := 0; i < 2; i++ {
		card, err := g.draw()
		if err != nil {
			return nil, err
		}
		p.Hand = append(p.Hand, card)
	}
	p.AceChoices = make(map[int]int)
	p.HasChangedHand = true
	p.analyze()

	if p.Analysis.Locked() {
		p.Status = entities.StatusStand
		if err := g.advanceTurn(); err != nil {
			return nil, err
		}
	}

	result := g.actionResult(p)
	result.OldHand = old
	return result, nil
}

// ChooseAce fixes the value of the Ace at aceIndex in the current player's hand
func (g *Game) ChooseAce(playerID string, aceIndex, value int) (*ActionResult, error) {
	p, err := g.activeTurnPlayer(playerID, "choose an Ace value")
	if err != nil {
		return nil, err
	}
	if err := g.applyAceChoice(p, aceIndex, value); err != nil {
		return nil, err
	}
	if p.Analysis.IsBust {
		p.Status = entities.StatusBust
		if err := g.advanceTurn(); err != nil {
			return nil, err
		}
	}
	return g.actionResult(p), nil
}

func (g *Game) applyAceChoice(p *Player, aceIndex, value int) error {
	if value != 1 && value != 11 {
		return types.Errorf(types.ErrValidation, "an Ace is worth 1 or 11, not %d", value)
	}
	if aceIndex < 0 || aceIndex >= len(p.Hand) {
		return types.Errorf(types.ErrValidation, "card index %d is outside a %d-card hand", aceIndex, len(p.Hand))
	}
	if !p.Hand[aceIndex].IsAce() {
		return types.Errorf(types.ErrValidation, "card %d (%s) is not an Ace", aceIndex, p.Hand[aceIndex])
	}
	if IsNatural21(p.Hand, p.Analysis) {
		return types.NewGameError(types.ErrIllegalState, "a natural 21 cannot be changed")
	}
	if p.Analysis.Locked() {
		return types.Errorf(types.ErrIllegalState, "%s cannot be changed", p.Analysis.Special)
	}
	p.AceChoices[aceIndex] = value
	p.analyze()
	return nil
}

// houseActor returns the house during HOUSE_TURN
func (g *Game) houseActor(action string) (*Player, error) {
	if err := g.requireState(action, entities.StateHouseTurn); err != nil {
		return nil, err
	}
	house := g.House()
	if house == nil {
		return nil, types.NewGameError(types.ErrIllegalState, "the game has no house")
	}
	return house, nil
}

// HouseHit draws a card for the house. A bust ends and settles the round.
func (g *Game) HouseHit() (*ActionResult, error) {
	house, err := g.houseActor("house hit")
	if err != nil {
		return nil, err
	}
	card, err := g.hit(house)
	if err != nil {
		return nil, err
	}
	if house.Analysis.IsBust {
		house.Status = entities.StatusBust
		if err := g.finish(entities.FinishResolved); err != nil {
			return nil, err
		}
	}
	result := g.actionResult(house)
	result.Card = &card
	return result, nil
}

// HouseStand ends the house turn and settles the round
func (g *Game) HouseStand() (*ActionResult, error) {
	house, err := g.houseActor("house stand")
	if err != nil {
		return nil, err
	}
	if house.Status != entities.StatusBust {
		house.Status = entities.StatusStand
	}
	if err := g.finish(entities.FinishResolved); err != nil {
		return nil, err
	}
	return g.actionResult(house), nil
}

// HouseChooseAce fixes an Ace in the house hand. A bust ends and settles the round.
func (g *Game) HouseChooseAce(aceIndex, value int) (*ActionResult, error) {
	house, err := g.houseActor("choose a house Ace value")
	if err != nil {
		return nil, err
	}
	if err := g.applyAceChoice(house, aceIndex, value); err != nil {
		return nil, err
	}
	if house.Analysis.IsBust {
		house.Status = entities.StatusBust
		if err := g.finish(entities.FinishResolved); err != nil {
			return nil, err
		}
	}
	return g.actionResult(house), nil
}

// Restart clears the table for a new round with the same roster and credits,
// then tries to deal. Until every player has wagered the game stays WAITING.
func (g *Game) Restart() (*StartResult, error) {
	if err := g.requireState("restart", entities.StateFinished); err != nil {
		return nil, err
	}

	freshDeck := g.Deck.Len()+len(g.DiscardPile) < FreshDeckThreshold
	if freshDeck {
		g.Deck = entities.NewDeck()
		g.Deck.Shuffle(g.rng)
		g.DiscardPile = nil
		g.DeckReshuffles = 0
		for _, p := range g.Players {
			p.Hand = nil
		}
	} else {
		for _, p := range g.Players {
			g.discard(p.Hand...)
			p.Hand = nil
		}
		if len(g.DiscardPile) > 0 {
			g.reshuffleDiscard()
		}
	}

	for _, p := range g.Players {
		g.refund(p, "round reset")
		p.resetHand()
		p.inRound = false
		switch {
		case !p.IsHouse && p.Credits <= 0 && p.Status != entities.StatusDisconnected:
			p.Status = entities.StatusSpectator
		case p.eligible():
			p.Status = entities.StatusActive
		}
	}
	g.PlayOrder = nil
	g.TurnIndex = 0
	g.Resolution = nil
	g.recorded = false

	if err := g.setState(entities.StateWaiting); err != nil {
		return nil, err
	}

	result, err := g.start()
	if err != nil {
		if !types.IsGameError(err, types.ErrIllegalState) {
			return nil, err
		}
		result = &StartResult{
			Game:         g.View(),
			HouseID:      g.HouseID,
			AwaitingBets: g.awaitingBets(),
		}
	}
	result.FreshDeck = freshDeck
	return result, nil
}

// names maps player ids to a comma separated list of names
func (g *Game) names(ids []string) string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if p, err := g.Player(id); err == nil {
			out = append(out, p.Name)
		}
	}
	return strings.Join(out, ", ")
}
