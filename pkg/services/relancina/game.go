package relancina

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fadedpez/relancina/internal/types"
	"github.com/fadedpez/relancina/pkg/entities"
)

// Game is one Relancina table. Its methods assume the caller holds the game's
// lock; the Service takes it around every operation.
type Game struct {
	mu sync.Mutex

	ID             string
	Players        []*Player
	HouseID        string
	State          entities.GameState
	Deck           *entities.Deck
	DiscardPile    []entities.Card
	TurnIndex      int
	PlayOrder      []string
	DeckReshuffles int
	Round          int
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Ledger         []entities.Transaction
	Resolution     *Resolution

	rng *rand.Rand
	now func() time.Time

	// recorded is set once the current Resolution has been written to history
	recorded bool
}

// NewGame validates a roster and builds a WAITING game with a shuffled deck
func NewGame(roster []PlayerSpec, rng *rand.Rand) (*Game, error) {
	if len(roster) < MinPlayers || len(roster) > MaxPlayers {
		return nil, types.Errorf(types.ErrValidation,
			"a game needs between %d and %d players, got %d", MinPlayers, MaxPlayers, len(roster))
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	g := &Game{
		ID:    uuid.NewString(),
		State: entities.StateWaiting,
		rng:   rng,
		now:   time.Now,
	}

	seen := make(map[string]bool, len(roster))
	for i, spec := range roster {
		p := &Player{
			ID:          spec.ID,
			Name:        spec.Name,
			Credits:     DefaultCredits,
			Status:      entities.StatusActive,
			IsConnected: true,
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.Name == "" {
			p.Name = fmt.Sprintf("Player-%d", i+1)
		}
		if spec.Credits != nil {
			if *spec.Credits < 0 {
				return nil, types.Errorf(types.ErrValidation, "player %s has negative credits", p.Name)
			}
			p.Credits = *spec.Credits
		}
		if seen[p.ID] {
			return nil, types.Errorf(types.ErrValidation, "duplicate player id %s", p.ID)
		}
		seen[p.ID] = true
		if spec.IsHouse {
			if g.HouseID != "" {
				return nil, types.NewGameError(types.ErrValidation, "only one player can be the house")
			}
			p.IsHouse = true
			g.HouseID = p.ID
		}
		p.resetHand()
		g.Players = append(g.Players, p)
	}

	g.Deck = entities.NewDeck()
	g.Deck.Shuffle(g.rng)
	g.CreatedAt = g.now()
	g.UpdatedAt = g.CreatedAt

	return g, nil
}

// Player finds a player by id
func (g *Game) Player(id string) (*Player, error) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, types.Errorf(types.ErrNotFound, "player %s not found in game %s", id, g.ID)
}

// House returns the current house, or nil before one has been assigned
func (g *Game) House() *Player {
	for _, p := range g.Players {
		if p.IsHouse {
			return p
		}
	}
	return nil
}

// CurrentPlayer returns the player whose turn it is, or nil outside PLAYING
func (g *Game) CurrentPlayer() *Player {
	if g.State != entities.StatePlaying || g.TurnIndex >= len(g.PlayOrder) {
		return nil
	}
	p, err := g.Player(g.PlayOrder[g.TurnIndex])
	if err != nil {
		return nil
	}
	return p
}

// CardCount is every card the game owns: deck, discard pile and hands
func (g *Game) CardCount() int {
	total := g.Deck.Len() + len(g.DiscardPile)
	for _, p := range g.Players {
		total += len(p.Hand)
	}
	return total
}

// draw takes the top card, reshuffling the discard pile into an empty deck first
func (g *Game) draw() (entities.Card, error) {
	if g.Deck.Len() == 0 {
		if len(g.DiscardPile) == 0 {
			return entities.Card{}, types.NewGameError(types.ErrResourceExhausted, "no cards left in deck or discard pile")
		}
		g.reshuffleDiscard()
	}
	card, _ := g.Deck.Draw()
	return card, nil
}

// reshuffleDiscard shuffles the discard pile and puts it under the remaining deck
func (g *Game) reshuffleDiscard() {
	pile := &entities.Deck{Cards: g.DiscardPile}
	pile.Shuffle(g.rng)
	g.Deck.Cards = append(pile.Cards, g.Deck.Cards...)
	g.DiscardPile = nil
	g.DeckReshuffles++
}

func (g *Game) discard(cards ...entities.Card) {
	for _, card := range cards {
		card.FaceUp = false
		g.DiscardPile = append(g.DiscardPile, card)
	}
}

// setState moves the state machine, rejecting transitions the table does not allow
func (g *Game) setState(next entities.GameState) error {
	state, err := g.State.Transition(next)
	if err != nil {
		return types.WrapError(types.ErrIllegalState, "invalid game state change", err)
	}
	g.State = state
	return nil
}

// requireState fails with IllegalState unless the game is in one of states
func (g *Game) requireState(action string, states ...entities.GameState) error {
	for _, s := range states {
		if g.State == s {
			return nil
		}
	}
	return types.Errorf(types.ErrIllegalState, "cannot %s while the game is %s", action, g.State)
}

// record appends a credit movement to the ledger
func (g *Game) record(p *Player, kind entities.TransactionType, amount int64, description string) {
	g.Ledger = append(g.Ledger, entities.Transaction{
		ID:           uuid.NewString(),
		GameID:       g.ID,
		Round:        g.ledgerRound(),
		PlayerID:     p.ID,
		Amount:       amount,
		Type:         kind,
		Description:  description,
		Timestamp:    g.now(),
		BalanceAfter: p.Credits,
	})
}

// ledgerRound is the round a credit movement belongs to. Wagers placed while
// waiting count toward the round about to be dealt.
func (g *Game) ledgerRound() int {
	if g.State == entities.StateWaiting {
		return g.Round + 1
	}
	return g.Round
}

// nonHouseEligible lists players, in roster order, who would play against the house
func (g *Game) nonHouseEligible() []*Player {
	var out []*Player
	for _, p := range g.Players {
		if !p.IsHouse && p.eligible() {
			out = append(out, p)
		}
	}
	return out
}

// computePlayOrder rebuilds the turn order from the players dealt into the round
func (g *Game) computePlayOrder() {
	g.PlayOrder = g.PlayOrder[:0]
	for _, p := range g.Players {
		if p.inRound && !p.IsHouse {
			g.PlayOrder = append(g.PlayOrder, p.ID)
		}
	}
}
