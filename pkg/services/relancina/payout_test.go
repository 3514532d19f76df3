package relancina

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/fadedpez/relancina/internal/types"
	"github.com/fadedpez/relancina/pkg/entities"
)

type PayoutTestSuite struct {
	suite.Suite
}

func TestPayoutSuite(t *testing.T) {
	suite.Run(t, new(PayoutTestSuite))
}

// seat builds a player holding cards, bust when the hand says so
func seat(cards ...entities.Card) *Player {
	p := &Player{Status: entities.StatusStand, AceChoices: map[int]int{}, IsConnected: true}
	p.Hand = cards
	p.analyze()
	if p.Analysis.IsBust {
		p.Status = entities.StatusBust
	}
	return p
}

func (s *PayoutTestSuite) TestJudgePrecedence() {
	bust := hand(entities.King, entities.Queen, entities.Five)
	tests := []struct {
		name       string
		player     []entities.Card
		house      []entities.Card
		outcome    entities.Outcome
		multiplier int
	}{
		{name: "player bust loses even when house busts", player: bust, house: bust, outcome: entities.OutcomeLose, multiplier: 1},
		{name: "house bust pays the player multiplier", player: hand(entities.Seven, entities.Seven), house: bust, outcome: entities.OutcomeWin, multiplier: 2},
		{name: "house bust pays card count", player: hand(entities.Two, entities.Three, entities.Two, entities.Three, entities.Four), house: bust, outcome: entities.OutcomeWin, multiplier: 5},
		{name: "double ace beats 21", player: hand(entities.Ace, entities.Ace), house: hand(entities.King, entities.Ace), outcome: entities.OutcomeWin, multiplier: 5},
		{name: "double ace ties double ace", player: hand(entities.Ace, entities.Ace), house: hand(entities.Ace, entities.Ace), outcome: entities.OutcomeTie, multiplier: 1},
		{name: "double ace beats double two", player: hand(entities.Ace, entities.Ace), house: hand(entities.Two, entities.Two), outcome: entities.OutcomeWin, multiplier: 5},
		{name: "double two loses to double ace", player: hand(entities.Two, entities.Two), house: hand(entities.Ace, entities.Ace), outcome: entities.OutcomeLose, multiplier: 1},
		{name: "double two ties double two", player: hand(entities.Two, entities.Two), house: hand(entities.Two, entities.Two), outcome: entities.OutcomeTie, multiplier: 1},
		{name: "double two beats 20", player: hand(entities.Two, entities.Two), house: hand(entities.King, entities.Queen), outcome: entities.OutcomeWin, multiplier: 4},
		{name: "house double ace beats 21", player: hand(entities.King, entities.Five, entities.Six), house: hand(entities.Ace, entities.Ace), outcome: entities.OutcomeLose, multiplier: 1},
		{name: "house double two beats 20.5", player: hand(entities.Seven, entities.Seven), house: hand(entities.Two, entities.Two), outcome: entities.OutcomeLose, multiplier: 1},
		{name: "20.5 ties 20.5", player: hand(entities.Seven, entities.Seven), house: hand(entities.Ace, entities.Three), outcome: entities.OutcomeTie, multiplier: 1},
		{name: "20.5 beats 20", player: hand(entities.Seven, entities.Seven), house: hand(entities.King, entities.Queen), outcome: entities.OutcomeWin, multiplier: 2},
		{name: "20.5 loses to 21", player: hand(entities.Seven, entities.Seven), house: hand(entities.King, entities.Five, entities.Six), outcome: entities.OutcomeLose, multiplier: 1},
		{name: "house 20.5 beats 20", player: hand(entities.King, entities.Queen), house: hand(entities.Seven, entities.Seven), outcome: entities.OutcomeLose, multiplier: 1},
		{name: "21 beats house 20.5", player: hand(entities.King, entities.Five, entities.Six), house: hand(entities.Seven, entities.Seven), outcome: entities.OutcomeWin, multiplier: 1},
		{name: "higher total wins", player: hand(entities.King, entities.Nine), house: hand(entities.King, entities.Eight), outcome: entities.OutcomeWin, multiplier: 1},
		{name: "lower total loses", player: hand(entities.King, entities.Seven), house: hand(entities.King, entities.Eight), outcome: entities.OutcomeLose, multiplier: 1},
		{name: "equal totals tie", player: hand(entities.King, entities.Eight), house: hand(entities.Nine, entities.Nine), outcome: entities.OutcomeTie, multiplier: 1},
		{name: "five card win multiplies", player: hand(entities.Two, entities.Three, entities.Four, entities.Three, entities.Seven), house: hand(entities.King, entities.Eight), outcome: entities.OutcomeWin, multiplier: 5},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			outcome, multiplier := judge(seat(tt.player...), seat(tt.house...))

			s.Equal(tt.outcome, outcome)
			s.Equal(tt.multiplier, multiplier)
		})
	}
}

// playToHouseStand deals the hands, stands everyone and lets the house stand
func playToHouseStand(s *suite.Suite, g *Game, hands [][]entities.Card) *Resolution {
	dealRound(g, hands)
	for g.State == entities.StatePlaying {
		_, err := g.Stand(g.CurrentPlayer().ID)
		s.Require().NoError(err)
	}
	_, err := g.HouseStand()
	s.Require().NoError(err)
	res, err := g.ResolveWinners()
	s.Require().NoError(err)
	return res
}

func (s *PayoutTestSuite) TestSettlementMovesCredits() {
	// Setup
	g := newTestGame(4)

	// Execute
	res := playToHouseStand(&s.Suite, g, [][]entities.Card{
		hand(entities.King, entities.Eight),
		hand(entities.Seven, entities.Seven),
		hand(entities.Nine, entities.Nine),
		hand(entities.Nine, entities.Seven),
	})

	// Assert
	s.Equal(1, res.Winners)
	s.Equal(1, res.Ties)
	s.Equal(1, res.Losers)
	s.Equal(entities.FinishResolved, res.Reason)

	byID := map[string]PlayerOutcome{}
	for _, r := range res.Results {
		byID[r.PlayerID] = r
	}
	s.Equal(entities.OutcomeWin, byID["p2"].Outcome)
	s.Equal(2, byID["p2"].Multiplier)
	s.Equal(int64(1000), byID["p2"].Winnings)
	s.Equal(int64(DefaultCredits+500), mustPlayer(g, "p2").Credits)
	s.Equal(entities.OutcomeTie, byID["p3"].Outcome)
	s.Equal(int64(DefaultCredits), mustPlayer(g, "p3").Credits)
	s.Equal(entities.OutcomeLose, byID["p4"].Outcome)
	s.Equal(int64(DefaultCredits-500), mustPlayer(g, "p4").Credits)

	s.Equal(int64(-500), res.House.Net)
	s.Equal(int64(DefaultCredits), res.House.PreviousCredits)
	s.Equal(int64(DefaultCredits-500), res.House.NewCredits)
	s.Equal(int64(4*DefaultCredits)-byID["p2"].Bet, totalCredits(g), "The winning stake is spent")
	for _, p := range g.Players {
		s.Zero(p.Bet, p.ID)
	}
}

func (s *PayoutTestSuite) TestResolveIsIdempotent() {
	// Setup
	g := newTestGame(3)
	first := playToHouseStand(&s.Suite, g, [][]entities.Card{
		hand(entities.King, entities.Eight),
		hand(entities.King, entities.Nine),
		hand(entities.King, entities.Seven),
	})
	credits := totalCredits(g)
	ledger := len(g.Ledger)

	// Execute
	second, err := g.ResolveWinners()

	// Assert
	s.Require().NoError(err)
	s.Same(first, second)
	s.Equal(credits, totalCredits(g))
	s.Len(g.Ledger, ledger, "A second resolve books nothing")
}

func (s *PayoutTestSuite) TestBrokePlayersAreEliminated() {
	// Setup
	credits := int64(MinBet)
	g, err := NewGame([]PlayerSpec{{ID: "p1"}, {ID: "p2", Credits: &credits}, {ID: "p3"}, {ID: "p4"}}, nil)
	s.Require().NoError(err)

	// Execute
	betAll(g, MinBet)
	res := playToHouseStand(&s.Suite, g, [][]entities.Card{
		hand(entities.King, entities.Nine),
		hand(entities.King, entities.Seven),
		hand(entities.King, entities.Six),
		hand(entities.King, entities.Ten),
	})

	// Assert
	s.Equal([]string{"p2"}, res.Eliminated)
	s.Equal(entities.StatusSpectator, mustPlayer(g, "p2").Status)

	restart, err := g.Restart()
	s.Require().NoError(err)
	s.Equal([]string{"p3", "p4"}, restart.AwaitingBets, "A spectator is not dealt in")
}

func (s *PayoutTestSuite) TestSpectatorsAreEliminatedOnce() {
	// Setup
	credits := int64(MinBet)
	g, err := NewGame([]PlayerSpec{{ID: "p1"}, {ID: "p2", Credits: &credits}, {ID: "p3"}, {ID: "p4"}}, nil)
	s.Require().NoError(err)
	betAll(g, MinBet)
	first := playToHouseStand(&s.Suite, g, [][]entities.Card{
		hand(entities.King, entities.Nine),
		hand(entities.King, entities.Seven),
		hand(entities.King, entities.Six),
		hand(entities.King, entities.Ten),
	})
	s.Require().Equal([]string{"p2"}, first.Eliminated)
	_, err = g.Restart()
	s.Require().NoError(err)

	// Execute
	second := playToHouseStand(&s.Suite, g, [][]entities.Card{
		hand(entities.King, entities.Nine),
		hand(entities.King, entities.Eight),
		hand(entities.King, entities.Seven),
	})

	// Assert
	s.Equal(2, second.Round)
	s.Empty(second.Eliminated)
	for _, r := range second.Results {
		s.NotEqual("p2", r.PlayerID)
	}
	s.Equal(entities.StatusSpectator, mustPlayer(g, "p2").Status)
}

func (s *PayoutTestSuite) TestResolveBeforeFinish() {
	g := newTestGame(3)

	_, err := g.ResolveWinners()

	s.True(types.IsGameError(err, types.ErrIllegalState))
}
