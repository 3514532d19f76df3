package relancina

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/fadedpez/relancina/internal/types"
	"github.com/fadedpez/relancina/pkg/entities"
)

type DisconnectTestSuite struct {
	suite.Suite
}

func TestDisconnectSuite(t *testing.T) {
	suite.Run(t, new(DisconnectTestSuite))
}

func fourHands() [][]entities.Card {
	return [][]entities.Card{
		hand(entities.Ten, entities.Eight),
		hand(entities.Nine, entities.Seven),
		hand(entities.Six, entities.Five),
		hand(entities.Ten, entities.Six),
	}
}

func (s *DisconnectTestSuite) TestWaitingWithoutHouseRefunds() {
	// Setup
	g := newTestGame(4)
	_, err := g.PlaceBet("p2", 500)
	s.Require().NoError(err)

	// Execute
	result, err := g.Disconnect("p2")

	// Assert
	s.Require().NoError(err)
	s.Zero(result.Forfeited)
	p2 := mustPlayer(g, "p2")
	s.Equal(int64(DefaultCredits), p2.Credits)
	s.Equal(entities.StatusDisconnected, p2.Status)
	s.False(p2.IsConnected)
	s.False(result.Finished)
	s.Equal(entities.StateWaiting, g.State)
}

func (s *DisconnectTestSuite) TestWaitingWithHouseForfeits() {
	// Setup
	g, err := NewGame([]PlayerSpec{{ID: "h", IsHouse: true}, {ID: "a"}, {ID: "b"}, {ID: "c"}}, nil)
	s.Require().NoError(err)
	_, err = g.PlaceBet("a", 800)
	s.Require().NoError(err)

	// Execute
	result, err := g.Disconnect("a")

	// Assert
	s.Require().NoError(err)
	s.Equal(int64(800), result.Forfeited)
	s.False(result.Finished)
	s.Equal(int64(DefaultCredits+800), mustPlayer(g, "h").Credits)
	s.Equal(int64(DefaultCredits-800), mustPlayer(g, "a").Credits)
}

func (s *DisconnectTestSuite) TestWaitingHouseLeavesAbandonsTheRound() {
	// Setup
	g, err := NewGame([]PlayerSpec{{ID: "h", IsHouse: true}, {ID: "a"}, {ID: "b"}, {ID: "c"}}, nil)
	s.Require().NoError(err)
	_, err = g.PlaceBet("a", 500)
	s.Require().NoError(err)
	_, err = g.PlaceBet("b", 500)
	s.Require().NoError(err)

	// Execute
	result, err := g.Disconnect("h")

	// Assert
	s.Require().NoError(err)
	s.True(result.WasHouse)
	s.True(result.Finished)
	s.Equal(entities.StateFinished, g.State)
	s.Require().NotNil(result.Resolution)
	s.Equal(entities.FinishHouseDisconnected, result.Resolution.Reason)
	s.Equal(1, result.Resolution.Round)
	s.Equal(2, result.Resolution.Refunds)
	s.Empty(result.Resolution.Eliminated)
	for _, id := range []string{"a", "b"} {
		p := mustPlayer(g, id)
		s.Equal(int64(DefaultCredits), p.Credits, id)
		s.Zero(p.Bet, id)
	}
	for _, tx := range g.Ledger {
		s.Equal(1, tx.Round)
	}
}

func (s *DisconnectTestSuite) TestWaitingShortTableAbandonsTheRound() {
	// Setup
	g, err := NewGame([]PlayerSpec{{ID: "h", IsHouse: true}, {ID: "a"}, {ID: "b"}}, nil)
	s.Require().NoError(err)
	_, err = g.PlaceBet("a", 500)
	s.Require().NoError(err)
	_, err = g.PlaceBet("b", 500)
	s.Require().NoError(err)

	// Execute
	result, err := g.Disconnect("b")

	// Assert
	s.Require().NoError(err)
	s.Equal(int64(500), result.Forfeited)
	s.True(result.Finished)
	s.Require().NotNil(result.Resolution)
	s.Equal(entities.FinishNotEnoughPlayers, result.Resolution.Reason)

	outcomes := map[string]PlayerOutcome{}
	for _, r := range result.Resolution.Results {
		outcomes[r.PlayerID] = r
	}
	s.Len(outcomes, 2)
	s.Equal(entities.OutcomeRefund, outcomes["a"].Outcome)
	s.Equal(entities.OutcomeLose, outcomes["b"].Outcome)
	s.Equal(int64(500), outcomes["b"].Bet)
	s.Equal(int64(DefaultCredits), mustPlayer(g, "a").Credits)
	s.Equal(int64(DefaultCredits+500), mustPlayer(g, "h").Credits)

	_, err = g.Restart()
	s.Require().NoError(err)
	s.Equal(entities.StateWaiting, g.State)
}

func (s *DisconnectTestSuite) TestWaitingShortTableWithoutHouse() {
	g := newTestGame(3)
	_, err := g.PlaceBet("p3", 500)
	s.Require().NoError(err)

	result, err := g.Disconnect("p2")

	s.Require().NoError(err)
	s.True(result.Finished)
	s.Equal(entities.FinishNotEnoughPlayers, result.Resolution.Reason)
	s.Equal(1, result.Resolution.Refunds)
	s.Equal(int64(DefaultCredits), mustPlayer(g, "p3").Credits)
	s.Equal(int64(DefaultCredits), mustPlayer(g, "p2").Credits)
}

func (s *DisconnectTestSuite) TestCurrentPlayerLeavesAndTurnAdvances() {
	// Setup
	g := newTestGame(4)
	dealRound(g, fourHands())
	houseBefore := g.House().Credits

	// Execute
	result, err := g.Disconnect("p2")

	// Assert
	s.Require().NoError(err)
	s.Equal(int64(500), result.Forfeited)
	s.False(result.Finished)
	s.Equal(houseBefore+500, g.House().Credits)
	s.Equal("p3", g.CurrentPlayer().ID)
	s.Equal(entities.StatePlaying, g.State)
}

func (s *DisconnectTestSuite) TestLastOpponentLeavingFinishesTheRound() {
	// Setup
	g := newTestGame(3)
	dealRound(g, [][]entities.Card{
		hand(entities.Ten, entities.Eight),
		hand(entities.Nine, entities.Seven),
		hand(entities.Six, entities.Five),
	})

	// Execute
	result, err := g.Disconnect("p3")

	// Assert
	s.Require().NoError(err)
	s.True(result.Finished)
	s.Require().NotNil(result.Resolution)
	s.Equal(entities.FinishNotEnoughPlayers, result.Resolution.Reason)
	s.Equal(entities.StateFinished, g.State)

	outcomes := map[string]PlayerOutcome{}
	for _, r := range result.Resolution.Results {
		outcomes[r.PlayerID] = r
	}
	s.Equal(entities.OutcomeRefund, outcomes["p2"].Outcome)
	s.Equal(int64(DefaultCredits), mustPlayer(g, "p2").Credits)
	s.Equal(entities.OutcomeLose, outcomes["p3"].Outcome)
	s.Equal(int64(500), outcomes["p3"].Bet)
	s.Equal(int64(DefaultCredits+500), g.House().Credits)
}

func (s *DisconnectTestSuite) TestHouseLeavingRefundsEveryone() {
	// Setup
	g := newTestGame(4)
	dealRound(g, fourHands())

	// Execute
	result, err := g.Disconnect("p1")

	// Assert
	s.Require().NoError(err)
	s.True(result.WasHouse)
	s.True(result.Finished)
	s.Equal(entities.FinishHouseDisconnected, result.Resolution.Reason)
	s.Equal(3, result.Resolution.Refunds)
	for _, id := range []string{"p2", "p3", "p4"} {
		s.Equal(int64(DefaultCredits), mustPlayer(g, id).Credits, id)
	}
}

func (s *DisconnectTestSuite) TestDisconnectDuringHouseTurn() {
	g := newTestGame(4)
	dealRound(g, fourHands())
	for g.State == entities.StatePlaying {
		_, err := g.Stand(g.CurrentPlayer().ID)
		s.Require().NoError(err)
	}

	result, err := g.Disconnect("p4")

	s.Require().NoError(err)
	s.False(result.Finished)
	s.Equal(entities.StateHouseTurn, g.State)
}

func (s *DisconnectTestSuite) TestFinishedOnlyMarks() {
	// Setup
	g := newTestGame(3)
	dealRound(g, [][]entities.Card{
		hand(entities.Ten, entities.Eight),
		hand(entities.Nine, entities.Seven),
		hand(entities.Six, entities.Five),
	})
	_, err := g.Disconnect("p1")
	s.Require().NoError(err)
	credits := totalCredits(g)

	// Execute
	result, err := g.Disconnect("p2")

	// Assert
	s.Require().NoError(err)
	s.True(result.Finished)
	s.Equal(credits, totalCredits(g))
	s.Equal(entities.StatusDisconnected, mustPlayer(g, "p2").Status)
}

func (s *DisconnectTestSuite) TestTwiceIsRejected() {
	g := newTestGame(3)
	_, err := g.Disconnect("p2")
	s.Require().NoError(err)

	_, err = g.Disconnect("p2")

	s.True(types.IsGameError(err, types.ErrIllegalState))
}

func (s *DisconnectTestSuite) TestUnknownPlayer() {
	g := newTestGame(3)

	_, err := g.Disconnect("ghost")

	s.True(types.IsGameError(err, types.ErrNotFound))
}
