package game

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// RepositoryTestSuite runs the same behaviour checks against every backend
type RepositoryTestSuite struct {
	suite.Suite
	ctx     context.Context
	newRepo func() Repository
	repo    Repository
}

func TestMemoryRepositorySuite(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		newRepo: func() Repository { return NewMemoryRepository() },
	})
}

func TestSQLiteRepositorySuite(t *testing.T) {
	s := &RepositoryTestSuite{}
	s.newRepo = func() Repository {
		repo, err := NewSQLiteRepository(filepath.Join(s.T().TempDir(), "history", "test.db"))
		s.Require().NoError(err)
		return repo
	}
	suite.Run(t, s)
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = s.newRepo()
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.NoError(s.repo.Close())
}

func (s *RepositoryTestSuite) TestPlayerResultsIncludeHouseRounds() {
	// Setup
	s.Require().NoError(s.repo.SaveRoundResult(s.ctx, newRound("g1", 1, "ana", baseTime, "bo", "cy")))
	s.Require().NoError(s.repo.SaveRoundResult(s.ctx, newRound("g1", 2, "bo", baseTime.Add(time.Minute), "ana", "cy")))
	s.Require().NoError(s.repo.SaveRoundResult(s.ctx, newRound("g2", 1, "dee", baseTime.Add(2*time.Minute), "eve", "fay")))

	// Execute
	results, err := s.repo.GetPlayerResults(s.ctx, "ana", 0)

	// Assert
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal(2, results[0].Round, "Newest round should come first")
	s.Equal("ana", results[1].HouseID)
}

func (s *RepositoryTestSuite) TestPlayerResultsLimit() {
	for i := 1; i <= 4; i++ {
		s.Require().NoError(s.repo.SaveRoundResult(s.ctx, newRound("g1", i, "ana", baseTime.Add(time.Duration(i)*time.Minute), "bo", "cy")))
	}

	results, err := s.repo.GetPlayerResults(s.ctx, "bo", 2)

	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal(4, results[0].Round)
	s.Equal(3, results[1].Round)
}

func (s *RepositoryTestSuite) TestUnknownPlayerHasNoResults() {
	results, err := s.repo.GetPlayerResults(s.ctx, "nobody", 10)

	s.NoError(err)
	s.Empty(results)
}

func (s *RepositoryTestSuite) TestGameResultsRoundTrip() {
	// Setup
	first := newRound("g1", 1, "ana", baseTime, "bo", "cy")
	first.Players[0].Special = "DOUBLE_A"
	first.Players[0].Eliminated = true
	s.Require().NoError(s.repo.SaveRoundResult(s.ctx, newRound("g1", 2, "ana", baseTime.Add(time.Minute), "bo", "cy")))
	s.Require().NoError(s.repo.SaveRoundResult(s.ctx, first))

	// Execute
	results, err := s.repo.GetGameResults(s.ctx, "g1")

	// Assert
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	got := results[0]
	s.Equal(1, got.Round, "Rounds should be in round order")
	s.Equal(first.ID, got.ID)
	s.Equal(first.HouseScore, got.HouseScore)
	s.Equal(first.HouseNet, got.HouseNet)
	s.True(first.CompletedAt.Equal(got.CompletedAt))
	s.Require().Len(got.Players, 2)
	s.Equal("bo", got.Players[0].PlayerID)
	s.Equal("DOUBLE_A", got.Players[0].Special)
	s.True(got.Players[0].Eliminated)
	s.Equal(first.Players[1].Score, got.Players[1].Score)
	s.Equal([]string{"10 of HEARTS", "7 of CLUBS"}, got.Players[1].Cards)
	s.Require().Len(got.Ledger, 2)
	s.Equal(int64(-200), got.Ledger[0].Amount)
}

func (s *RepositoryTestSuite) TestListPlayerIDs() {
	s.Require().NoError(s.repo.SaveRoundResult(s.ctx, newRound("g1", 1, "ana", baseTime, "cy", "bo")))

	ids, err := s.repo.ListPlayerIDs(s.ctx)

	s.NoError(err)
	s.Equal([]string{"ana", "bo", "cy"}, ids)
}

func (s *RepositoryTestSuite) TestPruneBefore() {
	// Setup
	pruner, ok := s.repo.(Pruner)
	s.Require().True(ok, "Every backend should support pruning")
	s.Require().NoError(s.repo.SaveRoundResult(s.ctx, newRound("g1", 1, "ana", baseTime, "bo", "cy")))
	s.Require().NoError(s.repo.SaveRoundResult(s.ctx, newRound("g1", 2, "bo", baseTime.Add(time.Hour), "ana", "cy")))

	// Execute
	pruned, err := pruner.PruneBefore(s.ctx, baseTime.Add(time.Minute))

	// Assert
	s.Require().NoError(err)
	s.Equal(1, pruned)
	results, err := s.repo.GetGameResults(s.ctx, "g1")
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(2, results[0].Round)
	s.Len(results[0].Ledger, 2)
}
