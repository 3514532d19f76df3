package statistics

import (
	"context"
	"sort"
	"time"

	"github.com/fadedpez/relancina/internal/types"
	"github.com/fadedpez/relancina/pkg/entities"
	"github.com/fadedpez/relancina/pkg/repositories/game"
)

// Service aggregates player statistics from the round history
type Service struct {
	repository game.Repository
	now        func() time.Time
}

// NewService creates a new statistics service
func NewService(repository game.Repository) *Service {
	return &Service{
		repository: repository,
		now:        time.Now,
	}
}

// GetPlayerStats folds every round the player sat in into one record. A
// player without history gets zeroed statistics.
func (s *Service) GetPlayerStats(ctx context.Context, playerID string) (*entities.PlayerStatistics, error) {
	if playerID == "" {
		return nil, types.NewGameError(types.ErrValidation, "player id is required")
	}

	rounds, err := s.repository.GetPlayerResults(ctx, playerID, 0)
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "failed to load player history", err)
	}
	return Aggregate(playerID, rounds), nil
}

// Aggregate builds statistics for playerID from the given rounds
func Aggregate(playerID string, rounds []*entities.RoundResult) *entities.PlayerStatistics {
	stats := &entities.PlayerStatistics{PlayerID: playerID}

	for _, round := range rounds {
		if round.CompletedAt.After(stats.LastPlayed) {
			stats.LastPlayed = round.CompletedAt
		}

		if round.HouseID == playerID {
			stats.RoundsAsHouse++
			stats.HouseNet += round.HouseNet
			continue
		}

		for _, pr := range round.Players {
			if pr.PlayerID != playerID {
				continue
			}
			stats.RoundsPlayed++
			stats.TotalWagered += pr.Bet
			stats.TotalReturned += pr.CreditsChange

			switch pr.Outcome {
			case entities.OutcomeWin:
				stats.Wins++
			case entities.OutcomeLose:
				stats.Losses++
			case entities.OutcomeTie:
				stats.Ties++
			case entities.OutcomeRefund:
				stats.Refunds++
			}
			if pr.Bust {
				stats.Busts++
			}

			switch pr.Special {
			case "DOUBLE_A":
				stats.DoubleAces++
			case "DOUBLE_2":
				stats.DoubleTwos++
			case "TWENTY_POINT_FIVE":
				stats.TwentyPointFives++
			}
		}
	}

	return stats
}

// PlayerRank represents a player's statistics with ranking information
type PlayerRank struct {
	*entities.PlayerStatistics
	Rank        int     `json:"rank"`
	WinRate     float64 `json:"winRate"`
	NetProfit   int64   `json:"netProfit"`
	IsTopWinner bool    `json:"isTopWinner"`
	IsTopPlayer bool    `json:"isTopPlayer"`
}

// Leaderboard represents a paginated leaderboard of player statistics
type Leaderboard struct {
	Players        []*PlayerRank `json:"players"`
	TotalPlayers   int           `json:"totalPlayers"`
	CurrentPage    int           `json:"currentPage"`
	TotalPages     int           `json:"totalPages"`
	PlayersPerPage int           `json:"playersPerPage"`
	LastUpdated    time.Time     `json:"lastUpdated"`
}

// GetLeaderboard ranks every player with history by net profit
func (s *Service) GetLeaderboard(ctx context.Context, page, playersPerPage int) (*Leaderboard, error) {
	// Default values
	if page < 1 {
		page = 1
	}
	if playersPerPage < 1 {
		playersPerPage = 10
	}

	ids, err := s.repository.ListPlayerIDs(ctx)
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "failed to list players", err)
	}

	playerRanks := make([]*PlayerRank, 0, len(ids))
	for _, id := range ids {
		stats, err := s.GetPlayerStats(ctx, id)
		if err != nil {
			return nil, err
		}
		if stats.RoundsPlayed == 0 && stats.RoundsAsHouse == 0 {
			continue
		}
		playerRanks = append(playerRanks, &PlayerRank{
			PlayerStatistics: stats,
			WinRate:          stats.WinRate(),
			NetProfit:        stats.NetProfit(),
		})
	}

	// Sort by net profit (descending), ties broken by id for a stable order
	sort.Slice(playerRanks, func(i, j int) bool {
		if playerRanks[i].NetProfit != playerRanks[j].NetProfit {
			return playerRanks[i].NetProfit > playerRanks[j].NetProfit
		}
		return playerRanks[i].PlayerID < playerRanks[j].PlayerID
	})

	if len(playerRanks) > 0 {
		playerRanks[0].IsTopWinner = true

		// Top player is whoever sat at the most rounds
		mostRoundsIdx := 0
		for i := 1; i < len(playerRanks); i++ {
			if rounds(playerRanks[i]) > rounds(playerRanks[mostRoundsIdx]) {
				mostRoundsIdx = i
			}
		}
		playerRanks[mostRoundsIdx].IsTopPlayer = true
	}

	for i := range playerRanks {
		playerRanks[i].Rank = i + 1
	}

	// Calculate pagination
	totalPlayers := len(playerRanks)
	totalPages := (totalPlayers + playersPerPage - 1) / playersPerPage
	if page > totalPages && totalPages > 0 {
		page = totalPages
	}

	start := (page - 1) * playersPerPage
	end := start + playersPerPage
	if end > totalPlayers {
		end = totalPlayers
	}

	currentPagePlayers := []*PlayerRank{}
	if start < totalPlayers {
		currentPagePlayers = playerRanks[start:end]
	}

	return &Leaderboard{
		Players:        currentPagePlayers,
		TotalPlayers:   totalPlayers,
		CurrentPage:    page,
		TotalPages:     totalPages,
		PlayersPerPage: playersPerPage,
		LastUpdated:    s.now(),
	}, nil
}

func rounds(r *PlayerRank) int {
	return r.RoundsPlayed + r.RoundsAsHouse
}
