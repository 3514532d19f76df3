package game

import (
	"fmt"
	"time"

	"github.com/fadedpez/relancina/pkg/entities"
)

var baseTime = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

// newRound builds a settled round where every listed player lost to the house
func newRound(gameID string, round int, houseID string, completedAt time.Time, playerIDs ...string) *entities.RoundResult {
	result := &entities.RoundResult{
		ID:          fmt.Sprintf("%s-r%d", gameID, round),
		GameID:      gameID,
		Round:       round,
		HouseID:     houseID,
		Reason:      entities.FinishResolved,
		HouseScore:  entities.Whole(19),
		HouseNet:    int64(200 * len(playerIDs)),
		CompletedAt: completedAt,
		Players:     []*entities.PlayerResult{},
	}
	for i, id := range playerIDs {
		result.Players = append(result.Players, &entities.PlayerResult{
			PlayerID:      id,
			Name:          "Player " + id,
			Outcome:       entities.OutcomeLose,
			Bet:           200,
			Multiplier:    1,
			CreditsChange: -200,
			CreditsAfter:  9800,
			Score:         entities.Whole(17 - i),
			Cards:         []string{"10 of HEARTS", "7 of CLUBS"},
		})
		result.Ledger = append(result.Ledger, entities.Transaction{
			ID:           fmt.Sprintf("%s-r%d-bet-%s", gameID, round, id),
			GameID:       gameID,
			Round:        round,
			PlayerID:     id,
			Amount:       -200,
			Type:         entities.TransactionTypeBet,
			Description:  "bet placed",
			Timestamp:    completedAt.Add(-time.Minute),
			BalanceAfter: 9800,
		})
	}
	return result
}
