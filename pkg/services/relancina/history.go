package relancina

import (
	"github.com/google/uuid"

	"github.com/fadedpez/relancina/pkg/entities"
)

// RoundResultFrom converts a settlement into the history record. Ledger
// entries of other rounds are ignored.
func RoundResultFrom(res *Resolution, ledger []entities.Transaction) *entities.RoundResult {
	out := &entities.RoundResult{
		ID:          uuid.NewString(),
		GameID:      res.GameID,
		Round:       res.Round,
		HouseID:     res.House.PlayerID,
		Reason:      res.Reason,
		HouseScore:  res.House.Score,
		HouseBust:   res.House.Bust,
		HouseNet:    res.House.Net,
		CompletedAt: res.ResolvedAt,
		Players:     make([]*entities.PlayerResult, 0, len(res.Results)),
	}

	eliminated := make(map[string]bool, len(res.Eliminated))
	for _, id := range res.Eliminated {
		eliminated[id] = true
	}

	for _, r := range res.Results {
		cards := make([]string, 0, len(r.Hand))
		for _, c := range r.Hand {
			cards = append(cards, c.String())
		}
		out.Players = append(out.Players, &entities.PlayerResult{
			PlayerID:      r.PlayerID,
			Name:          r.Name,
			Outcome:       r.Outcome,
			Bet:           r.Bet,
			Multiplier:    r.Multiplier,
			CreditsChange: r.CreditsChange,
			CreditsAfter:  r.NewCredits,
			Score:         r.Score,
			Special:       string(r.Special),
			Bust:          r.Status == entities.StatusBust,
			Cards:         cards,
			Eliminated:    eliminated[r.PlayerID],
		})
	}
	for _, tx := range ledger {
		if tx.Round == res.Round {
			out.Ledger = append(out.Ledger, tx)
		}
	}
	return out
}
