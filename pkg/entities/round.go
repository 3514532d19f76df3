package entities

import "time"

// RoundResult is the settled outcome of one round, kept as history
type RoundResult struct {
	ID          string          `json:"id"`
	GameID      string          `json:"gameId"`
	Round       int             `json:"round"`
	HouseID     string          `json:"houseId"`
	Reason      FinishReason    `json:"reason"`
	HouseScore  Points          `json:"houseScore"`
	HouseBust   bool            `json:"houseBust"`
	HouseNet    int64           `json:"houseNet"`
	CompletedAt time.Time       `json:"completedAt"`
	Players     []*PlayerResult `json:"players"`
	// Ledger holds the credit movements booked for the round
	Ledger []Transaction `json:"ledger,omitempty"`
}

// PlayerResult is one non-house player's line in a RoundResult
type PlayerResult struct {
	PlayerID      string   `json:"playerId"`
	Name          string   `json:"name"`
	Outcome       Outcome  `json:"outcome"`
	Bet           int64    `json:"bet"`
	Multiplier    int      `json:"multiplier"`
	CreditsChange int64    `json:"creditsChange"`
	CreditsAfter  int64    `json:"creditsAfter"`
	Score         Points   `json:"score"`
	Special       string   `json:"special,omitempty"`
	Bust          bool     `json:"bust"`
	Cards         []string `json:"cards"`
	Eliminated    bool     `json:"eliminated"`
}

// PlayerStatistics aggregates a player's history across every game
type PlayerStatistics struct {
	PlayerID         string    `json:"playerId"`
	RoundsPlayed     int       `json:"roundsPlayed"`
	RoundsAsHouse    int       `json:"roundsAsHouse"`
	Wins             int       `json:"wins"`
	Losses           int       `json:"losses"`
	Ties             int       `json:"ties"`
	Refunds          int       `json:"refunds"`
	Busts            int       `json:"busts"`
	DoubleAces       int       `json:"doubleAces"`
	DoubleTwos       int       `json:"doubleTwos"`
	TwentyPointFives int       `json:"twentyPointFives"`
	TotalWagered     int64     `json:"totalWagered"`
	TotalReturned    int64     `json:"totalReturned"`
	HouseNet         int64     `json:"houseNet"`
	LastPlayed       time.Time `json:"lastPlayed"`
}

// NetProfit is what the player won back minus what they wagered, plus house earnings
func (s *PlayerStatistics) NetProfit() int64 {
	return s.TotalReturned - s.TotalWagered + s.HouseNet
}

// WinRate calculates the player's win rate as a percentage
func (s *PlayerStatistics) WinRate() float64 {
	if s.RoundsPlayed == 0 {
		return 0.0
	}
	return float64(s.Wins) / float64(s.RoundsPlayed) * 100.0
}
