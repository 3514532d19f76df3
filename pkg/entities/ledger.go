package entities

import (
	"time"
)

// TransactionType represents the type of credit movement
type TransactionType string

const (
	TransactionTypeBet     TransactionType = "BET"
	TransactionTypePayout  TransactionType = "PAYOUT"
	TransactionTypeRefund  TransactionType = "REFUND"
	TransactionTypeForfeit TransactionType = "FORFEIT"
	// TransactionTypeHouseSettlement is the house's net for a resolved round
	TransactionTypeHouseSettlement TransactionType = "HOUSE_SETTLEMENT"
)

// Transaction represents a single credit movement for one player
type Transaction struct {
	ID           string          `json:"id"`
	GameID       string          `json:"gameId"`
	Round        int             `json:"round"`
	PlayerID     string          `json:"playerId"`
	Amount       int64           `json:"amount"` // positive for additions, negative for subtractions
	Type         TransactionType `json:"type"`
	Description  string          `json:"description,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
	BalanceAfter int64           `json:"balanceAfter"`
}
