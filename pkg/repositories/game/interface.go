package game

import (
	"context"
	"time"

	"github.com/fadedpez/relancina/pkg/entities"
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_game

// Repository stores the history of settled rounds
type Repository interface {
	// SaveRoundResult stores one settled round
	SaveRoundResult(ctx context.Context, result *entities.RoundResult) error
	// GetPlayerResults returns rounds a player took part in, as house or player,
	// newest first. A limit of zero or less returns every round.
	GetPlayerResults(ctx context.Context, playerID string, limit int) ([]*entities.RoundResult, error)
	// GetGameResults returns every round of a game in round order
	GetGameResults(ctx context.Context, gameID string) ([]*entities.RoundResult, error)
	// ListPlayerIDs returns every player with at least one round
	ListPlayerIDs(ctx context.Context) ([]string, error)

	// Close closes any resources used by the repository
	Close() error
}

// Pruner is implemented by repositories that can drop old history
type Pruner interface {
	// PruneBefore deletes rounds completed before cutoff and returns how many went
	PruneBefore(ctx context.Context, cutoff time.Time) (int, error)
}
