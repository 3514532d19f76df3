package games

import (
	"context"

	"github.com/fadedpez/relancina/pkg/services/relancina"
)

// Service is the part of the game service the Discord front-end drives
type Service interface {
	CreateGame(ctx context.Context, roster []relancina.PlayerSpec) (*relancina.GameView, error)
	GetGame(ctx context.Context, id string) (*relancina.GameView, error)
	DeleteGame(ctx context.Context, id string) error

	PlaceBet(ctx context.Context, id, playerID string, amount int64) (*relancina.BetLine, error)
	StartGame(ctx context.Context, id string) (*relancina.StartResult, error)
	RestartGame(ctx context.Context, id string) (*relancina.StartResult, error)

	Hit(ctx context.Context, id, playerID string) (*relancina.ActionResult, error)
	Stand(ctx context.Context, id, playerID string) (*relancina.ActionResult, error)
	ChangeHand(ctx context.Context, id, playerID string) (*relancina.ActionResult, error)
	ChooseAce(ctx context.Context, id, playerID string, aceIndex, value int) (*relancina.ActionResult, error)

	HouseHit(ctx context.Context, id string) (*relancina.ActionResult, error)
	HouseStand(ctx context.Context, id string) (*relancina.ActionResult, error)
	HouseChooseAce(ctx context.Context, id string, aceIndex, value int) (*relancina.ActionResult, error)

	DisconnectPlayer(ctx context.Context, id, playerID string) (*relancina.DisconnectResult, error)
}

var _ Service = (*relancina.Service)(nil)
