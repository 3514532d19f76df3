package games

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/fadedpez/relancina/pkg/services/relancina"
)

// MockService implements Service for testing
type MockService struct {
	mock.Mock
}

var _ Service = (*MockService)(nil)

func (m *MockService) CreateGame(ctx context.Context, roster []relancina.PlayerSpec) (*relancina.GameView, error) {
	args := m.Called(ctx, roster)
	view, _ := args.Get(0).(*relancina.GameView)
	return view, args.Error(1)
}

func (m *MockService) GetGame(ctx context.Context, id string) (*relancina.GameView, error) {
	args := m.Called(ctx, id)
	view, _ := args.Get(0).(*relancina.GameView)
	return view, args.Error(1)
}

func (m *MockService) DeleteGame(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockService) PlaceBet(ctx context.Context, id, playerID string, amount int64) (*relancina.BetLine, error) {
	args := m.Called(ctx, id, playerID, amount)
	line, _ := args.Get(0).(*relancina.BetLine)
	return line, args.Error(1)
}

func (m *MockService) StartGame(ctx context.Context, id string) (*relancina.StartResult, error) {
	args := m.Called(ctx, id)
	result, _ := args.Get(0).(*relancina.StartResult)
	return result, args.Error(1)
}

func (m *MockService) RestartGame(ctx context.Context, id string) (*relancina.StartResult, error) {
	args := m.Called(ctx, id)
	result, _ := args.Get(0).(*relancina.StartResult)
	return result, args.Error(1)
}

func (m *MockService) Hit(ctx context.Context, id, playerID string) (*relancina.ActionResult, error) {
	return m.action(m.Called(ctx, id, playerID))
}

func (m *MockService) Stand(ctx context.Context, id, playerID string) (*relancina.ActionResult, error) {
	return m.action(m.Called(ctx, id, playerID))
}

func (m *MockService) ChangeHand(ctx context.Context, id, playerID string) (*relancina.ActionResult, error) {
	return m.action(m.Called(ctx, id, playerID))
}

func (m *MockService) ChooseAce(ctx context.Context, id, playerID string, aceIndex, value int) (*relancina.ActionResult, error) {
	return m.action(m.Called(ctx, id, playerID, aceIndex, value))
}

func (m *MockService) HouseHit(ctx context.Context, id string) (*relancina.ActionResult, error) {
	return m.action(m.Called(ctx, id))
}

func (m *MockService) HouseStand(ctx context.Context, id string) (*relancina.ActionResult, error) {
	return m.action(m.Called(ctx, id))
}

func (m *MockService) HouseChooseAce(ctx context.Context, id string, aceIndex, value int) (*relancina.ActionResult, error) {
	return m.action(m.Called(ctx, id, aceIndex, value))
}

func (m *MockService) DisconnectPlayer(ctx context.Context, id, playerID string) (*relancina.DisconnectResult, error) {
	args := m.Called(ctx, id, playerID)
	result, _ := args.Get(0).(*relancina.DisconnectResult)
	return result, args.Error(1)
}

func (m *MockService) action(args mock.Arguments) (*relancina.ActionResult, error) {
	result, _ := args.Get(0).(*relancina.ActionResult)
	return result, args.Error(1)
}
