package scheduler

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/fadedpez/relancina/internal/logging"
	mock_game "github.com/fadedpez/relancina/pkg/repositories/game/mock"
)

type SchedulerTestSuite struct {
	suite.Suite
	logs   *bytes.Buffer
	logger *logging.Logger
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}

func (s *SchedulerTestSuite) SetupTest() {
	s.logs = &bytes.Buffer{}
	s.logger = logging.NewLoggerTo(s.logs, logging.INFO)
}

func (s *SchedulerTestSuite) TestTaskRunsOnStartAndStops() {
	// Setup
	var runs int32
	ran := make(chan struct{}, 1)
	sched := NewScheduler(s.logger)
	sched.AddTask("count", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		ran <- struct{}{}
		return nil
	})

	// Execute
	sched.Start(context.Background())
	sched.Start(context.Background())
	<-ran
	sched.Stop()
	sched.Stop()

	// Assert
	s.Equal(int32(1), atomic.LoadInt32(&runs), "A second Start should not launch the task again")
	s.Contains(s.logs.String(), "Scheduler started with 1 tasks")
	s.Contains(s.logs.String(), "Scheduler stopped")
}

func (s *SchedulerTestSuite) TestTaskErrorsAreLogged() {
	ran := make(chan struct{}, 1)
	sched := NewScheduler(s.logger)
	sched.AddTask("broken", time.Hour, func(ctx context.Context) error {
		defer func() { ran <- struct{}{} }()
		return errors.New("boom")
	})

	sched.Start(context.Background())
	<-ran
	sched.Stop()

	s.Contains(s.logs.String(), "Error running task broken: boom")
}

// gamePruner is a testify mock for the registry side
type gamePruner struct {
	mock.Mock
}

func (g *gamePruner) PruneIdle(ctx context.Context, maxIdle time.Duration) (int, error) {
	args := g.Called(ctx, maxIdle)
	return args.Int(0), args.Error(1)
}

func (s *SchedulerTestSuite) TestMaintenanceRunsBothTasks() {
	// Setup
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	done := make(chan struct{}, 2)

	games := &gamePruner{}
	games.On("PruneIdle", mock.Anything, 6*time.Hour).Return(2, nil).
		Run(func(mock.Arguments) { done <- struct{}{} }).Once()

	ctrl := gomock.NewController(s.T())
	history := mock_game.NewMockPruner(ctrl)
	history.EXPECT().PruneBefore(gomock.Any(), now.Add(-72*time.Hour)).
		DoAndReturn(func(context.Context, time.Time) (int, error) {
			done <- struct{}{}
			return 5, nil
		})

	m := NewMaintenance(games, history, MaintenanceConfig{
		Interval:  time.Hour,
		GameTTL:   6 * time.Hour,
		Retention: 72 * time.Hour,
	}, s.logger)
	m.now = func() time.Time { return now }

	// Execute
	m.Start(context.Background())
	<-done
	<-done
	m.Stop()

	// Assert
	games.AssertExpectations(s.T())
	s.Contains(s.logs.String(), "Pruned 5 rounds")
}

func (s *SchedulerTestSuite) TestMaintenanceWithoutRetention() {
	done := make(chan struct{}, 1)
	games := &gamePruner{}
	games.On("PruneIdle", mock.Anything, time.Hour).Return(0, nil).
		Run(func(mock.Arguments) { done <- struct{}{} }).Once()

	ctrl := gomock.NewController(s.T())
	history := mock_game.NewMockPruner(ctrl)

	m := NewMaintenance(games, history, MaintenanceConfig{Interval: time.Hour, GameTTL: time.Hour}, s.logger)
	m.Start(context.Background())
	<-done
	m.Stop()

	games.AssertExpectations(s.T())
}
