package scheduler

import (
	"context"
	"time"

	"github.com/fadedpez/relancina/internal/logging"
	"github.com/fadedpez/relancina/pkg/repositories/game"
)

// GamePruner drops games nobody has touched for a while
type GamePruner interface {
	PruneIdle(ctx context.Context, maxIdle time.Duration) (int, error)
}

// MaintenanceConfig controls the housekeeping tasks
type MaintenanceConfig struct {
	Interval time.Duration
	// GameTTL is how long a game may sit idle before it is removed
	GameTTL time.Duration
	// Retention of zero disables history pruning
	Retention time.Duration
}

// Maintenance runs the registry cleanup and history retention tasks
type Maintenance struct {
	scheduler *Scheduler
	games     GamePruner
	history   game.Pruner
	config    MaintenanceConfig
	logger    *logging.Logger
	now       func() time.Time
}

// NewMaintenance wires the housekeeping tasks. history may be nil.
func NewMaintenance(games GamePruner, history game.Pruner, config MaintenanceConfig, logger *logging.Logger) *Maintenance {
	if logger == nil {
		logger = logging.Default
	}
	return &Maintenance{
		scheduler: NewScheduler(logger),
		games:     games,
		history:   history,
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

// Start schedules the tasks and starts running them
func (m *Maintenance) Start(ctx context.Context) {
	m.scheduler.AddTask("game_cleanup", m.config.Interval, m.pruneGames)
	if m.history != nil && m.config.Retention > 0 {
		m.scheduler.AddTask("history_retention", m.config.Interval, m.pruneHistory)
	}
	m.scheduler.Start(ctx)
}

// Stop stops the maintenance tasks
func (m *Maintenance) Stop() {
	m.scheduler.Stop()
}

func (m *Maintenance) pruneGames(ctx context.Context) error {
	_, err := m.games.PruneIdle(ctx, m.config.GameTTL)
	return err
}

func (m *Maintenance) pruneHistory(ctx context.Context) error {
	cutoff := m.now().Add(-m.config.Retention)
	pruned, err := m.history.PruneBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if pruned > 0 {
		m.logger.Info("Pruned %d rounds completed before %s", pruned, cutoff.Format(time.RFC3339))
	}
	return nil
}
