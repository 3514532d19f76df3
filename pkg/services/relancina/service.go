package relancina

import (
	"context"
	"math/rand"
	"time"

	"github.com/fadedpez/relancina/internal/logging"
	"github.com/fadedpez/relancina/pkg/repositories/game"
)

// Service runs Relancina operations against games in a Store. Every call takes
// the game's lock, so concurrent requests on one game are applied one at a time.
type Service struct {
	store   Store
	history game.Repository
	logger  *logging.Logger
	newRand func() *rand.Rand
	now     func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithHistory records every settled round in repo
func WithHistory(repo game.Repository) Option {
	return func(s *Service) {
		s.history = repo
	}
}

// WithLogger replaces the default logger
func WithLogger(logger *logging.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRandSource sets the shuffle source given to each new game
func WithRandSource(fn func() *rand.Rand) Option {
	return func(s *Service) {
		s.newRand = fn
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a service over store
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: logging.Default,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateGame seats a new table of 3 to 5 players
func (s *Service) CreateGame(ctx context.Context, roster []PlayerSpec) (*GameView, error) {
	g, err := NewGame(roster, s.newRand())
	if err != nil {
		return nil, err
	}
	g.now = s.now
	g.CreatedAt = s.now()
	g.UpdatedAt = g.CreatedAt

	if err := s.store.Put(ctx, g); err != nil {
		return nil, err
	}
	s.logger.Info("Created game %s with %d players", g.ID, len(g.Players))
	return g.View(), nil
}

// ListGames summarizes every live game
func (s *Service) ListGames(ctx context.Context) ([]GameSummary, error) {
	games, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]GameSummary, 0, len(games))
	for _, g := range games {
		g.mu.Lock()
		out = append(out, g.Summary())
		g.mu.Unlock()
	}
	return out, nil
}

// GetGame snapshots a game
func (s *Service) GetGame(ctx context.Context, id string) (*GameView, error) {
	var view *GameView
	err := s.read(ctx, id, func(g *Game) error {
		view = g.View()
		return nil
	})
	return view, err
}

// GetCurrentTurn reports whose move it is
func (s *Service) GetCurrentTurn(ctx context.Context, id string) (*TurnView, error) {
	var view *TurnView
	err := s.read(ctx, id, func(g *Game) error {
		view = g.Turn()
		return nil
	})
	return view, err
}

// GetBets summarizes the wagers for the coming round
func (s *Service) GetBets(ctx context.Context, id string) (*BetsSummary, error) {
	var summary *BetsSummary
	err := s.read(ctx, id, func(g *Game) error {
		summary = g.Bets()
		return nil
	})
	return summary, err
}

// PlaceBet records a player's wager
func (s *Service) PlaceBet(ctx context.Context, id, playerID string, amount int64) (*BetLine, error) {
	var line *BetLine
	err := s.mutate(ctx, id, "bet", func(g *Game) (err error) {
		line, err = g.PlaceBet(playerID, amount)
		return err
	})
	return line, err
}

// StartGame deals a round
func (s *Service) StartGame(ctx context.Context, id string) (*StartResult, error) {
	var result *StartResult
	err := s.mutate(ctx, id, "start", func(g *Game) (err error) {
		result, err = g.Start()
		return err
	})
	return result, err
}

// RestartGame resets a finished game for another round
func (s *Service) RestartGame(ctx context.Context, id string) (*StartResult, error) {
	var result *StartResult
	err := s.mutate(ctx, id, "restart", func(g *Game) (err error) {
		result, err = g.Restart()
		return err
	})
	return result, err
}

// Hit draws a card for the player whose turn it is
func (s *Service) Hit(ctx context.Context, id, playerID string) (*ActionResult, error) {
	return s.action(ctx, id, "hit", func(g *Game) (*ActionResult, error) {
		return g.Hit(playerID)
	})
}

// Stand ends the player's turn
func (s *Service) Stand(ctx context.Context, id, playerID string) (*ActionResult, error) {
	return s.action(ctx, id, "stand", func(g *Game) (*ActionResult, error) {
		return g.Stand(playerID)
	})
}

// ChangeHand swaps a two-card 12
func (s *Service) ChangeHand(ctx context.Context, id, playerID string) (*ActionResult, error) {
	return s.action(ctx, id, "change-hand", func(g *Game) (*ActionResult, error) {
		return g.ChangeHand(playerID)
	})
}

// ChooseAce fixes one of the player's Aces at 1 or 11
func (s *Service) ChooseAce(ctx context.Context, id, playerID string, aceIndex, value int) (*ActionResult, error) {
	return s.action(ctx, id, "choose-ace", func(g *Game) (*ActionResult, error) {
		return g.ChooseAce(playerID, aceIndex, value)
	})
}

// HouseHit draws a card for the house
func (s *Service) HouseHit(ctx context.Context, id string) (*ActionResult, error) {
	return s.action(ctx, id, "house-hit", func(g *Game) (*ActionResult, error) {
		return g.HouseHit()
	})
}

// HouseStand ends the round
func (s *Service) HouseStand(ctx context.Context, id string) (*ActionResult, error) {
	return s.action(ctx, id, "house-stand", func(g *Game) (*ActionResult, error) {
		return g.HouseStand()
	})
}

// HouseChooseAce fixes one of the house's Aces
func (s *Service) HouseChooseAce(ctx context.Context, id string, aceIndex, value int) (*ActionResult, error) {
	return s.action(ctx, id, "house-choose-ace", func(g *Game) (*ActionResult, error) {
		return g.HouseChooseAce(aceIndex, value)
	})
}

// DisconnectPlayer takes a player out of the game
func (s *Service) DisconnectPlayer(ctx context.Context, id, playerID string) (*DisconnectResult, error) {
	var result *DisconnectResult
	err := s.mutate(ctx, id, "disconnect", func(g *Game) (err error) {
		result, err = g.Disconnect(playerID)
		return err
	})
	return result, err
}

// ResolveWinners returns the settlement of a finished round
func (s *Service) ResolveWinners(ctx context.Context, id string) (*Resolution, error) {
	var res *Resolution
	err := s.mutate(ctx, id, "resolve", func(g *Game) (err error) {
		res, err = g.ResolveWinners()
		return err
	})
	return res, err
}

// DeleteGame drops a game from the store
func (s *Service) DeleteGame(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Deleted game %s", id)
	return nil
}

// PruneIdle deletes games nobody has touched for maxIdle and returns how many went
func (s *Service) PruneIdle(ctx context.Context, maxIdle time.Duration) (int, error) {
	games, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-maxIdle)
	pruned := 0
	for _, g := range games {
		g.mu.Lock()
		idle := g.UpdatedAt.Before(cutoff)
		id := g.ID
		g.mu.Unlock()
		if !idle {
			continue
		}
		if err := s.store.Delete(ctx, id); err != nil {
			return pruned, err
		}
		pruned++
	}
	if pruned > 0 {
		s.logger.Info("Pruned %d idle games", pruned)
	}
	return pruned, nil
}

func (s *Service) action(ctx context.Context, id, op string, fn func(g *Game) (*ActionResult, error)) (*ActionResult, error) {
	var result *ActionResult
	err := s.mutate(ctx, id, op, func(g *Game) (err error) {
		result, err = fn(g)
		return err
	})
	return result, err
}

// read runs fn under the game's lock without touching UpdatedAt
func (s *Service) read(ctx context.Context, id string, fn func(g *Game) error) error {
	g, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g)
}

// mutate runs fn under the game's lock, then logs state changes and records
// any newly settled round.
func (s *Service) mutate(ctx context.Context, id, op string, fn func(g *Game) error) error {
	g, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	// a round whose history write failed earlier gets another attempt before
	// a restart can clear it
	s.recordRound(ctx, g)

	before := g.State
	if err := fn(g); err != nil {
		s.logger.Debug("game %s: %s rejected: %v", id, op, err)
		return err
	}
	g.UpdatedAt = s.now()

	if g.State != before {
		s.logger.Info("game %s: %s moved %s -> %s", id, op, before, g.State)
	}
	s.recordRound(ctx, g)

	return s.store.Put(ctx, g)
}

// recordRound writes a settled round to history once. History is an audit
// trail, so failures are logged and the game operation still succeeds.
func (s *Service) recordRound(ctx context.Context, g *Game) {
	if g.Resolution == nil || g.recorded {
		return
	}
	res := g.Resolution
	s.logger.Info("game %s round %d settled (%s): %d won, %d lost, %d tied, %d refunded, house net %d",
		g.ID, res.Round, res.Reason, res.Winners, res.Losers, res.Ties, res.Refunds, res.House.Net)

	if s.history == nil {
		g.recorded = true
		return
	}
	if err := s.history.SaveRoundResult(ctx, RoundResultFrom(res, g.Ledger)); err != nil {
		s.logger.LogError(err)
		return
	}
	g.recorded = true
}
