package relancina

import (
	"context"
	"sort"
	"sync"

	"github.com/fadedpez/relancina/internal/types"
)

// Store holds the live games of the process
type Store interface {
	Get(ctx context.Context, id string) (*Game, error)
	Put(ctx context.Context, game *Game) error
	List(ctx context.Context) ([]*Game, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps games in a map. Games are lost when the process exits.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]*Game
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games: make(map[string]*Game),
	}
}

// Get returns the game with the given id
func (s *MemoryStore) Get(ctx context.Context, id string) (*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, exists := s.games[id]
	if !exists {
		return nil, types.Errorf(types.ErrNotFound, "game %s not found", id)
	}
	return g, nil
}

// Put stores a game, replacing any game with the same id
func (s *MemoryStore) Put(ctx context.Context, game *Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.games[game.ID] = game
	return nil
}

// List returns every game, oldest first
func (s *MemoryStore) List(ctx context.Context) ([]*Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make([]*Game, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, g)
	}
	sort.Slice(games, func(i, j int) bool {
		return games[i].CreatedAt.Before(games[j].CreatedAt)
	})
	return games, nil
}

// Delete removes a game
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[id]; !exists {
		return types.Errorf(types.ErrNotFound, "game %s not found", id)
	}
	delete(s.games, id)
	return nil
}
