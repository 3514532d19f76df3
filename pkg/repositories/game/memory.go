package game

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fadedpez/relancina/pkg/entities"
)

// MemoryRepository implements Repository interface with in-memory storage
type MemoryRepository struct {
	mu sync.RWMutex
	// every round, in save order
	results []*entities.RoundResult
	// Map of gameID to rounds
	gameResults map[string][]*entities.RoundResult
	// Map of playerID to rounds, house rounds included
	playerResults map[string][]*entities.RoundResult
}

// NewMemoryRepository creates a new in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		gameResults:   make(map[string][]*entities.RoundResult),
		playerResults: make(map[string][]*entities.RoundResult),
	}
}

// SaveRoundResult stores a round and indexes it by game and by player
func (r *MemoryRepository) SaveRoundResult(ctx context.Context, result *entities.RoundResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results = append(r.results, result)
	r.index(result)
	return nil
}

// index files a round under its game and every player at the table
func (r *MemoryRepository) index(result *entities.RoundResult) {
	r.gameResults[result.GameID] = append(r.gameResults[result.GameID], result)

	seen := make(map[string]bool, len(result.Players)+1)
	add := func(playerID string) {
		if playerID == "" || seen[playerID] {
			return
		}
		seen[playerID] = true
		r.playerResults[playerID] = append(r.playerResults[playerID], result)
	}
	add(result.HouseID)
	for _, pr := range result.Players {
		add(pr.PlayerID)
	}
}

// GetPlayerResults retrieves a player's rounds, newest first
func (r *MemoryRepository) GetPlayerResults(ctx context.Context, playerID string, limit int) ([]*entities.RoundResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.playerResults[playerID]
	results := make([]*entities.RoundResult, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		results = append(results, stored[i])
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CompletedAt.After(results[j].CompletedAt)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// GetGameResults retrieves every round of a game in round order
func (r *MemoryRepository) GetGameResults(ctx context.Context, gameID string) ([]*entities.RoundResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := append([]*entities.RoundResult{}, r.gameResults[gameID]...)
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Round < results[j].Round
	})
	return results, nil
}

// ListPlayerIDs returns every player with history, sorted
func (r *MemoryRepository) ListPlayerIDs(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.playerResults))
	for id := range r.playerResults {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// PruneBefore drops rounds completed before cutoff and rebuilds the indexes
func (r *MemoryRepository) PruneBefore(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.results[:0]
	for _, result := range r.results {
		if !result.CompletedAt.Before(cutoff) {
			kept = append(kept, result)
		}
	}
	pruned := len(r.results) - len(kept)
	r.results = kept

	r.gameResults = make(map[string][]*entities.RoundResult)
	r.playerResults = make(map[string][]*entities.RoundResult)
	for _, result := range r.results {
		r.index(result)
	}
	return pruned, nil
}

// Close is a no-op for memory repository since there are no resources to close
func (r *MemoryRepository) Close() error {
	return nil
}
