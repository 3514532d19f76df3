package games

import (
	"sort"
	"sync"

	"github.com/fadedpez/relancina/internal/types"
)

// Registry tracks which game is played in which Discord channel. A channel
// holds at most one game.
type Registry struct {
	channels map[string]string
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		channels: make(map[string]string),
	}
}

// Bind attaches gameID to channelID, replacing any previous game
func (r *Registry) Bind(channelID, gameID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.channels[channelID] = gameID
}

// Lookup returns the game played in channelID
func (r *Registry) Lookup(channelID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gameID, exists := r.channels[channelID]
	if !exists {
		return "", types.NewGameError(types.ErrNotFound, "there is no game in this channel, start one with /relancina create")
	}
	return gameID, nil
}

// Unbind forgets the channel's game
func (r *Registry) Unbind(channelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.channels, channelID)
}

// Channels lists the channels with a game, sorted
func (r *Registry) Channels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	channels := make([]string, 0, len(r.channels))
	for id := range r.channels {
		channels = append(channels, id)
	}
	sort.Strings(channels)
	return channels
}
