package entities

import "fmt"

// GameState is the phase of a Relancina game
type GameState string

const (
	StateWaiting   GameState = "WAITING"
	StatePlaying   GameState = "PLAYING"
	StateHouseTurn GameState = "HOUSE_TURN"
	StateFinished  GameState = "FINISHED"
)

// gameTransitions lists the legal next states for each state.
// WAITING and PLAYING may jump straight to FINISHED when the table empties or the house leaves.
var gameTransitions = map[GameState][]GameState{
	StateWaiting:   {StatePlaying, StateFinished},
	StatePlaying:   {StateHouseTurn, StateFinished},
	StateHouseTurn: {StateFinished},
	StateFinished:  {StateWaiting},
}

// Valid reports whether s is a known state
func (s GameState) Valid() bool {
	_, ok := gameTransitions[s]
	return ok
}

// CanTransition reports whether the state machine allows s -> next
func (s GameState) CanTransition(next GameState) bool {
	for _, allowed := range gameTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition validates s -> next and returns next
func (s GameState) Transition(next GameState) (GameState, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("cannot move from %s to %s", s, next)
	}
	return next, nil
}

// PlayerStatus is a player's standing within the current round
type PlayerStatus string

const (
	StatusActive       PlayerStatus = "ACTIVE"
	StatusStand        PlayerStatus = "STAND"
	StatusBust         PlayerStatus = "BUST"
	StatusDisconnected PlayerStatus = "DISCONNECTED"
	StatusSpectator    PlayerStatus = "SPECTATOR"
)

// Done reports whether a player in this status has finished acting this round
func (s PlayerStatus) Done() bool {
	return s == StatusStand || s == StatusBust
}

// Outcome is a non-house player's result against the house
type Outcome string

const (
	OutcomeWin  Outcome = "WIN"
	OutcomeLose Outcome = "LOSE"
	OutcomeTie  Outcome = "TIE"
	// OutcomeRefund marks a bet returned because the round was abandoned
	OutcomeRefund Outcome = "REFUND"
)

// IsWin returns true if this outcome pays the player
func (o Outcome) IsWin() bool {
	return o == OutcomeWin
}

// FinishReason records how a round reached FINISHED
type FinishReason string

const (
	FinishResolved          FinishReason = "RESOLVED"
	FinishHouseDisconnected FinishReason = "HOUSE_DISCONNECTED"
	FinishNotEnoughPlayers  FinishReason = "NOT_ENOUGH_PLAYERS"
)
