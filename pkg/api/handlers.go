package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/fadedpez/relancina/internal/types"
	"github.com/fadedpez/relancina/pkg/services/relancina"
)

const defaultHistoryLimit = 20

type createGameRequest struct {
	Players []relancina.PlayerSpec `json:"players"`
}

type playerRequest struct {
	PlayerID string `json:"playerId"`
}

type betRequest struct {
	PlayerID string `json:"playerId"`
	Amount   int64  `json:"amount"`
}

type aceRequest struct {
	PlayerID string `json:"playerId"`
	AceIndex *int   `json:"aceIndex"`
	Value    int    `json:"value"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, "status", "ok")
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.games.ListGames(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "games", games)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	view, err := s.games.CreateGame(r.Context(), req.Players)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, "game", view)
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	view, err := s.games.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "game", view)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := s.games.DeleteGame(r.Context(), r.PathValue("id")); err != nil {
		s.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "", nil)
}

func (s *Server) handlePlaceBet(w http.ResponseWriter, r *http.Request) {
	var req betRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if req.PlayerID == "" {
		s.respondError(w, types.NewGameError(types.ErrValidation, "playerId is required"))
		return
	}
	line, err := s.games.PlaceBet(r.Context(), r.PathValue("id"), req.PlayerID, req.Amount)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "bet", line)
}

func (s *Server) handleGetBets(w http.ResponseWriter, r *http.Request) {
	bets, err := s.games.GetBets(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "bets", bets)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	result, err := s.games.StartGame(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "result", result)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	result, err := s.games.RestartGame(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "result", result)
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	turn, err := s.games.GetCurrentTurn(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "turn", turn)
}

// playerAction adapts a service call that acts for the player named in the body
func (s *Server) playerAction(fn func(ctx context.Context, id, playerID string) (*relancina.ActionResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playerRequest
		if err := decode(r, &req); err != nil {
			s.respondError(w, err)
			return
		}
		if req.PlayerID == "" {
			s.respondError(w, types.NewGameError(types.ErrValidation, "playerId is required"))
			return
		}
		result, err := fn(r.Context(), r.PathValue("id"), req.PlayerID)
		if err != nil {
			s.respondError(w, err)
			return
		}
		respond(w, http.StatusOK, "result", result)
	}
}

func (s *Server) houseAction(fn func(ctx context.Context, id string) (*relancina.ActionResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := fn(r.Context(), r.PathValue("id"))
		if err != nil {
			s.respondError(w, err)
			return
		}
		respond(w, http.StatusOK, "result", result)
	}
}

func (s *Server) handleChooseAce(w http.ResponseWriter, r *http.Request) {
	var req aceRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if req.PlayerID == "" || req.AceIndex == nil {
		s.respondError(w, types.NewGameError(types.ErrValidation, "playerId, aceIndex and value are required"))
		return
	}
	result, err := s.games.ChooseAce(r.Context(), r.PathValue("id"), req.PlayerID, *req.AceIndex, req.Value)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "result", result)
}

func (s *Server) handleHouseChooseAce(w http.ResponseWriter, r *http.Request) {
	var req aceRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if req.AceIndex == nil {
		s.respondError(w, types.NewGameError(types.ErrValidation, "aceIndex and value are required"))
		return
	}
	result, err := s.games.HouseChooseAce(r.Context(), r.PathValue("id"), *req.AceIndex, req.Value)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "result", result)
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	if req.PlayerID == "" {
		s.respondError(w, types.NewGameError(types.ErrValidation, "playerId is required"))
		return
	}
	result, err := s.games.DisconnectPlayer(r.Context(), r.PathValue("id"), req.PlayerID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "result", result)
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	res, err := s.games.ResolveWinners(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "resolution", res)
}

func (s *Server) handlePlayerHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.respondError(w, types.NewGameError(types.ErrResourceExhausted, "round history is not configured"))
		return
	}
	limit, err := queryInt(r, "limit", defaultHistoryLimit)
	if err != nil {
		s.respondError(w, err)
		return
	}
	rounds, err := s.history.GetPlayerResults(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		s.respondError(w, types.WrapError(types.ErrDatabaseError, "failed to load history", err))
		return
	}
	respond(w, http.StatusOK, "rounds", rounds)
}

func (s *Server) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		s.respondError(w, types.NewGameError(types.ErrResourceExhausted, "round history is not configured"))
		return
	}
	stats, err := s.stats.GetPlayerStats(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "stats", stats)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		s.respondError(w, types.NewGameError(types.ErrResourceExhausted, "round history is not configured"))
		return
	}
	page, err := queryInt(r, "page", 1)
	if err != nil {
		s.respondError(w, err)
		return
	}
	perPage, err := queryInt(r, "perPage", 10)
	if err != nil {
		s.respondError(w, err)
		return
	}
	board, err := s.stats.GetLeaderboard(r.Context(), page, perPage)
	if err != nil {
		s.respondError(w, err)
		return
	}
	respond(w, http.StatusOK, "leaderboard", board)
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, types.Errorf(types.ErrValidation, "%s must be a non-negative integer", key)
	}
	return n, nil
}
