package api

import (
	"net/http"
	"time"

	"github.com/fadedpez/relancina/internal/logging"
	"github.com/fadedpez/relancina/pkg/repositories/game"
	"github.com/fadedpez/relancina/pkg/services/relancina"
	"github.com/fadedpez/relancina/pkg/services/statistics"
)

// Server exposes the game service as a JSON API
type Server struct {
	games   *relancina.Service
	stats   *statistics.Service
	history game.Repository
	logger  *logging.Logger
}

// NewServer wires the handlers. stats and history may be nil, in which case
// the player routes answer 503.
func NewServer(games *relancina.Service, stats *statistics.Service, history game.Repository, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Default
	}
	return &Server{
		games:   games,
		stats:   stats,
		history: history,
		logger:  logger,
	}
}

// Handler builds the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/games", s.handleListGames)
	mux.HandleFunc("POST /api/games/create", s.handleCreateGame)
	mux.HandleFunc("GET /api/games/{id}", s.handleGetGame)
	mux.HandleFunc("POST /api/games/{id}/bet", s.handlePlaceBet)
	mux.HandleFunc("GET /api/games/{id}/bets", s.handleGetBets)
	mux.HandleFunc("POST /api/games/{id}/start", s.handleStart)
	mux.HandleFunc("POST /api/games/{id}/restart", s.handleRestart)
	mux.HandleFunc("GET /api/games/{id}/turn", s.handleTurn)
	mux.HandleFunc("POST /api/games/{id}/hit", s.playerAction(s.games.Hit))
	mux.HandleFunc("POST /api/games/{id}/stand", s.playerAction(s.games.Stand))
	mux.HandleFunc("POST /api/games/{id}/change-hand", s.playerAction(s.games.ChangeHand))
	mux.HandleFunc("POST /api/games/{id}/choose-ace", s.handleChooseAce)
	mux.HandleFunc("POST /api/games/{id}/disconnect", s.handleDisconnect)
	mux.HandleFunc("POST /api/games/{id}/house/hit", s.houseAction(s.games.HouseHit))
	mux.HandleFunc("POST /api/games/{id}/house/stand", s.houseAction(s.games.HouseStand))
	mux.HandleFunc("POST /api/games/{id}/house/choose-ace", s.handleHouseChooseAce)
	mux.HandleFunc("POST /api/games/{id}/resolve", s.handleResolve)
	mux.HandleFunc("DELETE /api/games/{id}", s.handleDeleteGame)

	mux.HandleFunc("GET /api/players/{id}/history", s.handlePlayerHistory)
	mux.HandleFunc("GET /api/players/{id}/stats", s.handlePlayerStats)
	mux.HandleFunc("GET /api/leaderboard", s.handleLeaderboard)

	return s.logRequests(mux)
}

// statusRecorder remembers the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
