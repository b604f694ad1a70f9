// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/fplsquad/internal/adapters/repository"
	"github.com/okian/fplsquad/internal/adapters/source"
	service "github.com/okian/fplsquad/internal/app"
	"github.com/okian/fplsquad/internal/domain/model"
)

// DefaultMaxSearchLimit caps GET /players?limit when none is configured.
const DefaultMaxSearchLimit = 50

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Latest returns the most recently published plan.
	Latest() (*model.Plan, error)
	// Refresh runs the pipeline now. A degraded plan comes back together
	// with its infeasibility error.
	Refresh(ctx context.Context) (*model.Plan, error)

	Transfers(ctx context.Context, prior []model.RosterEntry) ([]model.Recommendation, error)
	SaveHistory(ctx context.Context) (string, error)
	SearchPlayers(ctx context.Context, q string, limit int) ([]model.RosterEntry, error)
}

// Server wires HTTP routes for the planner API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	planHandler      *PlanHandler
	transfersHandler *TransfersHandler
	playersHandler   *PlayersHandler
}

// NewServer creates a new API server with all handlers. maxSearchLimit
// bounds GET /players; zero selects DefaultMaxSearchLimit.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxSearchLimit int) *Server {
	if maxSearchLimit <= 0 {
		maxSearchLimit = DefaultMaxSearchLimit
	}
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		planHandler:      NewPlanHandler(deps),
		transfersHandler: NewTransfersHandler(deps),
		playersHandler:   NewPlayersHandler(deps, maxSearchLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/plan", MetricsMiddleware(s.planHandler.HandleGetPlan, "plan"))
	mux.HandleFunc("/refresh", MetricsMiddleware(s.planHandler.HandleRefresh, "refresh"))
	mux.HandleFunc("/transfers", MetricsMiddleware(s.transfersHandler.HandleTransfers, "transfers"))
	mux.HandleFunc("/history", MetricsMiddleware(s.transfersHandler.HandleSaveHistory, "history"))
	mux.HandleFunc("/players", MetricsMiddleware(s.playersHandler.HandleSearch, "players"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates domain and adapter errors to HTTP codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoPlan):
		writeError(w, http.StatusServiceUnavailable, "no_plan", err)
	case errors.Is(err, source.ErrUpstreamUnavailable):
		writeError(w, http.StatusBadGateway, "upstream_unavailable", err)
	case errors.Is(err, model.ErrIdentityCollision):
		writeError(w, http.StatusUnprocessableEntity, "identity_collision", err)
	case errors.Is(err, repository.ErrInvalidRoster), errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "no_history", err)
	case errors.Is(err, service.ErrNoLedger):
		writeError(w, http.StatusConflict, "history_disabled", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
