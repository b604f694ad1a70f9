package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/fplsquad/internal/domain/model"
)

type playerHit struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Team     string `json:"team"`
	Position string `json:"position"`
	Cost     string `json:"cost"`
}

// PlayersHandler handles player lookups.
type PlayersHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps Dependencies, maxLimit int) *PlayersHandler {
	return &PlayersHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleSearch handles GET /players?q=NAME&limit=N requests.
func (h *PlayersHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: missing q", ErrBadRequest))
		return
	}
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit %q", ErrBadRequest, s))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: max %d", ErrLimitExceeded, h.maxLimit))
			return
		}
		limit = n
	}

	found, err := h.deps.SearchPlayers(r.Context(), q, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hits(found))
}

func hits(entries []model.RosterEntry) []playerHit {
	out := make([]playerHit, 0, len(entries))
	for _, e := range entries {
		out = append(out, playerHit{
			ID:       e.ID,
			Name:     e.Name,
			Team:     e.Team,
			Position: e.Position.String(),
			Cost:     e.Cost.StringFixed(1),
		})
	}
	return out
}
