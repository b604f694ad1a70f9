package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/okian/fplsquad/internal/domain/model"
	"github.com/okian/fplsquad/internal/domain/selection"
	"github.com/okian/fplsquad/internal/domain/types"
)

// planResponse is the table view of a plan.
type planResponse struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Period      int       `json:"period"`
	Budget      string    `json:"budget"`
	Spend       string    `json:"spend"`
	PoolSize    int       `json:"pool_size"`
	Degraded    bool      `json:"degraded"`

	Roster    []types.PlayerRow         `json:"roster"`
	Active    []types.PlayerRow         `json:"active,omitempty"`
	Reserves  []types.PlayerRow         `json:"reserves,omitempty"`
	Primary   string                    `json:"primary,omitempty"`
	Secondary string                    `json:"secondary,omitempty"`
	Outlook   map[int][]types.PlayerRow `json:"outlook,omitempty"`

	Shortfalls []string          `json:"shortfalls,omitempty"`
	Exclusions []model.Exclusion `json:"exclusions,omitempty"`
	Rejections map[string]int    `json:"rejections,omitempty"`
}

func newPlanResponse(p *model.Plan) planResponse {
	resp := planResponse{
		RunID:       p.RunID,
		GeneratedAt: p.GeneratedAt,
		Period:      p.Period,
		Budget:      p.Budget.StringFixed(1),
		Spend:       p.Spend.StringFixed(1),
		PoolSize:    p.PoolSize,
		Degraded:    p.Degraded,
		Roster:      types.Rows(p.Roster, 1, p.RoleOf),
		Exclusions:  p.Exclusions,
		Rejections:  p.Rejections,
	}
	if p.Lineup != nil {
		resp.Active = types.Rows(p.Lineup.Active, 1, p.RoleOf)
		resp.Reserves = types.Rows(p.Lineup.Reserves, 1, nil)
	}
	if p.Roles != nil {
		resp.Primary = p.Roles.Primary.Name
		resp.Secondary = p.Roles.Secondary.Name
	}
	if len(p.Outlook) > 0 {
		resp.Outlook = make(map[int][]types.PlayerRow, len(p.Outlook))
		for h, players := range p.Outlook {
			resp.Outlook[h] = types.Rows(players, h, nil)
		}
	}
	for _, sf := range p.Shortfalls {
		resp.Shortfalls = append(resp.Shortfalls, sf.String())
	}
	return resp
}

// PlanHandler serves the latest plan and triggers refreshes.
type PlanHandler struct {
	deps Dependencies
}

// NewPlanHandler creates a new plan handler.
func NewPlanHandler(deps Dependencies) *PlanHandler {
	return &PlanHandler{deps: deps}
}

// HandleGetPlan handles GET /plan requests.
func (h *PlanHandler) HandleGetPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	p, err := h.deps.Latest()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlanResponse(p))
}

// HandleRefresh handles POST /refresh requests. A degraded plan is still a
// successful refresh and is returned with degraded set.
func (h *PlanHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	p, err := h.deps.Refresh(r.Context())
	if err != nil && !(errors.Is(err, selection.ErrConstraintInfeasible) && p != nil) {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlanResponse(p))
}
