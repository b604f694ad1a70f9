// Package selection fills a fixed-size roster from a scored pool under
// budget, position and club constraints.
//
// The selector is a single greedy fold over the pool in rank order. Each
// candidate is offered once to an admission predicate; a rejection is final.
// The result never breaks a constraint but is not guaranteed to maximise the
// total projection.
package selection

import (
	"github.com/okian/fplsquad/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Default constraint values.
const (
	DefaultRosterSize = 15
	DefaultTeamCap    = 3
	rankHorizon       = 1
)

// DefaultBudget is the spending cap, in millions.
var DefaultBudget = decimal.New(1000, -1)

// Reason explains why the predicate turned a candidate away.
type Reason string

// Rejection reasons, checked in this order.
const (
	ReasonRosterFull   Reason = "roster_full"
	ReasonPositionFull Reason = "position_full"
	ReasonOverBudget   Reason = "over_budget"
	ReasonTeamCap      Reason = "team_cap"
)

// Constraints bound a roster.
type Constraints struct {
	Budget  decimal.Decimal
	Size    int
	Quotas  model.Quotas
	TeamCap int
}

// DefaultConstraints returns a 15-player, 100.0 budget, 2/5/5/3 roster with
// at most three players per club.
func DefaultConstraints() Constraints {
	return Constraints{
		Budget:  DefaultBudget,
		Size:    DefaultRosterSize,
		Quotas:  model.DefaultQuotas(),
		TeamCap: DefaultTeamCap,
	}
}

// Result is the outcome of one selection.
type Result struct {
	Size       int
	Roster     []model.ScoredPlayer
	Spend      decimal.Decimal
	Rejections map[Reason]int
	Shortfalls []model.Shortfall
}

// Degraded reports whether the roster is short of its size or any quota.
func (r Result) Degraded() bool {
	return len(r.Roster) < r.Size || len(r.Shortfalls) > 0
}

// state is the fold accumulator.
type state struct {
	c          Constraints
	roster     []model.ScoredPlayer
	spend      decimal.Decimal
	byPosition map[model.Position]int
	byTeam     map[int]int
}

func newState(c Constraints) *state {
	return &state{
		c:          c,
		roster:     make([]model.ScoredPlayer, 0, c.Size),
		spend:      decimal.Zero,
		byPosition: make(map[model.Position]int, len(c.Quotas)),
		byTeam:     make(map[int]int),
	}
}

func (s *state) full() bool {
	return len(s.roster) >= s.c.Size
}

// admit is the admission predicate. It returns the first constraint p would
// break, or "" when p may join the roster.
func (s *state) admit(p model.ScoredPlayer) Reason {
	switch {
	case s.full():
		return ReasonRosterFull
	case s.byPosition[p.Position] >= s.c.Quotas[p.Position]:
		return ReasonPositionFull
	case s.spend.Add(p.Cost).GreaterThan(s.c.Budget):
		return ReasonOverBudget
	case s.byTeam[p.TeamID] >= s.c.TeamCap:
		return ReasonTeamCap
	}
	return ""
}

func (s *state) add(p model.ScoredPlayer) {
	s.roster = append(s.roster, p)
	s.spend = s.spend.Add(p.Cost)
	s.byPosition[p.Position]++
	s.byTeam[p.TeamID]++
}

func (s *state) shortfalls() []model.Shortfall {
	var out []model.Shortfall
	for _, pos := range model.Positions {
		want, ok := s.c.Quotas[pos]
		if !ok {
			continue
		}
		if got := s.byPosition[pos]; got < want {
			out = append(out, model.Shortfall{Position: pos, Required: want, Selected: got})
		}
	}
	return out
}

// Select runs the greedy fold. The pool is ranked by one-period projection
// (descending), then cost and id (ascending). Selection stops as soon as the
// roster is full or the pool is exhausted.
//
// When the pool runs out with quotas unmet the partial roster is returned
// alongside an *InfeasibleError; it is never padded.
func Select(pool []model.ScoredPlayer, c Constraints) (Result, error) {
	st := newState(c)
	rejections := make(map[Reason]int)

	for _, p := range model.SortedBy(pool, rankHorizon) {
		if st.full() {
			break
		}
		if reason := st.admit(p); reason != "" {
			rejections[reason]++
			continue
		}
		st.add(p)
	}

	res := Result{
		Size:       c.Size,
		Roster:     st.roster,
		Spend:      st.spend,
		Rejections: rejections,
		Shortfalls: st.shortfalls(),
	}
	if res.Degraded() {
		return res, &InfeasibleError{Size: c.Size, Selected: len(res.Roster), Shortfalls: res.Shortfalls}
	}
	return res, nil
}
