// Package projection turns form and fixture signals into projected scores
// per player and horizon.
package projection

import (
	"fmt"
	"sort"

	"github.com/okian/fplsquad/internal/domain/model"
)

// Signal selects which per-period scoring rate feeds the projection.
type Signal string

// Supported signals.
const (
	SignalForm          Signal = "form"
	SignalPointsPerGame Signal = "points_per_game"
)

// Rate returns the scoring rate of p for signal s.
func (s Signal) Rate(p model.Player) float64 {
	if s == SignalPointsPerGame {
		return p.PointsPerGame
	}
	return p.Form
}

// ParseSignal validates a configured signal name.
func ParseSignal(s string) (Signal, error) {
	switch Signal(s) {
	case SignalForm, SignalPointsPerGame:
		return Signal(s), nil
	case "":
		return SignalForm, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSignal, s)
}

// Kind names a Projector implementation.
type Kind string

// Supported projector kinds.
const (
	KindLinear     Kind = "linear"
	KindFixtureRun Kind = "fixture_run"
)

// ParseKind validates a configured projection model name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindLinear, KindFixtureRun:
		return Kind(s), nil
	case "":
		return KindLinear, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownModel, s)
}

// Projector computes the expected score of a team's player with the given
// per-period rate over a horizon of h periods.
type Projector interface {
	Project(rate float64, teamID, h int) float64
}

// New builds the projector named by kind, anchored at period.
func New(kind Kind, d *Difficulty, period int) (Projector, error) {
	switch kind {
	case KindLinear, "":
		return NewLinear(d, period), nil
	case KindFixtureRun:
		return NewFixtureRun(d, period), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownModel, kind)
}

// Linear scales the next period's projection linearly with the horizon.
type Linear struct {
	difficulty *Difficulty
	period     int
}

// NewLinear returns a Linear projector for period.
func NewLinear(d *Difficulty, period int) *Linear {
	return &Linear{difficulty: d, period: period}
}

// Project implements Projector.
func (l *Linear) Project(rate float64, teamID, h int) float64 {
	base := rate * Factor(l.difficulty.Rating(teamID, l.period))
	return base * float64(h)
}

// FixtureRun sums one period's projection for each period in the horizon,
// using that period's own difficulty.
type FixtureRun struct {
	difficulty *Difficulty
	period     int
}

// NewFixtureRun returns a FixtureRun projector starting at period.
func NewFixtureRun(d *Difficulty, period int) *FixtureRun {
	return &FixtureRun{difficulty: d, period: period}
}

// Project implements Projector.
func (f *FixtureRun) Project(rate float64, teamID, h int) float64 {
	var total float64
	for i := 0; i < h; i++ {
		total += rate * Factor(f.difficulty.Rating(teamID, f.period+i))
	}
	return total
}

// Option configures an Engine.
type Option func(*Engine)

// WithSignal selects the scoring rate.
func WithSignal(s Signal) Option {
	return func(e *Engine) {
		if s != "" {
			e.signal = s
		}
	}
}

// WithHorizons sets the horizons to project. Duplicates and non-positive
// values are dropped.
func WithHorizons(hs ...int) Option {
	return func(e *Engine) {
		set := make(map[int]struct{}, len(hs))
		out := make([]int, 0, len(hs))
		for _, h := range hs {
			if _, dup := set[h]; h <= 0 || dup {
				continue
			}
			set[h] = struct{}{}
			out = append(out, h)
		}
		if len(out) > 0 {
			sort.Ints(out)
			e.horizons = out
		}
	}
}

// WithAvoid removes the given player ids from every scored pool.
func WithAvoid(ids ...int) Option {
	return func(e *Engine) {
		for _, id := range ids {
			e.avoid[id] = struct{}{}
		}
	}
}

// Engine scores a player pool.
type Engine struct {
	projector Projector
	signal    Signal
	horizons  []int
	avoid     map[int]struct{}
}

// DefaultHorizons are projected when WithHorizons is not given.
var DefaultHorizons = []int{1, 5, 10}

// NewEngine returns an Engine using projector.
func NewEngine(projector Projector, opts ...Option) *Engine {
	e := &Engine{
		projector: projector,
		signal:    SignalForm,
		horizons:  append([]int(nil), DefaultHorizons...),
		avoid:     make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Horizons returns the projected horizons in ascending order.
func (e *Engine) Horizons() []int {
	return append([]int(nil), e.horizons...)
}

// Score projects every eligible player. Avoid-listed players and players
// missing a required field are left out of the pool and reported as
// exclusions, in input order. teamName resolves club display names.
func (e *Engine) Score(players []model.Player, teamName func(int) string) ([]model.ScoredPlayer, []model.Exclusion) {
	pool := make([]model.ScoredPlayer, 0, len(players))
	var excluded []model.Exclusion

	for _, p := range players {
		if _, ok := e.avoid[p.ID]; ok {
			excluded = append(excluded, model.Exclusion{PlayerID: p.ID, Name: p.Name, Reason: model.ReasonAvoidList})
			continue
		}
		if err := p.Validate(); err != nil {
			ex := model.Exclusion{PlayerID: p.ID, Name: p.Name, Reason: model.ReasonMissingField}
			if fe, ok := err.(*model.FieldError); ok {
				ex.Field = fe.Field
			}
			excluded = append(excluded, ex)
			continue
		}

		rate := e.signal.Rate(p)
		proj := make(map[int]float64, len(e.horizons))
		for _, h := range e.horizons {
			proj[h] = e.projector.Project(rate, p.TeamID, h)
		}
		sp := model.ScoredPlayer{Player: p, Projections: proj}
		if teamName != nil {
			sp.TeamName = teamName(p.TeamID)
		}
		pool = append(pool, sp)
	}
	return pool, excluded
}
