// Package planner runs the full roster pipeline over one snapshot:
// projection, selection, lineup split and role assignment. It performs no
// I/O and never reads the clock; callers stamp run ids and times.
package planner

import (
	"errors"
	"fmt"

	"github.com/okian/fplsquad/internal/domain/lineup"
	"github.com/okian/fplsquad/internal/domain/model"
	"github.com/okian/fplsquad/internal/domain/projection"
	"github.com/okian/fplsquad/internal/domain/roles"
	"github.com/okian/fplsquad/internal/domain/selection"
	"github.com/okian/fplsquad/internal/domain/transfer"
	"github.com/shopspring/decimal"
)

// DefaultOutlookSize is the number of rows in each horizon outlook table.
const DefaultOutlookSize = 15

// ErrInvalidSettings is returned by New for unusable settings.
var ErrInvalidSettings = errors.New("invalid planner settings")

// Settings is the configuration surface the pipeline recognises.
type Settings struct {
	Budget      decimal.Decimal
	RosterSize  int
	Quotas      model.Quotas
	TeamCap     int
	Formation   string
	Avoid       []int
	Horizons    []int
	Signal      projection.Signal
	Model       projection.Kind
	Period      int // 0 picks the snapshot's next period
	OutlookSize int
}

// DefaultSettings returns the standard game rules.
func DefaultSettings() Settings {
	return Settings{
		Budget:      selection.DefaultBudget,
		RosterSize:  selection.DefaultRosterSize,
		Quotas:      model.DefaultQuotas(),
		TeamCap:     selection.DefaultTeamCap,
		Formation:   lineup.DefaultFormation,
		Horizons:    append([]int(nil), projection.DefaultHorizons...),
		Signal:      projection.SignalForm,
		Model:       projection.KindLinear,
		OutlookSize: DefaultOutlookSize,
	}
}

// Validate checks settings independently of any snapshot. Formation
// problems wrap lineup.ErrInvalidFormation; everything else wraps
// ErrInvalidSettings.
func (s Settings) Validate() error {
	if s.Budget.Sign() <= 0 {
		return fmt.Errorf("%w: budget must be positive", ErrInvalidSettings)
	}
	if s.RosterSize <= 0 {
		return fmt.Errorf("%w: roster size must be positive", ErrInvalidSettings)
	}
	if total := s.Quotas.Total(); total != s.RosterSize {
		return fmt.Errorf("%w: quotas %s sum to %d, roster size is %d", ErrInvalidSettings, s.Quotas, total, s.RosterSize)
	}
	if s.TeamCap <= 0 {
		return fmt.Errorf("%w: team cap must be positive", ErrInvalidSettings)
	}
	if !contains(s.Horizons, 1) {
		return fmt.Errorf("%w: horizons %v must include 1", ErrInvalidSettings, s.Horizons)
	}
	for _, h := range s.Horizons {
		if h <= 0 {
			return fmt.Errorf("%w: horizon %d must be positive", ErrInvalidSettings, h)
		}
	}
	if _, err := projection.ParseSignal(string(s.Signal)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if _, err := projection.ParseKind(string(s.Model)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if s.Period < 0 {
		return fmt.Errorf("%w: period must not be negative", ErrInvalidSettings)
	}
	_, err := lineup.NewSplitter(s.Formation, s.Quotas)
	return err
}

func (s Settings) constraints() selection.Constraints {
	return selection.Constraints{
		Budget:  s.Budget,
		Size:    s.RosterSize,
		Quotas:  s.Quotas.Clone(),
		TeamCap: s.TeamCap,
	}
}

// Planner is safe for concurrent use; it holds only validated settings.
type Planner struct {
	settings Settings
	splitter *lineup.Splitter
}

// New validates settings, failing fast on a formation that does not fit the
// quotas, before any selection work.
func New(s Settings) (*Planner, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	splitter, err := lineup.NewSplitter(s.Formation, s.Quotas)
	if err != nil {
		return nil, err
	}
	if s.OutlookSize <= 0 {
		s.OutlookSize = DefaultOutlookSize
	}
	s.Signal, _ = projection.ParseSignal(string(s.Signal))
	s.Model, _ = projection.ParseKind(string(s.Model))
	s.Quotas = s.Quotas.Clone()
	s.Avoid = append([]int(nil), s.Avoid...)
	s.Horizons = append([]int(nil), s.Horizons...)
	return &Planner{settings: s, splitter: splitter}, nil
}

// Settings returns a copy of the planner's settings.
func (p *Planner) Settings() Settings {
	s := p.settings
	s.Quotas = s.Quotas.Clone()
	s.Avoid = append([]int(nil), s.Avoid...)
	s.Horizons = append([]int(nil), s.Horizons...)
	return s
}

// Plan runs the pipeline over snap.
//
// When the roster cannot meet its quotas the returned plan is still
// populated, marked Degraded with its shortfalls, and has no lineup or
// roles; the error then wraps selection.ErrConstraintInfeasible.
func (p *Planner) Plan(snap *model.Snapshot) (model.Plan, error) {
	if snap == nil {
		return model.Plan{}, fmt.Errorf("%w: nil snapshot", ErrInvalidSettings)
	}
	period := p.settings.Period
	if period == 0 {
		period = snap.NextPeriod
	}

	projector, err := projection.New(p.settings.Model, projection.NewDifficulty(snap.Fixtures), period)
	if err != nil {
		return model.Plan{}, err
	}
	engine := projection.NewEngine(projector,
		projection.WithSignal(p.settings.Signal),
		projection.WithHorizons(p.settings.Horizons...),
		projection.WithAvoid(p.settings.Avoid...),
	)
	pool, excluded := engine.Score(snap.Players, snap.TeamName)

	res, selErr := selection.Select(pool, p.settings.constraints())

	plan := model.Plan{
		Period:     period,
		Budget:     p.settings.Budget,
		Spend:      res.Spend,
		PoolSize:   len(pool),
		Roster:     res.Roster,
		Outlook:    p.outlook(pool, engine.Horizons()),
		Shortfalls: res.Shortfalls,
		Exclusions: excluded,
		Rejections: make(map[string]int, len(res.Rejections)),
	}
	for reason, n := range res.Rejections {
		plan.Rejections[string(reason)] = n
	}

	if selErr != nil {
		plan.Degraded = true
		return plan, selErr
	}

	l, err := p.splitter.Split(res.Roster)
	if err != nil {
		return plan, err
	}
	r, err := roles.Assign(l.Active)
	if err != nil {
		return plan, err
	}
	plan.Lineup = &l
	plan.Roles = &r
	return plan, nil
}

// outlook ranks the unconstrained pool by every horizon other than one.
func (p *Planner) outlook(pool []model.ScoredPlayer, horizons []int) map[int][]model.ScoredPlayer {
	out := make(map[int][]model.ScoredPlayer)
	for _, h := range horizons {
		if h == 1 {
			continue
		}
		ranked := model.SortedBy(pool, h)
		if len(ranked) > p.settings.OutlookSize {
			ranked = ranked[:p.settings.OutlookSize]
		}
		out[h] = ranked
	}
	return out
}

// Transfers compares prior with the plan's roster.
func Transfers(prior []model.RosterEntry, plan model.Plan) ([]model.Recommendation, error) {
	return transfer.Diff(prior, model.Entries(plan.Roster))
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
