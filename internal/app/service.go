// Package service wires the snapshot source, the planner and the history
// ledger together and implements the dependencies required by the HTTP API
// and the command line tool.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/okian/fplsquad/internal/adapters/repository"
	"github.com/okian/fplsquad/internal/adapters/source"
	"github.com/okian/fplsquad/internal/domain/model"
	"github.com/okian/fplsquad/internal/domain/planner"
	"github.com/okian/fplsquad/internal/domain/selection"
	"github.com/okian/fplsquad/pkg/logger"
	"github.com/okian/fplsquad/pkg/metrics"
)

// DefaultSearchLimit caps SearchPlayers when the caller passes no limit.
const DefaultSearchLimit = 10

// Service runs the roster pipeline on demand and on a schedule, and keeps
// the most recent plan for readers.
type Service struct {
	mu sync.RWMutex

	// Core components
	source  source.Source
	ledger  repository.History
	store   *repository.RunStore
	planner *planner.Planner

	// Configuration
	settings    planner.Settings
	interval    time.Duration
	searchLimit int
	clock       clockwork.Clock

	// State
	snapshot  atomic.Pointer[model.Snapshot]
	lastErr   atomic.Pointer[string]
	refreshMu sync.Mutex
	scheduler gocron.Scheduler
	cancel    context.CancelFunc
	started   bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets where snapshots come from.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithLedger enables SaveHistory and lets Transfers fall back to the last
// recorded roster.
func WithLedger(h repository.History) Option {
	return func(s *Service) {
		s.ledger = h
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSettings replaces the default planner settings.
func WithSettings(settings planner.Settings) Option {
	return func(s *Service) {
		s.settings = settings
	}
}

// WithRefreshInterval schedules background refreshes after Start. Zero
// disables them.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.interval = d
		}
	}
}

// WithSearchLimit sets the default number of SearchPlayers results.
func WithSearchLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.searchLimit = n
		}
	}
}

// WithClock sets the clock used to stamp runs and drive the scheduler.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// New constructs a Service. It fails when the planner settings are invalid,
// including a formation that does not fit the quotas.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		store:       repository.NewRunStore(),
		settings:    planner.DefaultSettings(),
		searchLimit: DefaultSearchLimit,
		clock:       clockwork.NewRealClock(),
		logger:      logger.Get(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	p, err := planner.New(s.settings)
	if err != nil {
		return nil, err
	}
	s.planner = p
	s.settings = p.Settings()
	return s, nil
}

// Start performs an initial refresh and schedules periodic ones. A failed
// initial refresh is logged but does not prevent the service from starting.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.source == nil {
		return ErrNoSource
	}

	s.logger.Info(ctx, "starting planner service...")

	if _, err := s.Refresh(ctx); err != nil && !errors.Is(err, selection.ErrConstraintInfeasible) {
		s.logger.Error(ctx, "initial refresh failed", logger.Error(err))
	}

	if s.interval > 0 {
		sched, err := gocron.NewScheduler(gocron.WithClock(s.clock))
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		jobCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		_, err = sched.NewJob(
			gocron.DurationJob(s.interval),
			gocron.NewTask(func() { s.scheduledRefresh(jobCtx) }),
			gocron.WithName("refresh"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			cancel()
			_ = sched.Shutdown()
			return fmt.Errorf("failed to schedule refresh: %w", err)
		}
		sched.Start()
		s.scheduler = sched
		s.cancel = cancel
	}

	s.started = true
	s.logger.Info(ctx, "planner service started",
		logger.Duration("refresh_interval", s.interval),
		logger.String("formation", s.settings.Formation),
		logger.String("quotas", s.settings.Quotas.String()),
	)
	return nil
}

func (s *Service) scheduledRefresh(ctx context.Context) {
	if _, err := s.Refresh(ctx); err != nil && !errors.Is(err, selection.ErrConstraintInfeasible) {
		s.logger.Warn(ctx, "scheduled refresh failed", logger.Error(err))
	}
}

// Stop gracefully shuts down the scheduler.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping planner service...")

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.scheduler != nil {
		if err := s.scheduler.Shutdown(); err != nil {
			s.logger.Warn(context.Background(), "scheduler shutdown failed", logger.Error(err))
		}
		s.scheduler = nil
	}

	s.started = false
	s.logger.Info(context.Background(), "planner service stopped")
}

// Refresh fetches a snapshot, runs the pipeline and publishes the plan.
//
// A degraded plan is published and returned together with an error wrapping
// selection.ErrConstraintInfeasible. When the snapshot cannot be obtained
// the previous plan stays published.
func (s *Service) Refresh(ctx context.Context) (*model.Plan, error) {
	if s.source == nil {
		return nil, ErrNoSource
	}
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	start := s.clock.Now()
	runID := uuid.NewString()
	log := s.logger.Named("refresh")

	snap, err := s.source.Fetch(ctx)
	if err != nil {
		s.fail(ctx, log, runID, start, err)
		return nil, err
	}
	s.snapshot.Store(snap)

	plan, err := s.planner.Plan(snap)
	if err != nil && !errors.Is(err, selection.ErrConstraintInfeasible) {
		s.fail(ctx, log, runID, start, err)
		return nil, err
	}
	plan.RunID = runID
	plan.GeneratedAt = start.UTC()
	s.store.Publish(&plan)

	outcome := metrics.OutcomeOK
	if plan.Degraded {
		outcome = metrics.OutcomeDegraded
		s.setLastErr(err)
	} else {
		s.setLastErr(nil)
	}
	s.record(&plan, outcome, s.clock.Since(start))

	log.Info(ctx, "plan published",
		logger.String("run_id", runID),
		logger.Int("period", plan.Period),
		logger.Int("pool", plan.PoolSize),
		logger.Int("roster", len(plan.Roster)),
		logger.String("spend", plan.Spend.StringFixed(1)),
		logger.Int("excluded", len(plan.Exclusions)),
		logger.Bool("degraded", plan.Degraded),
	)
	if plan.Degraded {
		log.Warn(ctx, "roster is degraded", logger.Error(err))
	}
	return &plan, err
}

func (s *Service) fail(ctx context.Context, log logger.Logger, runID string, start time.Time, err error) {
	s.setLastErr(err)
	metrics.RecordRun(metrics.OutcomeFailed, float64(s.clock.Since(start).Milliseconds()))
	log.Error(ctx, "refresh failed",
		logger.String("run_id", runID),
		logger.Error(err),
	)
}

func (s *Service) record(plan *model.Plan, outcome string, took time.Duration) {
	metrics.RecordRun(outcome, float64(took.Milliseconds()))
	metrics.UpdatePoolSize(plan.PoolSize)
	for _, e := range plan.Exclusions {
		metrics.RecordExclusion(e.Reason)
	}
	for reason, n := range plan.Rejections {
		metrics.RecordRejections(reason, n)
	}
	for _, sf := range plan.Shortfalls {
		metrics.RecordShortfall(sf.Position.String())
	}
	metrics.UpdateRoster(plan.Spend.InexactFloat64(), model.TotalProjection(plan.Roster, 1))
	metrics.UpdateLastRun(plan.GeneratedAt.Unix())
}

func (s *Service) setLastErr(err error) {
	if err == nil {
		s.lastErr.Store(nil)
		return
	}
	msg := err.Error()
	s.lastErr.Store(&msg)
}

// Latest returns the most recently published plan.
func (s *Service) Latest() (*model.Plan, error) {
	p, err := s.store.Latest()
	if err != nil {
		return nil, ErrNoPlan
	}
	return p, nil
}

// Transfers compares prior with the latest plan. A nil prior falls back to
// the last roster recorded in the ledger.
func (s *Service) Transfers(ctx context.Context, prior []model.RosterEntry) ([]model.Recommendation, error) {
	plan, err := s.Latest()
	if err != nil {
		return nil, err
	}
	if prior == nil {
		if s.ledger == nil {
			return nil, ErrNoLedger
		}
		if prior, err = s.ledger.Last(ctx); err != nil {
			return nil, err
		}
	}
	recs, err := planner.Transfers(prior, *plan)
	if err != nil {
		return nil, err
	}
	s.logger.Debug(ctx, "transfers computed",
		logger.String("run_id", plan.RunID),
		logger.Int("prior", len(prior)),
		logger.Int("rows", len(recs)),
	)
	return recs, nil
}

// SaveHistory appends the latest plan to the ledger and returns its run id.
func (s *Service) SaveHistory(ctx context.Context) (string, error) {
	if s.ledger == nil {
		return "", ErrNoLedger
	}
	plan, err := s.Latest()
	if err != nil {
		return "", err
	}
	if err := s.ledger.Append(ctx, plan); err != nil {
		return "", err
	}
	return plan.RunID, nil
}

// SearchPlayers looks up players of the latest snapshot by approximate
// name. Results are ordered by match distance, then id.
func (s *Service) SearchPlayers(ctx context.Context, q string, limit int) ([]model.RosterEntry, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrNoPlan
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return []model.RosterEntry{}, nil
	}
	if limit <= 0 {
		limit = s.searchLimit
	}

	type hit struct {
		entry    model.RosterEntry
		distance int
	}
	var hits []hit
	for _, p := range snap.Players {
		best := -1
		for _, name := range []string{p.Name, strings.TrimSpace(p.FirstName + " " + p.SecondName)} {
			if name == "" {
				continue
			}
			d := fuzzy.RankMatchNormalizedFold(q, name)
			if d >= 0 && (best < 0 || d < best) {
				best = d
			}
		}
		if best < 0 {
			continue
		}
		hits = append(hits, hit{
			entry: model.RosterEntry{
				ID:       p.ID,
				Name:     p.Name,
				Team:     snap.TeamName(p.TeamID),
				Position: p.Position,
				Cost:     p.Cost,
			},
			distance: best,
		})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].distance != hits[j].distance {
			return hits[i].distance < hits[j].distance
		}
		return hits[i].entry.ID < hits[j].entry.ID
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]model.RosterEntry, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.entry)
	}
	s.logger.Debug(ctx, "player search",
		logger.String("query", q),
		logger.Int("results", len(out)),
	)
	return out, nil
}

// Settings returns the validated planner settings.
func (s *Service) Settings() planner.Settings {
	return s.planner.Settings()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]interface{}{
		"started":          s.started,
		"runs":             s.store.Runs(),
		"refresh_interval": s.interval.String(),
		"formation":        s.settings.Formation,
		"budget":           s.settings.Budget.StringFixed(1),
		"history":          s.ledger != nil,
	}

	if p, err := s.store.Latest(); err == nil {
		out["run_id"] = p.RunID
		out["generated_at"] = p.GeneratedAt
		out["period"] = p.Period
		out["degraded"] = p.Degraded
		out["pool_size"] = p.PoolSize
		out["spend"] = p.Spend.StringFixed(1)
		if summary, err := projectionSummary(p.Roster); err == nil {
			out["projection"] = summary
		}
	}
	if msg := s.lastErr.Load(); msg != nil {
		out["last_error"] = *msg
	}
	return out
}
