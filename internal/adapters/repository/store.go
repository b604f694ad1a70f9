// Package repository persists plans: the latest one in memory for readers,
// and every rostered player of every run in an append-only CSV ledger.
package repository

import (
	"context"
	"sync/atomic"

	"github.com/okian/fplsquad/internal/domain/model"
)

// History records plans and recalls the most recent recorded roster.
type History interface {
	// Append writes one row per rostered player of plan.
	Append(ctx context.Context, plan *model.Plan) error
	// Last returns the roster of the most recently appended run.
	// Returns ErrNotFound if nothing was recorded yet.
	Last(ctx context.Context) ([]model.RosterEntry, error)
}

// RunStore holds the latest plan. Readers never block the writer: each
// Publish swaps an immutable pointer.
type RunStore struct {
	latest atomic.Pointer[model.Plan]
	runs   atomic.Int64
}

// NewRunStore returns an empty store.
func NewRunStore() *RunStore {
	return &RunStore{}
}

// Publish makes plan the latest. The caller must not modify it afterwards.
func (s *RunStore) Publish(plan *model.Plan) {
	if plan == nil {
		return
	}
	s.latest.Store(plan)
	s.runs.Add(1)
}

// Latest returns the most recent plan. Returns ErrNotFound before the first
// Publish.
func (s *RunStore) Latest() (*model.Plan, error) {
	p := s.latest.Load()
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}

// Runs returns how many plans were published.
func (s *RunStore) Runs() int64 {
	return s.runs.Load()
}
