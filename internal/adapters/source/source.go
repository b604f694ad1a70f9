// Package source loads upstream player, team and fixture data and hands the
// planner one complete snapshot.
//
// Player data is mandatory: failing to obtain it aborts the load with
// ErrUpstreamUnavailable. Fixture data is optional: any failure is logged,
// counted, and replaced by an empty fixture list so every team projects
// with neutral difficulty.
package source

import (
	"context"
	"fmt"

	"github.com/okian/fplsquad/internal/domain/model"
	"github.com/okian/fplsquad/pkg/logger"
	"github.com/okian/fplsquad/pkg/metrics"
)

// Resource names used in logs and metrics.
const (
	ResourceBootstrap = "bootstrap"
	ResourceFixtures  = "fixtures"
)

// Source produces snapshots.
type Source interface {
	Fetch(ctx context.Context) (*model.Snapshot, error)
}

// payloads are the raw results of loading both resources.
type payloads struct {
	bootstrap    []byte
	bootstrapErr error
	fixtures     []byte
	fixturesErr  error
}

// assemble decodes p, absorbing every fixtures failure.
func assemble(ctx context.Context, log logger.Logger, from string, p payloads) (*model.Snapshot, error) {
	if p.bootstrapErr != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstreamUnavailable, from, p.bootstrapErr)
	}
	b, err := decodeBootstrap(p.bootstrap)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstreamUnavailable, from, err)
	}

	var fixtures []model.Fixture
	switch {
	case p.fixturesErr != nil:
		err = p.fixturesErr
	case p.fixtures != nil:
		if fixtures, err = decodeFixtures(p.fixtures); err != nil {
			metrics.RecordFetch(ResourceFixtures, 0, true)
		}
	}
	if err != nil {
		fixtures = nil
		log.Warn(ctx, "fixtures unavailable, using neutral difficulty",
			logger.String("origin", from),
			logger.Error(err),
		)
	}

	snap, err := b.snapshot(fixtures)
	if err != nil {
		return nil, err
	}
	log.Debug(ctx, "snapshot loaded",
		logger.String("origin", from),
		logger.Int("players", len(snap.Players)),
		logger.Int("teams", len(snap.Teams)),
		logger.Int("fixtures", len(snap.Fixtures)),
		logger.Int("next_period", snap.NextPeriod),
	)
	return snap, nil
}
