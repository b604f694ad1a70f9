package squadctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/fplsquad/internal/adapters/repository"
	"github.com/okian/fplsquad/internal/adapters/source"
	service "github.com/okian/fplsquad/internal/app"
	"github.com/okian/fplsquad/internal/config"
	"github.com/okian/fplsquad/internal/domain/model"
	"github.com/okian/fplsquad/internal/domain/selection"
	"github.com/okian/fplsquad/pkg/logger"
)

// Options holds the one-shot actions requested on the command line.
type Options struct {
	PriorFile string // CSV roster to compare the plan against
	Save      bool   // append the plan to the history ledger
	Find      string // player name to look up
	Limit     int    // maximum number of lookup hits
}

// Run executes one pipeline run with cfg and writes the tables to out. A
// plan that could not meet its quotas is still printed.
func Run(ctx context.Context, cfg *config.Config, opts Options, out io.Writer) error {
	log := logger.Get()
	start := time.Now()

	log.Info(ctx, "starting squad run",
		logger.String("source", sourceName(cfg)),
		logger.String("formation", cfg.Formation),
		logger.Float64("budget", cfg.Budget),
		logger.String("prior", opts.PriorFile),
		logger.Bool("save", opts.Save))

	svc, err := newService(cfg, opts, log)
	if err != nil {
		return err
	}

	// Step 1: Build the plan
	plan, err := svc.Refresh(ctx)
	switch {
	case errors.Is(err, selection.ErrConstraintInfeasible) && plan != nil:
		log.Warn(ctx, "roster is incomplete", logger.Int("size", len(plan.Roster)))
	case err != nil:
		return fmt.Errorf("plan: %w", err)
	}
	if err := PrintPlan(out, plan); err != nil {
		return err
	}

	// Step 2: Compare with the prior roster
	if opts.PriorFile != "" {
		prior, err := readPrior(opts.PriorFile)
		if err != nil {
			return err
		}
		recs, err := svc.Transfers(ctx, prior)
		if err != nil {
			return fmt.Errorf("transfers: %w", err)
		}
		if err := PrintTransfers(out, recs); err != nil {
			return err
		}
	}

	// Step 3: Look up players
	if opts.Find != "" {
		hits, err := svc.SearchPlayers(ctx, opts.Find, opts.Limit)
		if err != nil {
			return fmt.Errorf("find: %w", err)
		}
		if err := PrintPlayers(out, hits); err != nil {
			return err
		}
	}

	// Step 4: Record the run
	if opts.Save {
		runID, err := svc.SaveHistory(ctx)
		if err != nil {
			return fmt.Errorf("save: %w", err)
		}
		log.Info(ctx, "plan saved", logger.String("run_id", runID), logger.String("path", cfg.HistoryPath))
	}

	log.Info(ctx, "squad run completed", logger.Duration("duration", time.Since(start)))
	return nil
}

func newService(cfg *config.Config, opts Options, log logger.Logger) (*service.Service, error) {
	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}
	svcOpts := []service.Option{
		service.WithLogger(log),
		service.WithSource(newSource(cfg, log)),
		service.WithSettings(settings),
		service.WithSearchLimit(cfg.MaxSearchLimit),
	}
	if opts.Save && cfg.HistoryPath != "" {
		svcOpts = append(svcOpts, service.WithLedger(repository.NewLedger(cfg.HistoryPath, repository.WithLogger(log))))
	}
	return service.New(svcOpts...)
}

func newSource(cfg *config.Config, log logger.Logger) source.Source {
	if cfg.BootstrapFile != "" {
		return &source.FileSource{
			BootstrapPath: cfg.BootstrapFile,
			FixturesPath:  cfg.FixturesFile,
			Log:           log,
		}
	}
	return source.NewClient(cfg.SourceURL,
		source.WithTimeout(cfg.FetchTimeout()),
		source.WithClientLogger(log),
	)
}

func sourceName(cfg *config.Config) string {
	if cfg.BootstrapFile != "" {
		return cfg.BootstrapFile
	}
	return cfg.SourceURL
}

// readPrior loads a prior roster CSV (id,name,team,position,cost).
func readPrior(path string) ([]model.RosterEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open prior roster: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close prior roster", logger.Error(err))
		}
	}()
	return repository.ReadRoster(f)
}
