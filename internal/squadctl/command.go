// Package squadctl implements the squadctl command: a one-shot pipeline run
// that prints the plan as tables and optionally compares, searches and
// records it.
package squadctl

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/fplsquad/internal/config"
	"github.com/okian/fplsquad/pkg/logger"
)

// NewCommand returns the root command. Flags default to, and override, the
// values already loaded into cfg.
func NewCommand(cfg *config.Config) *cobra.Command {
	var (
		opts    Options
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "squadctl",
		Short: "Build a fantasy roster from live or saved player data",
		Long: `squadctl fetches player data, selects a 15-player roster under the
budget, position quotas and per-club cap, splits it into an active lineup and
reserves, and prints the result as tables.`,
		Example: `  # Plan from the live endpoint
  squadctl

  # Plan from saved payloads and compare with last week's roster
  squadctl --bootstrap bootstrap.json --fixtures fixtures.json --prior roster.csv

  # Keep two players out and record the run
  squadctl --avoid 12,40 --save --history history.csv

  # Look a player up by name
  squadctl --find "saka" --limit 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := SetupLogging(cfg, verbose, cmd.ErrOrStderr()); err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return Run(ctx, cfg, opts, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.SourceURL, "url", cfg.SourceURL, "base URL of the player data endpoint")
	f.StringVar(&cfg.BootstrapFile, "bootstrap", cfg.BootstrapFile, "read players from a saved bootstrap-static payload instead of the endpoint")
	f.StringVar(&cfg.FixturesFile, "fixtures", cfg.FixturesFile, "saved fixtures payload used with --bootstrap")
	f.StringVar(&cfg.HistoryPath, "history", cfg.HistoryPath, "history ledger CSV used by --save")
	f.Float64Var(&cfg.Budget, "budget", cfg.Budget, "total spend allowed")
	f.StringVar(&cfg.Formation, "formation", cfg.Formation, "active lineup shape as DEF-MID-FWD")
	f.IntVar(&cfg.Period, "period", cfg.Period, "first period projected; 0 picks the next one")
	f.IntSliceVar(&cfg.Avoid, "avoid", cfg.Avoid, "player ids never selected")
	f.IntSliceVar(&cfg.Horizons, "horizons", cfg.Horizons, "projection horizons in periods; must include 1")
	f.StringVar(&cfg.Signal, "signal", cfg.Signal, "per-period signal: form or points_per_game")
	f.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format: text or json")

	f.StringVar(&opts.PriorFile, "prior", "", "CSV roster (id,name,team,position,cost) to compare against")
	f.BoolVar(&opts.Save, "save", false, "append the plan to the history ledger")
	f.StringVar(&opts.Find, "find", "", "look players up by approximate name")
	f.IntVar(&opts.Limit, "limit", 0, "maximum number of --find matches")
	f.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	return cmd
}

// SetupLogging points the global logger at w. Verbose forces debug level.
func SetupLogging(cfg *config.Config, verbose bool, w io.Writer) error {
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithWriter(w)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		return fmt.Errorf("log level %q: %w", level, err)
	}
	return nil
}
