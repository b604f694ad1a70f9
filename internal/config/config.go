// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keys are flat snake_case; the only nested key is quotas.
// - New returns the defaults; Load layers a YAML file and env vars on top.
// - Validate and Settings translate into the planner's domain types.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/fplsquad/internal/domain/model"
	"github.com/okian/fplsquad/internal/domain/planner"
	"github.com/okian/fplsquad/internal/domain/projection"
	"github.com/shopspring/decimal"
)

// DefaultSourceURL is the public fantasy API root.
const DefaultSourceURL = "https://fantasy.premierleague.com/api"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// SourceURL is the upstream API root. Ignored when BootstrapFile is set.
	SourceURL string `koanf:"source_url"`

	// BootstrapFile and FixturesFile read upstream JSON from disk instead.
	BootstrapFile string `koanf:"bootstrap_file"`
	FixturesFile  string `koanf:"fixtures_file"`

	// FetchTimeoutMS bounds each upstream request.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// RefreshIntervalSec schedules background refreshes; 0 disables them.
	RefreshIntervalSec int `koanf:"refresh_interval_sec"`

	// HistoryPath is the append-only CSV ledger; empty disables history.
	HistoryPath string `koanf:"history_path"`

	// MaxSearchLimit caps GET /players?limit.
	MaxSearchLimit int `koanf:"max_search_limit"`

	// Budget is the spending cap, in millions, one decimal place.
	Budget float64 `koanf:"budget"`

	// RosterSize must equal the sum of Quotas.
	RosterSize int `koanf:"roster_size"`

	// Quotas maps position codes (gk, def, mid, fwd) to roster slots.
	Quotas map[string]int `koanf:"quotas"`

	// TeamCap is the most players one club may supply.
	TeamCap int `koanf:"team_cap"`

	// Formation is the active lineup shape as "D-M-F".
	Formation string `koanf:"formation"`

	// Avoid lists player ids never to select.
	Avoid []int `koanf:"avoid"`

	// Horizons are the projected period counts; must include 1.
	Horizons []int `koanf:"horizons"`

	// Signal is form or points_per_game.
	Signal string `koanf:"signal"`

	// ProjectionModel is linear or fixture_run.
	ProjectionModel string `koanf:"projection_model"`

	// Period pins the scoring period; 0 uses the upstream's next period.
	Period int `koanf:"period"`

	// OutlookSize is the row count of each horizon outlook table.
	OutlookSize int `koanf:"outlook_size"`
}

// New returns a Config holding the defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		SourceURL:          DefaultSourceURL,
		FetchTimeoutMS:     10_000,
		RefreshIntervalSec: 3600,
		HistoryPath:        "history.csv",
		MaxSearchLimit:     50,
		Budget:             100.0,
		RosterSize:         15,
		Quotas:             map[string]int{"gk": 2, "def": 5, "mid": 5, "fwd": 3},
		TeamCap:            3,
		Formation:          "3-4-3",
		Horizons:           []int{1, 5, 10},
		Signal:             string(projection.SignalForm),
		ProjectionModel:    string(projection.KindLinear),
		OutlookSize:        planner.DefaultOutlookSize,
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// RefreshInterval returns RefreshIntervalSec as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSec) * time.Second
}

// Settings converts the planning keys into planner settings. The budget is
// rounded to one decimal place.
func (c *Config) Settings() (planner.Settings, error) {
	quotas, err := model.ParseQuotas(c.Quotas)
	if err != nil {
		return planner.Settings{}, fmt.Errorf("%w: quotas: %w", ErrInvalidConfig, err)
	}
	signal, err := projection.ParseSignal(strings.ToLower(c.Signal))
	if err != nil {
		return planner.Settings{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	kind, err := projection.ParseKind(strings.ToLower(c.ProjectionModel))
	if err != nil {
		return planner.Settings{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return planner.Settings{
		Budget:      decimal.NewFromFloat(c.Budget).Round(1),
		RosterSize:  c.RosterSize,
		Quotas:      quotas,
		TeamCap:     c.TeamCap,
		Formation:   c.Formation,
		Avoid:       append([]int(nil), c.Avoid...),
		Horizons:    append([]int(nil), c.Horizons...),
		Signal:      signal,
		Model:       kind,
		Period:      c.Period,
		OutlookSize: c.OutlookSize,
	}, nil
}

// Validate checks the process keys and the planning keys. A formation that
// does not fit the quotas wraps lineup.ErrInvalidFormation as well as
// ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.BootstrapFile == "" && c.SourceURL == "" {
		return fmt.Errorf("%w: %w: set source_url or bootstrap_file", ErrInvalidConfig, ErrNoSource)
	}
	if c.FetchTimeoutMS <= 0 {
		return fmt.Errorf("%w: fetch_timeout_ms must be positive", ErrInvalidConfig)
	}
	if c.RefreshIntervalSec < 0 {
		return fmt.Errorf("%w: refresh_interval_sec must not be negative", ErrInvalidConfig)
	}
	if c.MaxSearchLimit <= 0 {
		return fmt.Errorf("%w: max_search_limit must be positive", ErrInvalidConfig)
	}
	s, err := c.Settings()
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
