package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/okian/fplsquad/internal/domain/model"
	"github.com/okian/fplsquad/pkg/logger"
	"github.com/okian/fplsquad/pkg/metrics"
	"github.com/shopspring/decimal"
)

const defaultFileMode os.FileMode = 0o644

// historyRow is one rostered player of one run.
type historyRow struct {
	RunID      string  `csv:"run_id"`
	RunAt      string  `csv:"run_at"`
	Period     int     `csv:"period"`
	PlayerID   int     `csv:"player_id"`
	Name       string  `csv:"name"`
	Team       string  `csv:"team"`
	Position   string  `csv:"position"`
	Cost       string  `csv:"cost"`
	Projection float64 `csv:"projection"`
	Role       string  `csv:"role"`
	Active     bool    `csv:"active"`
}

func (r historyRow) entry() (model.RosterEntry, error) {
	pos, err := model.ParsePosition(r.Position)
	if err != nil {
		return model.RosterEntry{}, err
	}
	cost, err := decimal.NewFromString(r.Cost)
	if err != nil {
		return model.RosterEntry{}, fmt.Errorf("player %d: cost %q: %w", r.PlayerID, r.Cost, err)
	}
	return model.RosterEntry{ID: r.PlayerID, Name: r.Name, Team: r.Team, Position: pos, Cost: cost}, nil
}

// Ledger is a CSV-backed History. Appends from concurrent callers are
// serialized; the header is written only when the file is new or empty.
type Ledger struct {
	path string
	mode os.FileMode
	log  logger.Logger
	mu   sync.Mutex
}

var _ History = (*Ledger)(nil)

// NewLedger returns a ledger stored at path. The file is created lazily on
// the first Append.
func NewLedger(path string, opts ...Option) *Ledger {
	l := &Ledger{
		path: path,
		mode: defaultFileMode,
		log:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the ledger file location.
func (l *Ledger) Path() string { return l.path }

// Append implements History. Plans with an empty roster write nothing, and
// saving the run already at the end of the ledger again is a no-op.
func (l *Ledger) Append(ctx context.Context, plan *model.Plan) error {
	if plan == nil || len(plan.Roster) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	rows := historyRows(plan)

	l.mu.Lock()
	defer l.mu.Unlock()

	existing, err := l.readRows()
	if err != nil {
		metrics.RecordLedgerError()
		return fmt.Errorf("%w: %w", ErrLedger, err)
	}
	if len(existing) > 0 && existing[len(existing)-1].RunID == plan.RunID {
		l.log.Debug(ctx, "history already holds run",
			logger.String("path", l.path),
			logger.String("run_id", plan.RunID),
		)
		return nil
	}

	if err := l.write(rows); err != nil {
		metrics.RecordLedgerError()
		l.log.Error(ctx, "history append failed",
			logger.String("path", l.path),
			logger.String("run_id", plan.RunID),
			logger.Error(err),
		)
		return fmt.Errorf("%w: %w", ErrLedger, err)
	}
	metrics.RecordLedgerAppend(len(rows))
	l.log.Debug(ctx, "history appended",
		logger.String("path", l.path),
		logger.String("run_id", plan.RunID),
		logger.Int("rows", len(rows)),
	)
	return nil
}

func (l *Ledger) write(rows []historyRow) error {
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, l.mode)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	if info.Size() == 0 {
		err = gocsv.Marshal(&rows, f)
	} else {
		err = gocsv.MarshalWithoutHeaders(&rows, f)
	}
	if err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Last implements History.
func (l *Ledger) Last(ctx context.Context) ([]model.RosterEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.readRows()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLedger, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	// Runs are appended contiguously, so the last run is the trailing block
	// sharing the final row's id. A repeated player id marks the end of an
	// earlier copy of the same run.
	runID := rows[len(rows)-1].RunID
	seen := map[int]bool{rows[len(rows)-1].PlayerID: true}
	start := len(rows) - 1
	for start > 0 && rows[start-1].RunID == runID && !seen[rows[start-1].PlayerID] {
		start--
		seen[rows[start].PlayerID] = true
	}
	out := make([]model.RosterEntry, 0, len(rows)-start)
	for _, r := range rows[start:] {
		e, err := r.entry()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLedger, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// readRows returns every ledger row. A missing or empty file has none.
// Callers hold l.mu.
func (l *Ledger) readRows() ([]historyRow, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return nil, nil
	}

	var rows []historyRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func historyRows(plan *model.Plan) []historyRow {
	runAt := ""
	if !plan.GeneratedAt.IsZero() {
		runAt = plan.GeneratedAt.UTC().Format(time.RFC3339)
	}
	rows := make([]historyRow, 0, len(plan.Roster))
	for _, p := range plan.Roster {
		rows = append(rows, historyRow{
			RunID:      plan.RunID,
			RunAt:      runAt,
			Period:     plan.Period,
			PlayerID:   p.ID,
			Name:       p.Name,
			Team:       p.TeamName,
			Position:   p.Position.String(),
			Cost:       p.Cost.StringFixed(1),
			Projection: p.Projection(1),
			Role:       plan.RoleOf(p.ID),
			Active:     plan.IsActive(p.ID),
		})
	}
	return rows
}

// rosterRow is one line of a user supplied roster file. Only id is
// required; the remaining columns are for display.
type rosterRow struct {
	ID       int    `csv:"id"`
	Name     string `csv:"name"`
	Team     string `csv:"team"`
	Position string `csv:"position"`
	Cost     string `csv:"cost"`
}

// ReadRoster decodes a CSV roster with columns id, name, team, position and
// cost. Rows without a positive id are rejected with ErrInvalidRoster.
func ReadRoster(r io.Reader) ([]model.RosterEntry, error) {
	var rows []rosterRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoster, err)
	}
	out := make([]model.RosterEntry, 0, len(rows))
	for i, row := range rows {
		if row.ID <= 0 {
			return nil, fmt.Errorf("%w: row %d: missing id", ErrInvalidRoster, i+1)
		}
		e := model.RosterEntry{ID: row.ID, Name: row.Name, Team: row.Team}
		if row.Position != "" {
			pos, err := model.ParsePosition(row.Position)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: %w", ErrInvalidRoster, i+1, err)
			}
			e.Position = pos
		}
		if row.Cost != "" {
			cost, err := decimal.NewFromString(row.Cost)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: cost %q", ErrInvalidRoster, i+1, row.Cost)
			}
			e.Cost = cost
		}
		out = append(out, e)
	}
	return out, nil
}
