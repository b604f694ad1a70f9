// Package lineup splits a roster into an active lineup and reserves.
package lineup

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/fplsquad/internal/domain/model"
)

// OutfieldSlots is the number of non-goalkeepers in an active lineup.
const OutfieldSlots = 10

// DefaultFormation is 3-4-3.
const DefaultFormation = "3-4-3"

var (
	// ErrInvalidFormation is fatal and raised before any selection runs.
	ErrInvalidFormation = errors.New("invalid formation")
	// ErrUnfillableLineup means a roster lacks players for a formation slot.
	ErrUnfillableLineup = errors.New("roster cannot fill formation")
)

// Formation is the outfield shape of the active lineup. One goalkeeper is
// always added.
type Formation struct {
	DEF int
	MID int
	FWD int
}

// ParseFormation reads a "D-M-F" string such as "3-4-3". Only the shape is
// checked here; use Validate against the roster quotas.
func ParseFormation(s string) (Formation, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return Formation{}, fmt.Errorf("%w: %q is not D-M-F", ErrInvalidFormation, s)
	}
	var n [3]int
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || v < 0 {
			return Formation{}, fmt.Errorf("%w: %q has a bad count %q", ErrInvalidFormation, s, part)
		}
		n[i] = v
	}
	return Formation{DEF: n[0], MID: n[1], FWD: n[2]}, nil
}

// String renders f as "D-M-F".
func (f Formation) String() string {
	return fmt.Sprintf("%d-%d-%d", f.DEF, f.MID, f.FWD)
}

// Counts returns the active slots per position, goalkeeper included.
func (f Formation) Counts() map[model.Position]int {
	return map[model.Position]int{model.GK: 1, model.DEF: f.DEF, model.MID: f.MID, model.FWD: f.FWD}
}

// Validate checks that f fields ten outfielders and that no position asks
// for more players than the roster quota provides.
func (f Formation) Validate(quotas model.Quotas) error {
	if sum := f.DEF + f.MID + f.FWD; sum != OutfieldSlots {
		return fmt.Errorf("%w: %s fields %d outfielders, want %d", ErrInvalidFormation, f, sum, OutfieldSlots)
	}
	for _, pos := range model.Positions {
		if need := f.Counts()[pos]; need > quotas[pos] {
			return fmt.Errorf("%w: %s needs %d %s but the quota is %d", ErrInvalidFormation, f, need, pos, quotas[pos])
		}
	}
	return nil
}

// Splitter partitions rosters under a validated formation.
type Splitter struct {
	formation Formation
}

// NewSplitter parses and validates formation against quotas.
func NewSplitter(formation string, quotas model.Quotas) (*Splitter, error) {
	f, err := ParseFormation(formation)
	if err != nil {
		return nil, err
	}
	if err := f.Validate(quotas); err != nil {
		return nil, err
	}
	return &Splitter{formation: f}, nil
}

// Formation returns the splitter's formation.
func (s *Splitter) Formation() Formation {
	return s.formation
}

// Split picks the top players of each position by one-period projection for
// the active lineup; everyone else is a reserve. Both halves are ordered by
// the same rank, so active and reserves together hold exactly the roster.
func (s *Splitter) Split(roster []model.ScoredPlayer) (model.Lineup, error) {
	need := s.formation.Counts()
	taken := make(map[model.Position]int, len(need))

	ranked := model.SortedBy(roster, 1)
	active := make([]model.ScoredPlayer, 0, OutfieldSlots+1)
	reserves := make([]model.ScoredPlayer, 0, len(roster))
	for _, p := range ranked {
		if taken[p.Position] < need[p.Position] {
			taken[p.Position]++
			active = append(active, p)
			continue
		}
		reserves = append(reserves, p)
	}

	for _, pos := range model.Positions {
		if taken[pos] < need[pos] {
			return model.Lineup{}, fmt.Errorf("%w: %s has %d of %d %s", ErrUnfillableLineup, s.formation, taken[pos], need[pos], pos)
		}
	}
	return model.Lineup{Active: active, Reserves: reserves}, nil
}
