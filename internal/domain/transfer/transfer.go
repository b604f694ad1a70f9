// Package transfer compares a prior roster with a newly selected one.
package transfer

import (
	"github.com/okian/fplsquad/internal/domain/model"
)

// Diff returns IN rows for players in next but not prior, followed by OUT
// rows for players in prior but not next. Players are matched by id only, so
// renamed players produce no rows. IN rows keep next's order and OUT rows
// keep prior's order.
//
// A roster listing the same id twice is rejected with a *model.CollisionError.
func Diff(prior, next []model.RosterEntry) ([]model.Recommendation, error) {
	priorIDs, err := index(prior)
	if err != nil {
		return nil, err
	}
	nextIDs, err := index(next)
	if err != nil {
		return nil, err
	}

	out := make([]model.Recommendation, 0)
	for _, e := range next {
		if _, ok := priorIDs[e.ID]; !ok {
			out = append(out, recommend(model.DirectionIn, e))
		}
	}
	for _, e := range prior {
		if _, ok := nextIDs[e.ID]; !ok {
			out = append(out, recommend(model.DirectionOut, e))
		}
	}
	return out, nil
}

func index(entries []model.RosterEntry) (map[int]struct{}, error) {
	ids := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := ids[e.ID]; dup {
			return nil, &model.CollisionError{Kind: "roster", ID: e.ID}
		}
		ids[e.ID] = struct{}{}
	}
	return ids, nil
}

func recommend(d model.Direction, e model.RosterEntry) model.Recommendation {
	return model.Recommendation{
		Direction: d,
		PlayerID:  e.ID,
		Name:      e.Name,
		Team:      e.Team,
		Cost:      e.Cost,
	}
}

// Split separates recommendations by direction, preserving order.
func Split(recs []model.Recommendation) (in, out []model.Recommendation) {
	for _, r := range recs {
		if r.Direction == model.DirectionIn {
			in = append(in, r)
		} else {
			out = append(out, r)
		}
	}
	return in, out
}
