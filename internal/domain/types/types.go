// Package types contains the flat table rows shared by the HTTP API and the CLI
package types

import (
	"github.com/okian/fplsquad/internal/domain/model"
)

// PlayerRow is one line of a roster, lineup, reserves or outlook table
type PlayerRow struct {
	Rank       int     `json:"rank"`
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Team       string  `json:"team"`
	Position   string  `json:"position"`
	Cost       string  `json:"cost"`
	Projection float64 `json:"projection"`
	Role       string  `json:"role,omitempty"`
}

// TransferRow is one line of the transfer table
type TransferRow struct {
	Direction string `json:"direction"`
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Team      string `json:"team"`
	Cost      string `json:"cost"`
}

// Rows converts players into ranked rows showing the projection over horizon h.
// role, when non-nil, labels each row.
func Rows(players []model.ScoredPlayer, h int, role func(id int) string) []PlayerRow {
	rows := make([]PlayerRow, 0, len(players))
	for i, p := range players {
		row := PlayerRow{
			Rank:       i + 1,
			ID:         p.ID,
			Name:       p.Name,
			Team:       p.TeamName,
			Position:   p.Position.String(),
			Cost:       p.Cost.StringFixed(1),
			Projection: p.Projection(h),
		}
		if role != nil {
			row.Role = role(p.ID)
		}
		rows = append(rows, row)
	}
	return rows
}

// Transfers converts recommendations into rows
func Transfers(recs []model.Recommendation) []TransferRow {
	rows := make([]TransferRow, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, TransferRow{
			Direction: string(r.Direction),
			ID:        r.PlayerID,
			Name:      r.Name,
			Team:      r.Team,
			Cost:      r.Cost.StringFixed(1),
		})
	}
	return rows
}
