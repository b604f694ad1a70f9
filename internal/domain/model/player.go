// Package model contains the value types shared by every stage of the
// roster pipeline. Values are snapshots: stages return new slices and never
// mutate their inputs.
package model

import (
	"github.com/shopspring/decimal"
)

// Field names reported by FieldError.
const (
	FieldCost     = "cost"
	FieldPosition = "position"
	FieldTeam     = "team"
)

// Player is one selectable footballer.
type Player struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	FirstName     string          `json:"first_name,omitempty"`
	SecondName    string          `json:"second_name,omitempty"`
	TeamID        int             `json:"team_id"`
	Position      Position        `json:"position"`
	Cost          decimal.Decimal `json:"cost"`
	Form          float64         `json:"form"`
	PointsPerGame float64         `json:"points_per_game"`
	ICTIndex      float64         `json:"ict_index"`
	Minutes       int             `json:"minutes"`
	Status        string          `json:"status,omitempty"`
}

// Validate returns a *FieldError for the first required attribute that is
// absent. A cost that is not strictly positive counts as absent.
func (p Player) Validate() error {
	switch {
	case p.Cost.Sign() <= 0:
		return &FieldError{PlayerID: p.ID, Field: FieldCost}
	case !p.Position.Valid():
		return &FieldError{PlayerID: p.ID, Field: FieldPosition}
	case p.TeamID <= 0:
		return &FieldError{PlayerID: p.ID, Field: FieldTeam}
	}
	return nil
}

// Team is a club.
type Team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name,omitempty"`
}

// Fixture is a single match and the difficulty each side faces.
type Fixture struct {
	ID             int  `json:"id"`
	Period         int  `json:"period"`
	HomeTeamID     int  `json:"home_team_id"`
	AwayTeamID     int  `json:"away_team_id"`
	HomeDifficulty int  `json:"home_difficulty"`
	AwayDifficulty int  `json:"away_difficulty"`
	Finished       bool `json:"finished"`
}

// ScoredPlayer is a player enriched with its club name and projected score
// per horizon.
type ScoredPlayer struct {
	Player
	TeamName    string          `json:"team"`
	Projections map[int]float64 `json:"projections"`
}

// Projection returns the projected score over horizon h, or 0 when the
// horizon was not computed.
func (s ScoredPlayer) Projection(h int) float64 {
	return s.Projections[h]
}

// Entry converts s into the identity-carrying row used for transfer diffs.
func (s ScoredPlayer) Entry() RosterEntry {
	return RosterEntry{
		ID:       s.ID,
		Name:     s.Name,
		Team:     s.TeamName,
		Position: s.Position,
		Cost:     s.Cost,
	}
}

// RosterEntry identifies a rostered player for comparison purposes. Only ID
// carries identity; the other fields are for display.
type RosterEntry struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Team     string          `json:"team"`
	Position Position        `json:"position"`
	Cost     decimal.Decimal `json:"cost"`
}

// Entries converts a scored roster into roster entries, preserving order.
func Entries(players []ScoredPlayer) []RosterEntry {
	out := make([]RosterEntry, 0, len(players))
	for _, p := range players {
		out = append(out, p.Entry())
	}
	return out
}

// TotalCost sums the cost of players.
func TotalCost(players []ScoredPlayer) decimal.Decimal {
	total := decimal.Zero
	for _, p := range players {
		total = total.Add(p.Cost)
	}
	return total
}

// TotalProjection sums the projections of players over horizon h.
func TotalProjection(players []ScoredPlayer, h int) float64 {
	var total float64
	for _, p := range players {
		total += p.Projection(h)
	}
	return total
}
