package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Exclusion reasons.
const (
	ReasonAvoidList    = "avoid_list"
	ReasonMissingField = "missing_field"
)

// Exclusion records a player removed from the pool before selection.
type Exclusion struct {
	PlayerID int    `json:"player_id"`
	Name     string `json:"name"`
	Reason   string `json:"reason"`
	Field    string `json:"field,omitempty"`
}

// Shortfall is a position quota the selector could not fill.
type Shortfall struct {
	Position Position `json:"position"`
	Required int      `json:"required"`
	Selected int      `json:"selected"`
}

func (s Shortfall) String() string {
	return fmt.Sprintf("%s %d/%d", s.Position, s.Selected, s.Required)
}

// Lineup partitions a roster into active players and reserves.
type Lineup struct {
	Active   []ScoredPlayer `json:"active"`
	Reserves []ScoredPlayer `json:"reserves"`
}

// Roles names the primary and secondary multiplier holders. The labels do
// not alter any projected totals.
type Roles struct {
	Primary   ScoredPlayer `json:"primary"`
	Secondary ScoredPlayer `json:"secondary"`
}

// Direction of a transfer recommendation.
type Direction string

// Transfer directions.
const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// Recommendation is one row of the transfer table.
type Recommendation struct {
	Direction Direction       `json:"direction"`
	PlayerID  int             `json:"player_id"`
	Name      string          `json:"name"`
	Team      string          `json:"team"`
	Cost      decimal.Decimal `json:"cost"`
}

// Plan is the full output of one pipeline run.
type Plan struct {
	RunID       string    `json:"run_id,omitempty"`
	GeneratedAt time.Time `json:"generated_at,omitempty"`
	Period      int       `json:"period"`

	Budget   decimal.Decimal `json:"budget"`
	Spend    decimal.Decimal `json:"spend"`
	PoolSize int             `json:"pool_size"`

	Roster  []ScoredPlayer         `json:"roster"`
	Lineup  *Lineup                `json:"lineup,omitempty"`
	Roles   *Roles                 `json:"roles,omitempty"`
	Outlook map[int][]ScoredPlayer `json:"outlook,omitempty"`

	Degraded   bool           `json:"degraded"`
	Shortfalls []Shortfall    `json:"shortfalls,omitempty"`
	Exclusions []Exclusion    `json:"exclusions,omitempty"`
	Rejections map[string]int `json:"rejections,omitempty"`
}

// RoleOf returns "primary", "secondary" or "" for player id.
func (p *Plan) RoleOf(id int) string {
	if p.Roles == nil {
		return ""
	}
	switch id {
	case p.Roles.Primary.ID:
		return "primary"
	case p.Roles.Secondary.ID:
		return "secondary"
	}
	return ""
}

// IsActive reports whether player id is in the active lineup.
func (p *Plan) IsActive(id int) bool {
	if p.Lineup == nil {
		return false
	}
	for _, a := range p.Lineup.Active {
		if a.ID == id {
			return true
		}
	}
	return false
}
