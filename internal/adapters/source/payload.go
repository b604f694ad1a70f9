package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/okian/fplsquad/internal/domain/model"
	"github.com/shopspring/decimal"
)

// rate decodes the upstream's stringly typed decimals ("5.2") as well as
// plain numbers. Empty or unparsable values decode as zero.
type rate float64

func (r *rate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*r = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*r = 0
			return nil
		}
		*r = rate(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = rate(v)
	return nil
}

type element struct {
	ID            int    `json:"id"`
	WebName       string `json:"web_name"`
	FirstName     string `json:"first_name"`
	SecondName    string `json:"second_name"`
	Team          *int   `json:"team"`
	ElementType   *int   `json:"element_type"`
	NowCost       *int64 `json:"now_cost"`
	Form          rate   `json:"form"`
	PointsPerGame rate   `json:"points_per_game"`
	ICTIndex      rate   `json:"ict_index"`
	Minutes       int    `json:"minutes"`
	Status        string `json:"status"`
}

type team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

type event struct {
	ID     int  `json:"id"`
	IsNext bool `json:"is_next"`
}

type bootstrap struct {
	Elements []element `json:"elements"`
	Teams    []team    `json:"teams"`
	Events   []event   `json:"events"`
}

type fixture struct {
	ID              int  `json:"id"`
	Event           *int `json:"event"`
	TeamH           int  `json:"team_h"`
	TeamA           int  `json:"team_a"`
	TeamHDifficulty int  `json:"team_h_difficulty"`
	TeamADifficulty int  `json:"team_a_difficulty"`
	Finished        bool `json:"finished"`
}

// player maps an element. Absent team, position or cost stay at their zero
// value so model.Player.Validate can name them.
func (e element) player() model.Player {
	p := model.Player{
		ID:            e.ID,
		Name:          e.WebName,
		FirstName:     e.FirstName,
		SecondName:    e.SecondName,
		Form:          float64(e.Form),
		PointsPerGame: float64(e.PointsPerGame),
		ICTIndex:      float64(e.ICTIndex),
		Minutes:       e.Minutes,
		Status:        e.Status,
	}
	if e.Team != nil {
		p.TeamID = *e.Team
	}
	if e.ElementType != nil {
		pos := model.Position(*e.ElementType)
		if pos.Valid() {
			p.Position = pos
		}
	}
	if e.NowCost != nil {
		// now_cost is in tenths of a million.
		p.Cost = decimal.New(*e.NowCost, -1)
	}
	return p
}

func decodeBootstrap(raw []byte) (bootstrap, error) {
	var b bootstrap
	if err := json.Unmarshal(raw, &b); err != nil {
		return bootstrap{}, fmt.Errorf("%w: bootstrap: %w", ErrMalformedPayload, err)
	}
	return b, nil
}

func decodeFixtures(raw []byte) ([]model.Fixture, error) {
	var fs []fixture
	if err := json.Unmarshal(raw, &fs); err != nil {
		return nil, fmt.Errorf("%w: fixtures: %w", ErrMalformedPayload, err)
	}
	out := make([]model.Fixture, 0, len(fs))
	for _, f := range fs {
		mf := model.Fixture{
			ID:             f.ID,
			HomeTeamID:     f.TeamH,
			AwayTeamID:     f.TeamA,
			HomeDifficulty: f.TeamHDifficulty,
			AwayDifficulty: f.TeamADifficulty,
			Finished:       f.Finished,
		}
		if f.Event != nil {
			mf.Period = *f.Event
		}
		out = append(out, mf)
	}
	return out, nil
}

// nextPeriod prefers the event flagged is_next, then the earliest period
// with an unfinished fixture. It returns 0 when neither exists.
func nextPeriod(events []event, fixtures []model.Fixture) int {
	for _, e := range events {
		if e.IsNext {
			return e.ID
		}
	}
	next := 0
	for _, f := range fixtures {
		if f.Finished || f.Period <= 0 {
			continue
		}
		if next == 0 || f.Period < next {
			next = f.Period
		}
	}
	return next
}

// Parse builds a snapshot from raw bootstrap and fixtures payloads. A nil
// fixtures payload yields a snapshot without fixtures, which projects with
// neutral difficulty.
func Parse(bootstrapRaw, fixturesRaw []byte) (*model.Snapshot, error) {
	b, err := decodeBootstrap(bootstrapRaw)
	if err != nil {
		return nil, err
	}
	var fixtures []model.Fixture
	if fixturesRaw != nil {
		if fixtures, err = decodeFixtures(fixturesRaw); err != nil {
			return nil, err
		}
	}
	return b.snapshot(fixtures)
}

func (b bootstrap) snapshot(fixtures []model.Fixture) (*model.Snapshot, error) {
	players := make([]model.Player, 0, len(b.Elements))
	for _, e := range b.Elements {
		players = append(players, e.player())
	}
	teams := make([]model.Team, 0, len(b.Teams))
	for _, t := range b.Teams {
		teams = append(teams, model.Team{ID: t.ID, Name: t.Name, ShortName: t.ShortName})
	}
	return model.NewSnapshot(players, teams, fixtures, nextPeriod(b.Events, fixtures))
}
