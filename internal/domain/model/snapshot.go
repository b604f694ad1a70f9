package model

// Snapshot is one consistent view of the upstream data. It is validated once
// by NewSnapshot and must not be modified afterwards.
type Snapshot struct {
	Players    []Player
	Teams      map[int]Team
	Fixtures   []Fixture
	NextPeriod int
}

// NewSnapshot copies its inputs and rejects duplicate player or team ids
// with a *CollisionError.
func NewSnapshot(players []Player, teams []Team, fixtures []Fixture, nextPeriod int) (*Snapshot, error) {
	seen := make(map[int]struct{}, len(players))
	ps := make([]Player, 0, len(players))
	for _, p := range players {
		if _, dup := seen[p.ID]; dup {
			return nil, &CollisionError{Kind: "player", ID: p.ID}
		}
		seen[p.ID] = struct{}{}
		ps = append(ps, p)
	}

	ts := make(map[int]Team, len(teams))
	for _, t := range teams {
		if _, dup := ts[t.ID]; dup {
			return nil, &CollisionError{Kind: "team", ID: t.ID}
		}
		ts[t.ID] = t
	}

	fs := make([]Fixture, len(fixtures))
	copy(fs, fixtures)

	return &Snapshot{
		Players:    ps,
		Teams:      ts,
		Fixtures:   fs,
		NextPeriod: nextPeriod,
	}, nil
}

// TeamName returns the display name of team id, or "" when unknown.
func (s *Snapshot) TeamName(id int) string {
	return s.Teams[id].Name
}
