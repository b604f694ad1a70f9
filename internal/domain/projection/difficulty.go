package projection

import (
	"math"

	"github.com/okian/fplsquad/internal/domain/model"
)

// NeutralRating is used for a team with no fixture in the requested period.
const NeutralRating = 3.0

// Difficulty resolves a team's fixture difficulty per period.
type Difficulty struct {
	// period -> team -> mean rating
	ratings map[int]map[int]float64
}

// NewDifficulty indexes fixtures by period. A team playing more than once in
// a period gets the mean of its ratings. Fixtures without a period are
// ignored. A nil or empty slice yields a table that is neutral everywhere.
func NewDifficulty(fixtures []model.Fixture) *Difficulty {
	type acc struct {
		sum float64
		n   int
	}
	sums := make(map[int]map[int]*acc)
	add := func(period, team, rating int) {
		if period <= 0 || team <= 0 || rating <= 0 {
			return
		}
		byTeam, ok := sums[period]
		if !ok {
			byTeam = make(map[int]*acc)
			sums[period] = byTeam
		}
		a, ok := byTeam[team]
		if !ok {
			a = &acc{}
			byTeam[team] = a
		}
		a.sum += float64(rating)
		a.n++
	}
	for _, f := range fixtures {
		add(f.Period, f.HomeTeamID, f.HomeDifficulty)
		add(f.Period, f.AwayTeamID, f.AwayDifficulty)
	}

	d := &Difficulty{ratings: make(map[int]map[int]float64, len(sums))}
	for period, byTeam := range sums {
		m := make(map[int]float64, len(byTeam))
		for team, a := range byTeam {
			m[team] = a.sum / float64(a.n)
		}
		d.ratings[period] = m
	}
	return d
}

// Rating returns the difficulty team faces in period, or NeutralRating.
func (d *Difficulty) Rating(team, period int) float64 {
	if d == nil {
		return NeutralRating
	}
	if r, ok := d.ratings[period][team]; ok {
		return r
	}
	return NeutralRating
}

// Periods returns the number of periods with at least one fixture.
func (d *Difficulty) Periods() int {
	if d == nil {
		return 0
	}
	return len(d.ratings)
}

// Factor converts a 1-5 rating into a score multiplier: easier fixtures
// weigh more, a rating of 5 or above zeroes the projection.
func Factor(rating float64) float64 {
	return math.Max(0, (5-rating)/3)
}
