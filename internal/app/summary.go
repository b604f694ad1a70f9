package service

import (
	"errors"

	"github.com/montanaflynn/stats"

	"github.com/okian/fplsquad/internal/domain/model"
)

var errShortRoster = errors.New("projection summary needs at least two players")

// projectionSummary describes the spread of next-period projections across
// a roster. It needs at least two players.
func projectionSummary(roster []model.ScoredPlayer) (map[string]float64, error) {
	if len(roster) < 2 {
		return nil, errShortRoster
	}
	data := make(stats.Float64Data, 0, len(roster))
	for _, p := range roster {
		data = append(data, p.Projection(1))
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return nil, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return nil, err
	}
	stdev, err := stats.StandardDeviationSample(data)
	if err != nil {
		return nil, err
	}
	low, err := stats.Min(data)
	if err != nil {
		return nil, err
	}
	high, err := stats.Max(data)
	if err != nil {
		return nil, err
	}
	return map[string]float64{
		"mean":   mean,
		"median": median,
		"stdev":  stdev,
		"min":    low,
		"max":    high,
	}, nil
}
