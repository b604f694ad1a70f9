// Package roles designates the primary and secondary multiplier holders.
//
// The designation is a label. Projected totals are reported without any
// multiplier applied.
package roles

import (
	"errors"
	"fmt"

	"github.com/okian/fplsquad/internal/domain/model"
)

// ErrTooFewPlayers is returned when the lineup cannot supply two holders.
var ErrTooFewPlayers = errors.New("need at least two active players")

// Assign returns the top two of active by one-period projection, using the
// same order as the selector.
func Assign(active []model.ScoredPlayer) (model.Roles, error) {
	if len(active) < 2 {
		return model.Roles{}, fmt.Errorf("%w: got %d", ErrTooFewPlayers, len(active))
	}
	ranked := model.SortedBy(active, 1)
	return model.Roles{Primary: ranked[0], Secondary: ranked[1]}, nil
}
