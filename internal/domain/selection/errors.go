package selection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/fplsquad/internal/domain/model"
)

// ErrConstraintInfeasible marks a roster that could not meet every quota.
var ErrConstraintInfeasible = errors.New("constraint infeasible")

// InfeasibleError carries the quotas left unmet when the pool ran out. A
// roster short of Size with every quota met has no Shortfalls.
type InfeasibleError struct {
	Size       int
	Selected   int
	Shortfalls []model.Shortfall
}

func (e *InfeasibleError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls)+1)
	if e.Selected < e.Size {
		parts = append(parts, fmt.Sprintf("roster %d/%d", e.Selected, e.Size))
	}
	for _, s := range e.Shortfalls {
		parts = append(parts, s.String())
	}
	return fmt.Sprintf("%s: %s", ErrConstraintInfeasible, strings.Join(parts, ", "))
}

// Unwrap allows errors.Is(err, ErrConstraintInfeasible).
func (e *InfeasibleError) Unwrap() error { return ErrConstraintInfeasible }
