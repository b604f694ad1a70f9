package model

import (
	"fmt"
	"strings"
)

// Position is a player's playing position. Values mirror the upstream
// element_type codes so they can be assigned directly.
type Position int

// Known positions.
const (
	PositionUnknown Position = iota
	GK
	DEF
	MID
	FWD
)

// Positions lists every known position in display order.
var Positions = []Position{GK, DEF, MID, FWD}

// String returns the short code used in tables and CSV files.
func (p Position) String() string {
	switch p {
	case GK:
		return "GK"
	case DEF:
		return "DEF"
	case MID:
		return "MID"
	case FWD:
		return "FWD"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether p is one of the four known positions.
func (p Position) Valid() bool {
	return p >= GK && p <= FWD
}

// MarshalText implements encoding.TextMarshaler.
func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Position) UnmarshalText(b []byte) error {
	v, err := ParsePosition(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePosition accepts the short codes (GK, GKP, DEF, MID, FWD), their long
// names and the numeric element_type codes.
func ParsePosition(s string) (Position, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "GK", "GKP", "GOALKEEPER", "1":
		return GK, nil
	case "DEF", "DEFENDER", "2":
		return DEF, nil
	case "MID", "MIDFIELDER", "3":
		return MID, nil
	case "FWD", "FORWARD", "4":
		return FWD, nil
	}
	return PositionUnknown, fmt.Errorf("%w: %q", ErrUnknownPosition, s)
}

// Quotas maps a position to the number of roster slots reserved for it.
type Quotas map[Position]int

// DefaultQuotas returns the standard 2/5/5/3 split.
func DefaultQuotas() Quotas {
	return Quotas{GK: 2, DEF: 5, MID: 5, FWD: 3}
}

// Total returns the sum of all quotas.
func (q Quotas) Total() int {
	total := 0
	for _, n := range q {
		total += n
	}
	return total
}

// Clone returns an independent copy of q.
func (q Quotas) Clone() Quotas {
	out := make(Quotas, len(q))
	for k, v := range q {
		out[k] = v
	}
	return out
}

// String renders quotas as "GK:2 DEF:5 MID:5 FWD:3" in position order.
func (q Quotas) String() string {
	parts := make([]string, 0, len(q))
	for _, p := range Positions {
		if n, ok := q[p]; ok {
			parts = append(parts, fmt.Sprintf("%s:%d", p, n))
		}
	}
	return strings.Join(parts, " ")
}

// ParseQuotas reads a map of position codes to counts, as produced by the
// configuration layer.
func ParseQuotas(raw map[string]int) (Quotas, error) {
	q := make(Quotas, len(raw))
	for k, v := range raw {
		p, err := ParsePosition(k)
		if err != nil {
			return nil, err
		}
		if v < 0 {
			return nil, fmt.Errorf("%w: negative quota for %s", ErrInvalidQuota, p)
		}
		q[p] += v
	}
	return q, nil
}
