package model

import "sort"

// Ranks reports whether a sorts before b when ranking by the projection over
// horizon h. The order is total: projection descending, then cost ascending,
// then id ascending.
func Ranks(a, b ScoredPlayer, h int) bool {
	pa, pb := a.Projection(h), b.Projection(h)
	if pa != pb {
		return pa > pb
	}
	if c := a.Cost.Cmp(b.Cost); c != 0 {
		return c < 0
	}
	return a.ID < b.ID
}

// SortedBy returns a copy of players ordered by Ranks over horizon h.
func SortedBy(players []ScoredPlayer, h int) []ScoredPlayer {
	out := make([]ScoredPlayer, len(players))
	copy(out, players)
	sort.SliceStable(out, func(i, j int) bool {
		return Ranks(out[i], out[j], h)
	})
	return out
}
