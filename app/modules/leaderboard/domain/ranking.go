package leaderboarddomain

import (
	"math"
	"sort"
)

// CompetitionRanks assigns standard competition ranks to totals that are already
// sorted in descending order: ties share a rank and the next distinct total is
// ranked 1 + the number of strictly better entries ([10 10 8] -> [1 1 3]).
func CompetitionRanks(sortedTotals []float64) []int {
	ranks := make([]int, len(sortedTotals))
	for i, total := range sortedTotals {
		if i > 0 && sameScore(total, sortedTotals[i-1]) {
			ranks[i] = ranks[i-1]
			continue
		}
		ranks[i] = i + 1
	}
	return ranks
}

// sameScore compares totals that are always whole or half points.
func sameScore(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// sortEntries orders entries by total (descending), then by name and ID so the
// table is stable between recomputations.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !sameScore(a.Breakdown.Total, b.Breakdown.Total) {
			return a.Breakdown.Total > b.Breakdown.Total
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.UserID < b.UserID
	})
}

// assignRanks sorts entries in place and fills in their competition rank.
func assignRanks(entries []Entry) {
	sortEntries(entries)
	totals := make([]float64, len(entries))
	for i, e := range entries {
		totals[i] = e.Breakdown.Total
	}
	for i, r := range CompetitionRanks(totals) {
		entries[i].Rank = r
	}
}

// Deficits computes, for each of the first three table positions, how far a total
// trails the holder of that position. Positions past the end of the table count as 0.
// A total at or above the reference has no deficit.
func Deficits(sortedTotals []float64, total float64) [3]*float64 {
	var out [3]*float64
	for pos := 0; pos < 3; pos++ {
		ref := 0.0
		if pos < len(sortedTotals) {
			ref = sortedTotals[pos]
		}
		if total < ref && !sameScore(total, ref) {
			d := ref - total
			out[pos] = &d
		}
	}
	return out
}
