package leaderboarddomain

import "math"

// Neighbour is another player referenced from a position summary.
type Neighbour struct {
	UserID string
	Name   string
	Gap    float64
}

// PositionSummary describes where one user stands relative to everyone else.
// Totals are compared after rounding to one decimal.
type PositionSummary struct {
	Entry         Entry
	Better        int
	Same          int
	Worse         int
	ClosestAhead  *Neighbour
	ClosestBehind *Neighbour
	SharedWith    []string
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Position summarises the user's place in the table. It reports false when the
// user is not ranked.
func (s Standings) Position(userID string) (PositionSummary, bool) {
	me, ok := s.Entry(userID)
	if !ok {
		return PositionSummary{}, false
	}
	mine := round1(me.Breakdown.Total)
	sum := PositionSummary{Entry: me}

	for _, e := range s.Entries {
		if e.UserID == userID {
			continue
		}
		theirs := round1(e.Breakdown.Total)
		switch {
		case theirs > mine:
			sum.Better++
			// Entries are sorted, so the last better one is the nearest.
			sum.ClosestAhead = &Neighbour{UserID: e.UserID, Name: e.Name, Gap: round1(theirs - mine)}
		case theirs == mine:
			sum.Same++
			sum.SharedWith = append(sum.SharedWith, e.Name)
		default:
			sum.Worse++
			if sum.ClosestBehind == nil {
				sum.ClosestBehind = &Neighbour{UserID: e.UserID, Name: e.Name, Gap: round1(mine - theirs)}
			}
		}
	}
	return sum, true
}
