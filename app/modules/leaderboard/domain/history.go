package leaderboarddomain

import (
	"sort"
	"time"

	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
)

// HistoryPoint is a user's rank and total at the end of one match day.
type HistoryPoint struct {
	Date  time.Time
	Rank  int
	Total float64
}

// RankHistory holds the table replayed day by day.
type RankHistory struct {
	Days   []time.Time
	Series map[string][]HistoryPoint
}

// History replays the standings at the end of every match day with at least one
// result; a day still in progress is replayed up to now. Users appear from the
// first day they were registered.
func (e Engine) History(s scoredomain.Snapshot, now time.Time) RankHistory {
	seen := make(map[time.Time]bool)
	var days []time.Time
	for _, m := range s.Matches {
		if !m.HasKickoff() || !m.Played() {
			continue
		}
		d := scoredomain.DayKey(m.Kickoff, e.Location)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	out := RankHistory{Series: make(map[string][]HistoryPoint)}
	for _, day := range days {
		end := day.AddDate(0, 0, 1)
		if end.After(now) {
			end = now
		}
		snap := s.MaskResultsFrom(end)
		snap.Users = s.UsersRegisteredBefore(end)

		table := e.rank(snap)
		out.Days = append(out.Days, day)
		for _, en := range table.Entries {
			out.Series[en.UserID] = append(out.Series[en.UserID], HistoryPoint{
				Date:  day,
				Rank:  en.Rank,
				Total: en.Breakdown.Total,
			})
		}
	}
	return out
}
