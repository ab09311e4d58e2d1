package leaderboarddomain

import (
	"time"

	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
)

// TrendWindow is how far back the comparison snapshot for rank trends looks.
const TrendWindow = 24 * time.Hour

// Breakdown splits a user's total into its sources.
type Breakdown struct {
	MatchPoints  int
	Sharpshooter int
	DailyBest    float64
	Underdog     int
	LongTerm     int
	Total        float64
}

// TrendKind is the direction a user moved since the comparison snapshot.
type TrendKind string

const (
	TrendUp     TrendKind = "up"
	TrendDown   TrendKind = "down"
	TrendSteady TrendKind = "steady"
	TrendNew    TrendKind = "new"
)

// Trend compares the current rank with the rank 24 hours earlier.
// Delta is positive when the user climbed.
type Trend struct {
	Kind         TrendKind
	Delta        int
	PreviousRank int
}

// Entry is one row of the leaderboard.
type Entry struct {
	UserID        string
	Name          string
	Team          string
	Paid          bool
	Rank          int
	Breakdown     Breakdown
	ExactCount    int
	ScoredCount   int
	GroupPoints   int
	PlayoffPoints int
	Trend         Trend

	// Deficits to table positions 1, 2 and 3; nil where the user is not behind.
	Deficits [3]*float64
}

// Standings is the full output of one scoring pass.
type Standings struct {
	ComputedAt     time.Time
	Entries        []Entry
	PlayedMatches  int
	TournamentOver bool
	Sheet          scoredomain.ScoreSheet
	Sharpshooter   scoredomain.SharpshooterResult
	DailyBest      scoredomain.DailyBestResult
	Underdog       scoredomain.UnderdogResult
}

// Entry looks up a user's row.
func (s Standings) Entry(userID string) (Entry, bool) {
	for _, e := range s.Entries {
		if e.UserID == userID {
			return e, true
		}
	}
	return Entry{}, false
}

// Ranks returns the rank column in table order.
func (s Standings) Ranks() []int {
	out := make([]int, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = e.Rank
	}
	return out
}

// Totals returns the total column in table order.
func (s Standings) Totals() []float64 {
	out := make([]float64, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = e.Breakdown.Total
	}
	return out
}

// Engine runs the scoring pipeline. The zero value is not usable; see NewEngine.
type Engine struct {
	Rules    scoredomain.Rules
	Location *time.Location
}

// NewEngine builds an engine for the given rules, grouping match days in loc.
func NewEngine(rules scoredomain.Rules, loc *time.Location) Engine {
	if loc == nil {
		loc = time.UTC
	}
	return Engine{Rules: rules, Location: loc}
}

// ComputeStandings runs the whole pipeline with the given rules.
func ComputeStandings(s scoredomain.Snapshot, now time.Time, loc *time.Location, rules scoredomain.Rules) Standings {
	return NewEngine(rules, loc).Compute(s, now)
}

// Compute evaluates every prediction, applies all bonuses, ranks the users and
// compares the ranking with the one 24 hours earlier.
func (e Engine) Compute(s scoredomain.Snapshot, now time.Time) Standings {
	current := e.rank(s)
	current.ComputedAt = now

	cutoff := now.Add(-TrendWindow)
	past := s.MaskResultsFrom(cutoff)
	past.Users = s.UsersRegisteredBefore(cutoff)
	previous := e.rank(past)

	applyTrends(current.Entries, previous.Entries)
	return current
}

// rank is the pipeline without trends.
func (e Engine) rank(s scoredomain.Snapshot) Standings {
	sheet := e.Rules.Tally(s)
	over := s.TournamentOver()
	sharp := e.Rules.Sharpshooter(s.Users, sheet.ExactCounts(), over)
	daily := e.Rules.DailyBest(s, e.Location)
	underdog := e.Rules.Underdog(s)

	entries := make([]Entry, 0, len(s.Users))
	for _, u := range s.Users {
		t := sheet.Tally(u.ID)
		b := Breakdown{
			MatchPoints:  t.MatchPoints,
			Sharpshooter: sharp.Awarded[u.ID],
			DailyBest:    daily.Bonus[u.ID],
			Underdog:     underdog.Bonus[u.ID],
			LongTerm:     e.Rules.EvaluateLongTerm(u.LongTerm, s.Settings.Official),
		}
		b.Total = float64(b.MatchPoints+b.Sharpshooter+b.Underdog+b.LongTerm) + b.DailyBest

		entries = append(entries, Entry{
			UserID:        u.ID,
			Name:          u.Name,
			Team:          u.Team,
			Paid:          u.Paid,
			Breakdown:     b,
			ExactCount:    t.ExactCount,
			ScoredCount:   t.ScoredCount,
			GroupPoints:   t.GroupPoints,
			PlayoffPoints: t.PlayoffPoints,
		})
	}

	assignRanks(entries)
	totals := make([]float64, len(entries))
	for i, en := range entries {
		totals[i] = en.Breakdown.Total
	}
	for i := range entries {
		entries[i].Deficits = Deficits(totals, entries[i].Breakdown.Total)
	}

	played := 0
	for _, m := range s.Matches {
		if m.Played() {
			played++
		}
	}

	return Standings{
		Entries:        entries,
		PlayedMatches:  played,
		TournamentOver: over,
		Sheet:          sheet,
		Sharpshooter:   sharp,
		DailyBest:      daily,
		Underdog:       underdog,
	}
}

// applyTrends fills in each entry's trend against the earlier table.
//
// Rules:
//   - While the leader has no points yet, every trend is steady.
//   - Users missing from the earlier table are new entrants.
//   - Otherwise the delta is previous rank minus current rank.
func applyTrends(current, previous []Entry) {
	prev := make(map[string]int, len(previous))
	for _, e := range previous {
		prev[e.UserID] = e.Rank
	}

	leaderZero := len(current) == 0 || sameScore(current[0].Breakdown.Total, 0)
	for i := range current {
		e := &current[i]
		if leaderZero {
			e.Trend = Trend{Kind: TrendSteady, PreviousRank: prev[e.UserID]}
			continue
		}
		p, ok := prev[e.UserID]
		if !ok {
			e.Trend = Trend{Kind: TrendNew}
			continue
		}
		delta := p - e.Rank
		kind := TrendSteady
		switch {
		case delta > 0:
			kind = TrendUp
		case delta < 0:
			kind = TrendDown
		}
		e.Trend = Trend{Kind: kind, Delta: delta, PreviousRank: p}
	}
}
