package leaderboardservice

import (
	"context"
	"sort"
	"time"

	leaderboarddomain "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/domain"
	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
)

// UserBonus is one user's share of a bonus.
type UserBonus struct {
	UserID string
	Name   string
	Value  float64
	Count  int
}

// DailyBestDay is one match day of the Daily Best log.
type DailyBestDay struct {
	Date      time.Time
	Matches   int
	DayPoints int
	Bonus     float64
	Winners   []string
}

// UnderdogMatch is one match that paid the underdog bonus.
type UnderdogMatch struct {
	MatchID  string
	HomeTeam string
	AwayTeam string
	Winner   string
	Share    float64
	Winners  []string
}

// BonusReport details where the three bonuses went.
type BonusReport struct {
	SharpshooterMax     int
	SharpshooterAwarded bool
	Sharpshooters       []UserBonus
	DailyBest           []DailyBestDay
	Underdogs           []UnderdogMatch
}

// GetBonuses explains the sharpshooter, Daily Best and underdog bonuses.
func (s *LeaderboardService) GetBonuses(ctx context.Context) (BonusReport, error) {
	return withTelemetry(s, ctx, "GetBonuses", func(ctx context.Context) (BonusReport, error) {
		snap, standings, err := s.compute(ctx)
		if err != nil {
			return BonusReport{}, err
		}
		n := nameIndex(standings)

		report := BonusReport{
			SharpshooterMax:     standings.Sharpshooter.Max,
			SharpshooterAwarded: len(standings.Sharpshooter.Awarded) > 0,
		}
		if standings.Sharpshooter.Max > 0 {
			for _, e := range standings.Entries {
				if standings.Sharpshooter.Counts[e.UserID] == standings.Sharpshooter.Max {
					report.Sharpshooters = append(report.Sharpshooters, UserBonus{
						UserID: e.UserID,
						Name:   e.Name,
						Value:  float64(standings.Sharpshooter.Awarded[e.UserID]),
						Count:  standings.Sharpshooter.Max,
					})
				}
			}
		}

		for _, day := range standings.DailyBest.Log {
			d := DailyBestDay{Date: day.Date, Matches: day.Matches, DayPoints: day.DayPoints, Bonus: day.Bonus}
			for _, id := range day.Winners {
				d.Winners = append(d.Winners, n.of(id))
			}
			report.DailyBest = append(report.DailyBest, d)
		}

		matches := make(map[string]scoredomain.Match, len(snap.Matches))
		for _, m := range snap.Matches {
			matches[m.ID] = m
		}
		for _, hit := range standings.Underdog.Hits {
			m := matches[hit.MatchID]
			u := UnderdogMatch{MatchID: m.ID, HomeTeam: m.HomeTeam, AwayTeam: m.AwayTeam, Share: hit.Share, Winner: m.AwayTeam}
			if hit.WinnerIsHome {
				u.Winner = m.HomeTeam
			}
			for _, id := range hit.Users {
				u.Winners = append(u.Winners, n.of(id))
			}
			report.Underdogs = append(report.Underdogs, u)
		}
		return report, nil
	})
}

// PayoutReport is the prize pool and who it currently goes to.
type PayoutReport struct {
	EntryFee int
	Paid     int
	Split    leaderboarddomain.PrizeSplit
	Payouts  []leaderboarddomain.Payout
}

// GetPayouts splits the pool collected from paid entrants among the top ranks.
func (s *LeaderboardService) GetPayouts(ctx context.Context) (PayoutReport, error) {
	return withTelemetry(s, ctx, "GetPayouts", func(ctx context.Context) (PayoutReport, error) {
		_, standings, err := s.compute(ctx)
		if err != nil {
			return PayoutReport{}, err
		}
		return s.payouts(standings), nil
	})
}

func (s *LeaderboardService) payouts(st leaderboarddomain.Standings) PayoutReport {
	split := leaderboarddomain.PrizesFor(st, s.entryFee)
	paid := 0
	for _, e := range st.Entries {
		if e.Paid {
			paid++
		}
	}
	return PayoutReport{
		EntryFee: s.entryFee,
		Paid:     paid,
		Split:    split,
		Payouts:  split.Payouts(st.Entries),
	}
}

// UserStats is the per-user block of the statistics page.
type UserStats struct {
	UserID        string
	Name          string
	ExactCount    int
	ScoredCount   int
	SuccessRate   float64
	GroupPoints   int
	PlayoffPoints int
}

// MatchCrowd is how the predictors lean on one match.
type MatchCrowd struct {
	MatchID  string
	HomeTeam string
	AwayTeam string
	Kickoff  time.Time
	Split    scoredomain.CrowdSplit
}

// Statistics collects the figures that do not affect the ranking.
type Statistics struct {
	PlayedMatches int
	Users         []UserStats
	Teams         []scoredomain.TeamReadability
	Extremes      []scoredomain.MatchExtremes
	WinnerVotes   []scoredomain.Vote
	MedalVotes    []scoredomain.Vote
	Crowd         []MatchCrowd
}

// GetStatistics computes the statistics page. Crowd splits are listed only for
// matches whose tips are already revealed.
func (s *LeaderboardService) GetStatistics(ctx context.Context) (Statistics, error) {
	return withTelemetry(s, ctx, "GetStatistics", func(ctx context.Context) (Statistics, error) {
		snap, standings, err := s.compute(ctx)
		if err != nil {
			return Statistics{}, err
		}
		rules := s.engine.Rules
		out := Statistics{
			PlayedMatches: standings.PlayedMatches,
			Teams:         rules.TeamReadability(snap),
			Extremes:      scoredomain.Extremes(rules.MatchAverages(snap)),
		}
		out.WinnerVotes, out.MedalVotes = scoredomain.LongTermFavourites(snap.Users)

		for _, e := range standings.Entries {
			t := standings.Sheet.Tally(e.UserID)
			out.Users = append(out.Users, UserStats{
				UserID:        e.UserID,
				Name:          e.Name,
				ExactCount:    t.ExactCount,
				ScoredCount:   t.ScoredCount,
				SuccessRate:   scoredomain.SuccessRate(t, standings.PlayedMatches),
				GroupPoints:   t.GroupPoints,
				PlayoffPoints: t.PlayoffPoints,
			})
		}

		now := s.now()
		byMatch := snap.PredictionsByMatch()
		for _, m := range snap.Matches {
			if !scoredomain.Revealed(m, now) {
				continue
			}
			split := scoredomain.NewCrowdSplit(byMatch[m.ID])
			if split.Total == 0 {
				continue
			}
			out.Crowd = append(out.Crowd, MatchCrowd{MatchID: m.ID, HomeTeam: m.HomeTeam, AwayTeam: m.AwayTeam, Kickoff: m.Kickoff, Split: split})
		}
		sort.SliceStable(out.Crowd, func(i, j int) bool { return out.Crowd[i].Kickoff.Before(out.Crowd[j].Kickoff) })
		return out, nil
	})
}
