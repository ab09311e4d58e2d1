package leaderboardservice

import (
	"context"

	leaderboarddomain "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/domain"
	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
)

// GetStandings runs a full scoring pass on the current data.
func (s *LeaderboardService) GetStandings(ctx context.Context) (leaderboarddomain.Standings, error) {
	return withTelemetry(s, ctx, "GetStandings", func(ctx context.Context) (leaderboarddomain.Standings, error) {
		_, standings, err := s.compute(ctx)
		return standings, err
	})
}

// GetPosition summarises where one user stands.
func (s *LeaderboardService) GetPosition(ctx context.Context, userID string) (leaderboarddomain.PositionSummary, error) {
	return withTelemetry(s, ctx, "GetPosition", func(ctx context.Context) (leaderboarddomain.PositionSummary, error) {
		_, standings, err := s.compute(ctx)
		if err != nil {
			return leaderboarddomain.PositionSummary{}, err
		}
		pos, ok := standings.Position(userID)
		if !ok {
			return leaderboarddomain.PositionSummary{}, ErrUserNotRanked
		}
		return pos, nil
	})
}

// GetMatchSheet lists every user's tip for one match. Tips stay hidden until kickoff.
func (s *LeaderboardService) GetMatchSheet(ctx context.Context, matchID string) (scoredomain.TipSheet, error) {
	return withTelemetry(s, ctx, "GetMatchSheet", func(ctx context.Context) (scoredomain.TipSheet, error) {
		snap, err := s.reader.LoadSnapshot(ctx)
		if err != nil {
			return scoredomain.TipSheet{}, err
		}
		sheet, ok := s.engine.Rules.MatchSheet(snap, matchID, s.now())
		if !ok {
			return scoredomain.TipSheet{}, ErrMatchNotFound
		}
		return sheet, nil
	})
}

// GetRankHistory replays the table at the end of every played match day.
func (s *LeaderboardService) GetRankHistory(ctx context.Context) (leaderboarddomain.RankHistory, error) {
	return withTelemetry(s, ctx, "GetRankHistory", func(ctx context.Context) (leaderboarddomain.RankHistory, error) {
		snap, err := s.reader.LoadSnapshot(ctx)
		if err != nil {
			return leaderboarddomain.RankHistory{}, err
		}
		return s.engine.History(snap, s.now()), nil
	})
}

// DailyBestReport is the Daily Best outcome of one match day with winner names resolved.
type DailyBestReport struct {
	Found bool
	Entry scoredomain.DailyBestEntry
	Names []string
}

// YesterdayDailyBest looks up who won the Daily Best bonus on the previous calendar day.
func (s *LeaderboardService) YesterdayDailyBest(ctx context.Context) (DailyBestReport, error) {
	return withTelemetry(s, ctx, "YesterdayDailyBest", func(ctx context.Context) (DailyBestReport, error) {
		_, standings, err := s.compute(ctx)
		if err != nil {
			return DailyBestReport{}, err
		}
		entry, ok := standings.DailyBest.Yesterday(standings.ComputedAt, s.engine.Location)
		if !ok {
			return DailyBestReport{}, nil
		}
		names := nameIndex(standings)
		report := DailyBestReport{Found: true, Entry: entry}
		for _, id := range entry.Winners {
			report.Names = append(report.Names, names.of(id))
		}
		return report, nil
	})
}

type names map[string]string

func nameIndex(st leaderboarddomain.Standings) names {
	out := make(names, len(st.Entries))
	for _, e := range st.Entries {
		out[e.UserID] = e.Name
	}
	return out
}

func (n names) of(userID string) string {
	if name, ok := n[userID]; ok && name != "" {
		return name
	}
	return userID
}
