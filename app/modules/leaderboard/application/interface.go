package leaderboardservice

import (
	"context"

	leaderboarddomain "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/domain"
	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
)

// SnapshotReader supplies the tournament data a scoring pass runs on.
type SnapshotReader interface {
	LoadSnapshot(ctx context.Context) (scoredomain.Snapshot, error)
}

// Service is the read side of the contest: standings and every view derived from them.
type Service interface {
	GetStandings(ctx context.Context) (leaderboarddomain.Standings, error)
	GetPosition(ctx context.Context, userID string) (leaderboarddomain.PositionSummary, error)
	GetMatchSheet(ctx context.Context, matchID string) (scoredomain.TipSheet, error)
	GetBonuses(ctx context.Context) (BonusReport, error)
	GetPayouts(ctx context.Context) (PayoutReport, error)
	GetStatistics(ctx context.Context) (Statistics, error)
	GetRankHistory(ctx context.Context) (leaderboarddomain.RankHistory, error)
	RankHistoryChart(ctx context.Context, userID string) ([]byte, error)
	ExportStandings(ctx context.Context) ([]byte, error)
	YesterdayDailyBest(ctx context.Context) (DailyBestReport, error)
}

var _ Service = (*LeaderboardService)(nil)
