package leaderboardhandlers

import (
	"context"

	leaderboardservice "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/application"
	leaderboarddomain "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/domain"
	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
)

// FakeService is a programmable leaderboardservice.Service.
type FakeService struct {
	trace []string

	GetStandingsFn       func(ctx context.Context) (leaderboarddomain.Standings, error)
	GetPositionFn        func(ctx context.Context, userID string) (leaderboarddomain.PositionSummary, error)
	GetMatchSheetFn      func(ctx context.Context, matchID string) (scoredomain.TipSheet, error)
	GetBonusesFn         func(ctx context.Context) (leaderboardservice.BonusReport, error)
	GetPayoutsFn         func(ctx context.Context) (leaderboardservice.PayoutReport, error)
	GetStatisticsFn      func(ctx context.Context) (leaderboardservice.Statistics, error)
	GetRankHistoryFn     func(ctx context.Context) (leaderboarddomain.RankHistory, error)
	RankHistoryChartFn   func(ctx context.Context, userID string) ([]byte, error)
	ExportStandingsFn    func(ctx context.Context) ([]byte, error)
	YesterdayDailyBestFn func(ctx context.Context) (leaderboardservice.DailyBestReport, error)
}

func (f *FakeService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeService) GetStandings(ctx context.Context) (leaderboarddomain.Standings, error) {
	f.record("GetStandings")
	if f.GetStandingsFn != nil {
		return f.GetStandingsFn(ctx)
	}
	return leaderboarddomain.Standings{}, nil
}

func (f *FakeService) GetPosition(ctx context.Context, userID string) (leaderboarddomain.PositionSummary, error) {
	f.record("GetPosition")
	if f.GetPositionFn != nil {
		return f.GetPositionFn(ctx, userID)
	}
	return leaderboarddomain.PositionSummary{}, leaderboardservice.ErrUserNotRanked
}

func (f *FakeService) GetMatchSheet(ctx context.Context, matchID string) (scoredomain.TipSheet, error) {
	f.record("GetMatchSheet")
	if f.GetMatchSheetFn != nil {
		return f.GetMatchSheetFn(ctx, matchID)
	}
	return scoredomain.TipSheet{}, leaderboardservice.ErrMatchNotFound
}

func (f *FakeService) GetBonuses(ctx context.Context) (leaderboardservice.BonusReport, error) {
	f.record("GetBonuses")
	if f.GetBonusesFn != nil {
		return f.GetBonusesFn(ctx)
	}
	return leaderboardservice.BonusReport{}, nil
}

func (f *FakeService) GetPayouts(ctx context.Context) (leaderboardservice.PayoutReport, error) {
	f.record("GetPayouts")
	if f.GetPayoutsFn != nil {
		return f.GetPayoutsFn(ctx)
	}
	return leaderboardservice.PayoutReport{}, nil
}

func (f *FakeService) GetStatistics(ctx context.Context) (leaderboardservice.Statistics, error) {
	f.record("GetStatistics")
	if f.GetStatisticsFn != nil {
		return f.GetStatisticsFn(ctx)
	}
	return leaderboardservice.Statistics{}, nil
}

func (f *FakeService) GetRankHistory(ctx context.Context) (leaderboarddomain.RankHistory, error) {
	f.record("GetRankHistory")
	if f.GetRankHistoryFn != nil {
		return f.GetRankHistoryFn(ctx)
	}
	return leaderboarddomain.RankHistory{}, nil
}

func (f *FakeService) RankHistoryChart(ctx context.Context, userID string) ([]byte, error) {
	f.record("RankHistoryChart")
	if f.RankHistoryChartFn != nil {
		return f.RankHistoryChartFn(ctx, userID)
	}
	return nil, nil
}

func (f *FakeService) ExportStandings(ctx context.Context) ([]byte, error) {
	f.record("ExportStandings")
	if f.ExportStandingsFn != nil {
		return f.ExportStandingsFn(ctx)
	}
	return nil, nil
}

func (f *FakeService) YesterdayDailyBest(ctx context.Context) (leaderboardservice.DailyBestReport, error) {
	f.record("YesterdayDailyBest")
	if f.YesterdayDailyBestFn != nil {
		return f.YesterdayDailyBestFn(ctx)
	}
	return leaderboardservice.DailyBestReport{}, nil
}
