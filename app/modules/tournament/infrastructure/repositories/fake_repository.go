package tournamentdb

import (
	"context"

	"github.com/uptrace/bun"

	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
)

// FakeRepository is a programmable Repository for service tests.
// Unset functions return zero values.
type FakeRepository struct {
	LoadSnapshotFn      func(ctx context.Context, db bun.IDB) (scoredomain.Snapshot, error)
	GetMatchFn          func(ctx context.Context, db bun.IDB, matchID string) (*scoredomain.Match, error)
	GetUserFn           func(ctx context.Context, db bun.IDB, userID string) (*scoredomain.User, error)
	GetSettingsFn       func(ctx context.Context, db bun.IDB) (scoredomain.TournamentSettings, error)
	UpsertMatchesFn     func(ctx context.Context, db bun.IDB, matches []scoredomain.Match) error
	UpsertUsersFn       func(ctx context.Context, db bun.IDB, users []scoredomain.User) error
	UpsertPredictionsFn func(ctx context.Context, db bun.IDB, predictions []scoredomain.Prediction) error
	SaveSettingsFn      func(ctx context.Context, db bun.IDB, settings scoredomain.TournamentSettings) error
	UpdateMatchResultFn func(ctx context.Context, db bun.IDB, matchID string, home, away *int, overtime bool) error
	UpdateLongTermBetFn func(ctx context.Context, db bun.IDB, userID string, bet scoredomain.LongTermBet) error
	UpdatePaidFn        func(ctx context.Context, db bun.IDB, userID string, paid bool) error

	trace []string
}

var _ Repository = (*FakeRepository)(nil)

func (f *FakeRepository) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace lists the methods called so far, in order.
func (f *FakeRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRepository) LoadSnapshot(ctx context.Context, db bun.IDB) (scoredomain.Snapshot, error) {
	f.record("LoadSnapshot")
	if f.LoadSnapshotFn != nil {
		return f.LoadSnapshotFn(ctx, db)
	}
	return scoredomain.Snapshot{}, nil
}

func (f *FakeRepository) GetMatch(ctx context.Context, db bun.IDB, matchID string) (*scoredomain.Match, error) {
	f.record("GetMatch")
	if f.GetMatchFn != nil {
		return f.GetMatchFn(ctx, db, matchID)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) GetUser(ctx context.Context, db bun.IDB, userID string) (*scoredomain.User, error) {
	f.record("GetUser")
	if f.GetUserFn != nil {
		return f.GetUserFn(ctx, db, userID)
	}
	return nil, ErrNotFound
}

func (f *FakeRepository) GetSettings(ctx context.Context, db bun.IDB) (scoredomain.TournamentSettings, error) {
	f.record("GetSettings")
	if f.GetSettingsFn != nil {
		return f.GetSettingsFn(ctx, db)
	}
	return scoredomain.TournamentSettings{}, nil
}

func (f *FakeRepository) UpsertMatches(ctx context.Context, db bun.IDB, matches []scoredomain.Match) error {
	f.record("UpsertMatches")
	if f.UpsertMatchesFn != nil {
		return f.UpsertMatchesFn(ctx, db, matches)
	}
	return nil
}

func (f *FakeRepository) UpsertUsers(ctx context.Context, db bun.IDB, users []scoredomain.User) error {
	f.record("UpsertUsers")
	if f.UpsertUsersFn != nil {
		return f.UpsertUsersFn(ctx, db, users)
	}
	return nil
}

func (f *FakeRepository) UpsertPredictions(ctx context.Context, db bun.IDB, predictions []scoredomain.Prediction) error {
	f.record("UpsertPredictions")
	if f.UpsertPredictionsFn != nil {
		return f.UpsertPredictionsFn(ctx, db, predictions)
	}
	return nil
}

func (f *FakeRepository) SaveSettings(ctx context.Context, db bun.IDB, settings scoredomain.TournamentSettings) error {
	f.record("SaveSettings")
	if f.SaveSettingsFn != nil {
		return f.SaveSettingsFn(ctx, db, settings)
	}
	return nil
}

func (f *FakeRepository) UpdateMatchResult(ctx context.Context, db bun.IDB, matchID string, home, away *int, overtime bool) error {
	f.record("UpdateMatchResult")
	if f.UpdateMatchResultFn != nil {
		return f.UpdateMatchResultFn(ctx, db, matchID, home, away, overtime)
	}
	return nil
}

func (f *FakeRepository) UpdateLongTermBet(ctx context.Context, db bun.IDB, userID string, bet scoredomain.LongTermBet) error {
	f.record("UpdateLongTermBet")
	if f.UpdateLongTermBetFn != nil {
		return f.UpdateLongTermBetFn(ctx, db, userID, bet)
	}
	return nil
}

func (f *FakeRepository) UpdatePaid(ctx context.Context, db bun.IDB, userID string, paid bool) error {
	f.record("UpdatePaid")
	if f.UpdatePaidFn != nil {
		return f.UpdatePaidFn(ctx, db, userID, paid)
	}
	return nil
}
