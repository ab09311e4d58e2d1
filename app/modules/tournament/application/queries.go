package tournamentservice

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"

	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
)

// LoadSnapshot reads the whole tournament in a single read-only transaction.
func (s *TournamentService) LoadSnapshot(ctx context.Context) (scoredomain.Snapshot, error) {
	return withTelemetry(s, ctx, "LoadSnapshot", "", func(ctx context.Context) (scoredomain.Snapshot, error) {
		return s.loadSnapshot(ctx)
	})
}

func (s *TournamentService) loadSnapshot(ctx context.Context) (scoredomain.Snapshot, error) {
	return runInTx(s, ctx, &sql.TxOptions{ReadOnly: true}, func(ctx context.Context, db bun.IDB) (scoredomain.Snapshot, error) {
		return s.repo.LoadSnapshot(ctx, db)
	})
}

// Teams lists the real teams in the schedule, for long-term bet pickers.
func (s *TournamentService) Teams(ctx context.Context) ([]string, error) {
	return withTelemetry(s, ctx, "Teams", "", func(ctx context.Context) ([]string, error) {
		snap, err := s.loadSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		return scoredomain.AllTeams(snap.Matches), nil
	})
}

// MissingLongTermBets lists users who have not filled in the winner and all
// three medals. Empty once the deadline has passed, since nothing can change.
func (s *TournamentService) MissingLongTermBets(ctx context.Context) ([]scoredomain.User, error) {
	now := s.now()
	return withTelemetry(s, ctx, "MissingLongTermBets", "", func(ctx context.Context) ([]scoredomain.User, error) {
		snap, err := s.loadSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		if scoredomain.PastDeadline(snap.Settings.LongTermDeadline, now) {
			return nil, nil
		}
		var out []scoredomain.User
		for _, u := range snap.Users {
			if !u.LongTerm.Complete() {
				out = append(out, u)
			}
		}
		return out, nil
	})
}
