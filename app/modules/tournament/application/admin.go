package tournamentservice

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
	tournamentevents "github.com/tipovacka-hokej/tipovacka/app/modules/tournament/events"
)

// RecordResult stores or clears a final score. Passing two nil scores resets
// the match to unplayed.
func (s *TournamentService) RecordResult(ctx context.Context, matchID string, home, away *int, overtime bool) error {
	if err := validateResult(home, away, overtime); err != nil {
		return fmt.Errorf("RecordResult: %w", err)
	}

	_, err := withTelemetry(s, ctx, "RecordResult", matchID, func(ctx context.Context) (struct{}, error) {
		return runInTx(s, ctx, nil, func(ctx context.Context, db bun.IDB) (struct{}, error) {
			return struct{}{}, s.repo.UpdateMatchResult(ctx, db, matchID, home, away, overtime)
		})
	})
	if err != nil {
		return err
	}

	s.publish(ctx, tournamentevents.ResultRecordedV1, tournamentevents.ResultRecordedPayloadV1{
		MatchID:    matchID,
		HomeScore:  home,
		AwayScore:  away,
		Overtime:   overtime,
		OccurredAt: s.now().UTC(),
	})
	return nil
}

func validateResult(home, away *int, overtime bool) error {
	if home == nil && away == nil {
		if overtime {
			return fmt.Errorf("%w: overtime without a score", ErrInvalidResult)
		}
		return nil
	}
	if home == nil || away == nil {
		return fmt.Errorf("%w: both scores are required", ErrInvalidResult)
	}
	if *home < 0 || *away < 0 {
		return fmt.Errorf("%w: negative score", ErrInvalidResult)
	}
	if *home == *away {
		return fmt.Errorf("%w: a played match has a winner", ErrInvalidResult)
	}
	if overtime {
		diff := *home - *away
		if diff != 1 && diff != -1 {
			return fmt.Errorf("%w: overtime ends by a single goal", ErrInvalidResult)
		}
	}
	return nil
}

// SetOfficialResults publishes the tournament winner and medallists. The
// long-term deadline is kept as it is.
func (s *TournamentService) SetOfficialResults(ctx context.Context, official scoredomain.OfficialResults) error {
	official = scoredomain.OfficialResults(normalizeBet(scoredomain.LongTermBet(official)))

	_, err := withTelemetry(s, ctx, "SetOfficialResults", official.Winner, func(ctx context.Context) (struct{}, error) {
		return runInTx(s, ctx, nil, func(ctx context.Context, db bun.IDB) (struct{}, error) {
			settings, err := s.repo.GetSettings(ctx, db)
			if err != nil {
				return struct{}{}, err
			}
			settings.Official = official
			return struct{}{}, s.repo.SaveSettings(ctx, db, settings)
		})
	})
	if err != nil {
		return err
	}

	s.publish(ctx, tournamentevents.OfficialResultsSetV1, tournamentevents.OfficialResultsSetPayloadV1{
		Winner:     official.Winner,
		Medals:     official.Medals,
		OccurredAt: s.now().UTC(),
	})
	return nil
}

// SetLongTermDeadline moves the cut-off for long-term bets. A zero time removes it.
func (s *TournamentService) SetLongTermDeadline(ctx context.Context, deadline time.Time) error {
	_, err := withTelemetry(s, ctx, "SetLongTermDeadline", deadline.Format(time.RFC3339), func(ctx context.Context) (struct{}, error) {
		return runInTx(s, ctx, nil, func(ctx context.Context, db bun.IDB) (struct{}, error) {
			settings, err := s.repo.GetSettings(ctx, db)
			if err != nil {
				return struct{}{}, err
			}
			settings.LongTermDeadline = deadline
			return struct{}{}, s.repo.SaveSettings(ctx, db, settings)
		})
	})
	return err
}

// SetPaymentStatus marks whether a user has paid the entry fee.
func (s *TournamentService) SetPaymentStatus(ctx context.Context, userID string, paid bool) error {
	_, err := withTelemetry(s, ctx, "SetPaymentStatus", userID, func(ctx context.Context) (struct{}, error) {
		return runInTx(s, ctx, nil, func(ctx context.Context, db bun.IDB) (struct{}, error) {
			return struct{}{}, s.repo.UpdatePaid(ctx, db, userID, paid)
		})
	})
	if err != nil {
		return err
	}

	s.publish(ctx, tournamentevents.PaymentStatusChangedV1, tournamentevents.PaymentStatusChangedPayloadV1{
		UserID:     userID,
		Paid:       paid,
		OccurredAt: s.now().UTC(),
	})
	return nil
}

// ImportSnapshot loads a complete tournament, typically read from the
// organisers' workbook, in one transaction.
func (s *TournamentService) ImportSnapshot(ctx context.Context, snap scoredomain.Snapshot) error {
	if len(snap.Matches) == 0 {
		return fmt.Errorf("ImportSnapshot: %w", ErrEmptyImport)
	}

	_, err := withTelemetry(s, ctx, "ImportSnapshot", fmt.Sprintf("%d matches", len(snap.Matches)), func(ctx context.Context) (struct{}, error) {
		return runInTx(s, ctx, nil, func(ctx context.Context, db bun.IDB) (struct{}, error) {
			if err := s.repo.UpsertMatches(ctx, db, snap.Matches); err != nil {
				return struct{}{}, err
			}
			if err := s.repo.UpsertUsers(ctx, db, snap.Users); err != nil {
				return struct{}{}, err
			}
			if err := s.repo.UpsertPredictions(ctx, db, snap.Predictions); err != nil {
				return struct{}{}, err
			}
			return struct{}{}, s.repo.SaveSettings(ctx, db, snap.Settings)
		})
	})
	if err != nil {
		return err
	}

	s.publish(ctx, tournamentevents.SnapshotImportedV1, tournamentevents.SnapshotImportedPayloadV1{
		Matches:     len(snap.Matches),
		Users:       len(snap.Users),
		Predictions: len(snap.Predictions),
		OccurredAt:  s.now().UTC(),
	})
	return nil
}
