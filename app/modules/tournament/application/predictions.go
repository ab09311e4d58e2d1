package tournamentservice

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/uptrace/bun"

	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
	tournamentevents "github.com/tipovacka-hokej/tipovacka/app/modules/tournament/events"
)

// SavePredictionsResult reports which tips were stored and which arrived too late.
type SavePredictionsResult struct {
	Saved   []scoredomain.Prediction
	Skipped []string
}

// SavePredictions stores a user's tips. Tips for matches that already started
// are skipped rather than failing the batch; an out-of-range score rejects it.
func (s *TournamentService) SavePredictions(ctx context.Context, userID string, tips []scoredomain.Prediction) (SavePredictionsResult, error) {
	now := s.now()
	res, err := withTelemetry(s, ctx, "SavePredictions", userID, func(ctx context.Context) (SavePredictionsResult, error) {
		return runInTx(s, ctx, nil, func(ctx context.Context, db bun.IDB) (SavePredictionsResult, error) {
			if _, err := s.repo.GetUser(ctx, db, userID); err != nil {
				return SavePredictionsResult{}, fmt.Errorf("user %s: %w", userID, err)
			}

			var out SavePredictionsResult
			for _, tip := range tips {
				m, err := s.repo.GetMatch(ctx, db, tip.MatchID)
				if err != nil {
					return SavePredictionsResult{}, fmt.Errorf("match %s: %w", tip.MatchID, err)
				}
				tip.UserID = userID
				clean, err := s.rules.SanitizePrediction(tip, *m, now)
				if errors.Is(err, scoredomain.ErrPredictionLocked) {
					out.Skipped = append(out.Skipped, tip.MatchID)
					continue
				}
				if err != nil {
					return SavePredictionsResult{}, err
				}
				out.Saved = append(out.Saved, clean)
			}

			if err := s.repo.UpsertPredictions(ctx, db, out.Saved); err != nil {
				return SavePredictionsResult{}, err
			}
			return out, nil
		})
	})
	if err != nil {
		return SavePredictionsResult{}, err
	}

	if len(res.Saved) > 0 {
		ids := make([]string, 0, len(res.Saved))
		for _, p := range res.Saved {
			ids = append(ids, p.MatchID)
		}
		s.publish(ctx, tournamentevents.PredictionsSavedV1, tournamentevents.PredictionsSavedPayloadV1{
			UserID:     userID,
			MatchIDs:   ids,
			OccurredAt: now.UTC(),
		})
	}
	return res, nil
}

// SaveLongTermBet replaces a user's tournament winner and medal picks until the
// deadline passes. Blank slots are allowed; named teams must appear in the schedule.
func (s *TournamentService) SaveLongTermBet(ctx context.Context, userID string, bet scoredomain.LongTermBet) error {
	now := s.now()
	bet = normalizeBet(bet)

	_, err := withTelemetry(s, ctx, "SaveLongTermBet", userID, func(ctx context.Context) (struct{}, error) {
		return runInTx(s, ctx, nil, func(ctx context.Context, db bun.IDB) (struct{}, error) {
			snap, err := s.repo.LoadSnapshot(ctx, db)
			if err != nil {
				return struct{}{}, err
			}
			if err := scoredomain.CheckLongTermWindow(snap.Settings, now); err != nil {
				return struct{}{}, err
			}
			if err := checkTeams(scoredomain.AllTeams(snap.Matches), bet.Winner, bet.Medals[:]...); err != nil {
				return struct{}{}, err
			}
			return struct{}{}, s.repo.UpdateLongTermBet(ctx, db, userID, bet)
		})
	})
	if err != nil {
		return err
	}

	s.publish(ctx, tournamentevents.LongTermBetSavedV1, tournamentevents.LongTermBetSavedPayloadV1{
		UserID:     userID,
		Winner:     bet.Winner,
		Medals:     bet.Medals,
		OccurredAt: now.UTC(),
	})
	return nil
}

func normalizeBet(b scoredomain.LongTermBet) scoredomain.LongTermBet {
	b.Winner = strings.TrimSpace(b.Winner)
	for i := range b.Medals {
		b.Medals[i] = strings.TrimSpace(b.Medals[i])
	}
	return b
}

// checkTeams accepts blanks, and anything at all while the schedule is still empty.
func checkTeams(known []string, first string, rest ...string) error {
	if len(known) == 0 {
		return nil
	}
	for _, t := range append([]string{first}, rest...) {
		if t != "" && !slices.Contains(known, t) {
			return fmt.Errorf("%w: %s", ErrUnknownTeam, t)
		}
	}
	return nil
}
