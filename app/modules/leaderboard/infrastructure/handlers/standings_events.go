package leaderboardhandlers

import (
	"context"
	"fmt"
	"log/slog"

	leaderboarddomain "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/domain"
	leaderboardevents "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/events"
	leaderboarddb "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/infrastructure/repositories"
	tournamentevents "github.com/tipovacka-hokej/tipovacka/app/modules/tournament/events"
	"github.com/tipovacka-hokej/tipovacka/internal/handlerwrapper"
)

func (h *LeaderboardHandlers) HandlePredictionsSaved(ctx context.Context, payload *tournamentevents.PredictionsSavedPayloadV1) ([]handlerwrapper.Result, error) {
	return h.recompute(ctx, tournamentevents.PredictionsSavedV1)
}

func (h *LeaderboardHandlers) HandleLongTermBetSaved(ctx context.Context, payload *tournamentevents.LongTermBetSavedPayloadV1) ([]handlerwrapper.Result, error) {
	return h.recompute(ctx, tournamentevents.LongTermBetSavedV1)
}

func (h *LeaderboardHandlers) HandleResultRecorded(ctx context.Context, payload *tournamentevents.ResultRecordedPayloadV1) ([]handlerwrapper.Result, error) {
	h.logger.InfoContext(ctx, "Match result recorded", slog.String("match_id", payload.MatchID))
	return h.recompute(ctx, tournamentevents.ResultRecordedV1)
}

func (h *LeaderboardHandlers) HandleOfficialResultsSet(ctx context.Context, payload *tournamentevents.OfficialResultsSetPayloadV1) ([]handlerwrapper.Result, error) {
	return h.recompute(ctx, tournamentevents.OfficialResultsSetV1)
}

func (h *LeaderboardHandlers) HandlePaymentStatusChanged(ctx context.Context, payload *tournamentevents.PaymentStatusChangedPayloadV1) ([]handlerwrapper.Result, error) {
	return h.recompute(ctx, tournamentevents.PaymentStatusChangedV1)
}

func (h *LeaderboardHandlers) HandleSnapshotImported(ctx context.Context, payload *tournamentevents.SnapshotImportedPayloadV1) ([]handlerwrapper.Result, error) {
	return h.recompute(ctx, tournamentevents.SnapshotImportedV1)
}

// recompute runs a scoring pass, stores and publishes the new table. A pass that
// cannot load its data is reported as an event rather than retried; the next
// change recomputes anyway. A failed store is returned so the router retries.
func (h *LeaderboardHandlers) recompute(ctx context.Context, trigger string) ([]handlerwrapper.Result, error) {
	standings, err := h.service.GetStandings(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Standings recompute failed",
			slog.String("trigger", trigger),
			slog.Any("error", err),
		)
		return []handlerwrapper.Result{{
			Topic: leaderboardevents.StandingsFailedV1,
			Payload: leaderboardevents.StandingsFailedPayloadV1{
				Trigger:    trigger,
				Reason:     err.Error(),
				OccurredAt: h.now().UTC(),
			},
		}}, nil
	}

	payload := standingsUpdated(trigger, standings)
	if h.store != nil {
		if err := h.store.ReplaceStandings(ctx, storedRows(payload)); err != nil {
			return nil, fmt.Errorf("store standings: %w", err)
		}
	}

	return []handlerwrapper.Result{{
		Topic:   leaderboardevents.StandingsUpdatedV1,
		Payload: payload,
	}}, nil
}

func storedRows(p leaderboardevents.StandingsUpdatedPayloadV1) []leaderboarddb.Standing {
	rows := make([]leaderboarddb.Standing, 0, len(p.Rows))
	for _, r := range p.Rows {
		rows = append(rows, leaderboarddb.Standing{
			UserID: r.UserID,
			Name:   r.Name,
			Rank:   r.Rank,
			Total:  r.Total,
			Trend:  r.Trend,
			Delta:  r.Delta,
		})
	}
	return rows
}

func standingsUpdated(trigger string, st leaderboarddomain.Standings) leaderboardevents.StandingsUpdatedPayloadV1 {
	rows := make([]leaderboardevents.StandingsRow, 0, len(st.Entries))
	for _, e := range st.Entries {
		rows = append(rows, leaderboardevents.StandingsRow{
			UserID: e.UserID,
			Name:   e.Name,
			Rank:   e.Rank,
			Total:  e.Breakdown.Total,
			Trend:  string(e.Trend.Kind),
			Delta:  e.Trend.Delta,
		})
	}
	return leaderboardevents.StandingsUpdatedPayloadV1{
		Trigger:        trigger,
		PlayedMatches:  st.PlayedMatches,
		TournamentOver: st.TournamentOver,
		Rows:           rows,
		ComputedAt:     st.ComputedAt.UTC(),
	}
}
