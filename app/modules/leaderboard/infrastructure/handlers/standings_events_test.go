package leaderboardhandlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/trace/noop"

	leaderboarddomain "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/domain"
	leaderboardevents "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/events"
	leaderboarddb "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/infrastructure/repositories"
	tournamentevents "github.com/tipovacka-hokej/tipovacka/app/modules/tournament/events"
	"github.com/tipovacka-hokej/tipovacka/internal/handlerwrapper"
)

var fixedNow = time.Date(2026, 2, 15, 11, 0, 0, 0, time.UTC)

type fakeStore struct {
	rows [][]leaderboarddb.Standing
	err  error
}

func (s *fakeStore) ReplaceStandings(_ context.Context, rows []leaderboarddb.Standing) error {
	s.rows = append(s.rows, rows)
	return s.err
}

func newHandlers(svc *FakeService) *LeaderboardHandlers {
	h := NewLeaderboardHandlers(svc, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), noop.NewTracerProvider().Tracer("test"))
	h.now = func() time.Time { return fixedNow }
	return h
}

func sampleStandings() leaderboarddomain.Standings {
	return leaderboarddomain.Standings{
		ComputedAt:    fixedNow,
		PlayedMatches: 2,
		Entries: []leaderboarddomain.Entry{
			{UserID: "b", Name: "Bořek", Rank: 1, Breakdown: leaderboarddomain.Breakdown{Total: 15.5}, Trend: leaderboarddomain.Trend{Kind: leaderboarddomain.TrendUp, Delta: 1, PreviousRank: 2}},
			{UserID: "a", Name: "Alena", Rank: 2, Breakdown: leaderboarddomain.Breakdown{Total: 9.5}, Trend: leaderboarddomain.Trend{Kind: leaderboarddomain.TrendDown, Delta: -1, PreviousRank: 1}},
		},
	}
}

func TestLeaderboardHandlers_Recompute(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(f *FakeService)
		invoke func(h *LeaderboardHandlers) ([]handlerwrapper.Result, error)
		want   []handlerwrapper.Result
	}{
		{
			name: "result recorded publishes the new table",
			setup: func(f *FakeService) {
				f.GetStandingsFn = func(context.Context) (leaderboarddomain.Standings, error) {
					return sampleStandings(), nil
				}
			},
			invoke: func(h *LeaderboardHandlers) ([]handlerwrapper.Result, error) {
				return h.HandleResultRecorded(context.Background(), &tournamentevents.ResultRecordedPayloadV1{MatchID: "m2"})
			},
			want: []handlerwrapper.Result{{
				Topic: leaderboardevents.StandingsUpdatedV1,
				Payload: leaderboardevents.StandingsUpdatedPayloadV1{
					Trigger:       tournamentevents.ResultRecordedV1,
					PlayedMatches: 2,
					ComputedAt:    fixedNow,
					Rows: []leaderboardevents.StandingsRow{
						{UserID: "b", Name: "Bořek", Rank: 1, Total: 15.5, Trend: "up", Delta: 1},
						{UserID: "a", Name: "Alena", Rank: 2, Total: 9.5, Trend: "down", Delta: -1},
					},
				},
			}},
		},
		{
			name: "failed recompute is reported",
			setup: func(f *FakeService) {
				f.GetStandingsFn = func(context.Context) (leaderboarddomain.Standings, error) {
					return leaderboarddomain.Standings{}, errors.New("GetStandings: load snapshot: db down")
				}
			},
			invoke: func(h *LeaderboardHandlers) ([]handlerwrapper.Result, error) {
				return h.HandleSnapshotImported(context.Background(), &tournamentevents.SnapshotImportedPayloadV1{})
			},
			want: []handlerwrapper.Result{{
				Topic: leaderboardevents.StandingsFailedV1,
				Payload: leaderboardevents.StandingsFailedPayloadV1{
					Trigger:    tournamentevents.SnapshotImportedV1,
					Reason:     "GetStandings: load snapshot: db down",
					OccurredAt: fixedNow,
				},
			}},
		},
		{
			name: "empty table still publishes",
			invoke: func(h *LeaderboardHandlers) ([]handlerwrapper.Result, error) {
				return h.HandlePaymentStatusChanged(context.Background(), &tournamentevents.PaymentStatusChangedPayloadV1{UserID: "a", Paid: true})
			},
			want: []handlerwrapper.Result{{
				Topic: leaderboardevents.StandingsUpdatedV1,
				Payload: leaderboardevents.StandingsUpdatedPayloadV1{
					Trigger:    tournamentevents.PaymentStatusChangedV1,
					Rows:       []leaderboardevents.StandingsRow{},
					ComputedAt: time.Time{}.UTC(),
				},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &FakeService{}
			if tt.setup != nil {
				tt.setup(svc)
			}
			got, err := tt.invoke(newHandlers(svc))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("results mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"GetStandings"}, svc.Trace()); diff != "" {
				t.Errorf("trace mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLeaderboardHandlers_EveryTriggerRecomputes(t *testing.T) {
	svc := &FakeService{}
	h := newHandlers(svc)
	ctx := context.Background()

	h.HandlePredictionsSaved(ctx, &tournamentevents.PredictionsSavedPayloadV1{})
	h.HandleLongTermBetSaved(ctx, &tournamentevents.LongTermBetSavedPayloadV1{})
	h.HandleOfficialResultsSet(ctx, &tournamentevents.OfficialResultsSetPayloadV1{})

	if n := len(svc.Trace()); n != 3 {
		t.Errorf("expected 3 recomputes, got %d", n)
	}
}

func TestLeaderboardHandlers_StoresTable(t *testing.T) {
	svc := &FakeService{GetStandingsFn: func(context.Context) (leaderboarddomain.Standings, error) {
		return sampleStandings(), nil
	}}

	t.Run("rows are stored before publishing", func(t *testing.T) {
		store := &fakeStore{}
		h := newHandlers(svc)
		h.store = store

		results, err := h.HandleResultRecorded(context.Background(), &tournamentevents.ResultRecordedPayloadV1{MatchID: "m1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 || len(store.rows) != 1 {
			t.Fatalf("results = %d, stores = %d", len(results), len(store.rows))
		}
		want := leaderboarddb.Standing{UserID: "b", Name: "Bořek", Rank: 1, Total: 15.5, Trend: "up", Delta: 1}
		if diff := cmp.Diff(want, store.rows[0][0]); diff != "" {
			t.Errorf("stored row mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("store failure is returned for retry", func(t *testing.T) {
		h := newHandlers(svc)
		h.store = &fakeStore{err: errors.New("db down")}

		results, err := h.HandleResultRecorded(context.Background(), &tournamentevents.ResultRecordedPayloadV1{MatchID: "m1"})
		if err == nil || results != nil {
			t.Fatalf("expected error and no results, got %v, %v", results, err)
		}
	})
}
