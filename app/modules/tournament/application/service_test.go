package tournamentservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
	tournamentevents "github.com/tipovacka-hokej/tipovacka/app/modules/tournament/events"
	tournamentdb "github.com/tipovacka-hokej/tipovacka/app/modules/tournament/infrastructure/repositories"
	"github.com/tipovacka-hokej/tipovacka/internal/observability/metrics"
)

var (
	cet   = time.FixedZone("CET", 3600)
	clock = time.Date(2026, 2, 11, 12, 0, 0, 0, cet)
)

func newService(repo *tournamentdb.FakeRepository, pub *FakePublisher) *TournamentService {
	var publisher message.Publisher
	if pub != nil {
		publisher = pub
	}
	svc := NewTournamentService(repo, nil, metrics.NewNoop(), nil, nil, publisher, scoredomain.DefaultRules())
	svc.now = func() time.Time { return clock }
	return svc
}

func schedule() map[string]scoredomain.Match {
	return map[string]scoredomain.Match{
		"open":    {ID: "open", HomeTeam: "Kanada", AwayTeam: "Česko", Kickoff: clock.Add(2 * time.Hour)},
		"started": {ID: "started", HomeTeam: "USA", AwayTeam: "Finsko", Kickoff: clock.Add(-time.Minute)},
	}
}

func withSchedule(f *tournamentdb.FakeRepository) {
	matches := schedule()
	f.GetUserFn = func(ctx context.Context, db bun.IDB, userID string) (*scoredomain.User, error) {
		return &scoredomain.User{ID: userID}, nil
	}
	f.GetMatchFn = func(ctx context.Context, db bun.IDB, matchID string) (*scoredomain.Match, error) {
		m, ok := matches[matchID]
		if !ok {
			return nil, tournamentdb.ErrNotFound
		}
		return &m, nil
	}
}

func TestSavePredictions(t *testing.T) {
	tests := []struct {
		name        string
		setupRepo   func(*tournamentdb.FakeRepository)
		tips        []scoredomain.Prediction
		wantSaved   []scoredomain.Prediction
		wantSkipped []string
		wantEvents  int
		wantErr     bool
		wantErrType error
	}{
		{
			name:       "stores tip and drops overtime on a two goal margin",
			setupRepo:  withSchedule,
			tips:       []scoredomain.Prediction{{MatchID: "open", Home: 3, Away: 1, Overtime: true}},
			wantSaved:  []scoredomain.Prediction{{UserID: "u1", MatchID: "open", Home: 3, Away: 1}},
			wantEvents: 1,
		},
		{
			name:      "started match is skipped",
			setupRepo: withSchedule,
			tips: []scoredomain.Prediction{
				{MatchID: "started", Home: 1, Away: 0},
				{MatchID: "open", Home: 2, Away: 1, Overtime: true},
			},
			wantSaved:   []scoredomain.Prediction{{UserID: "u1", MatchID: "open", Home: 2, Away: 1, Overtime: true}},
			wantSkipped: []string{"started"},
			wantEvents:  1,
		},
		{
			name:        "only late tips publish nothing",
			setupRepo:   withSchedule,
			tips:        []scoredomain.Prediction{{MatchID: "started", Home: 1, Away: 0}},
			wantSkipped: []string{"started"},
		},
		{
			name:        "score above the cap rejects the batch",
			setupRepo:   withSchedule,
			tips:        []scoredomain.Prediction{{MatchID: "open", Home: 21, Away: 0}},
			wantErr:     true,
			wantErrType: scoredomain.ErrGoalsOutOfRange,
		},
		{
			name:        "unknown match",
			setupRepo:   withSchedule,
			tips:        []scoredomain.Prediction{{MatchID: "nope", Home: 1, Away: 0}},
			wantErr:     true,
			wantErrType: tournamentdb.ErrNotFound,
		},
		{
			name:        "unknown user",
			setupRepo:   func(f *tournamentdb.FakeRepository) {},
			tips:        []scoredomain.Prediction{{MatchID: "open", Home: 1, Away: 0}},
			wantErr:     true,
			wantErrType: tournamentdb.ErrNotFound,
		},
		{
			name: "database error on write",
			setupRepo: func(f *tournamentdb.FakeRepository) {
				withSchedule(f)
				f.UpsertPredictionsFn = func(ctx context.Context, db bun.IDB, p []scoredomain.Prediction) error {
					return errors.New("connection reset")
				}
			},
			tips:    []scoredomain.Prediction{{MatchID: "open", Home: 1, Away: 0}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &tournamentdb.FakeRepository{}
			tt.setupRepo(repo)
			pub := NewFakePublisher()

			got, err := newService(repo, pub).SavePredictions(context.Background(), "u1", tt.tips)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantErrType != nil {
					assert.ErrorIs(t, err, tt.wantErrType)
				}
				assert.Zero(t, pub.Count(tournamentevents.PredictionsSavedV1))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSaved, got.Saved)
			assert.Equal(t, tt.wantSkipped, got.Skipped)
			assert.Equal(t, tt.wantEvents, pub.Count(tournamentevents.PredictionsSavedV1))
		})
	}
}

func TestSaveLongTermBet(t *testing.T) {
	snapshot := func(deadline time.Time) func(*tournamentdb.FakeRepository) {
		return func(f *tournamentdb.FakeRepository) {
			f.LoadSnapshotFn = func(ctx context.Context, db bun.IDB) (scoredomain.Snapshot, error) {
				return scoredomain.Snapshot{
					Matches: []scoredomain.Match{
						{ID: "1", HomeTeam: "Kanada", AwayTeam: "Česko"},
						{ID: "2", HomeTeam: "USA", AwayTeam: "Vítěz QF1"},
					},
					Settings: scoredomain.TournamentSettings{LongTermDeadline: deadline},
				}, nil
			}
		}
	}

	tests := []struct {
		name        string
		setupRepo   func(*tournamentdb.FakeRepository)
		bet         scoredomain.LongTermBet
		wantTrace   []string
		wantErrType error
	}{
		{
			name:      "before the deadline",
			setupRepo: snapshot(clock.Add(time.Hour)),
			bet:       scoredomain.LongTermBet{Winner: " Kanada ", Medals: [3]string{"Kanada", "USA", ""}},
			wantTrace: []string{"LoadSnapshot", "UpdateLongTermBet"},
		},
		{
			name:        "after the deadline",
			setupRepo:   snapshot(clock.Add(-time.Hour)),
			bet:         scoredomain.LongTermBet{Winner: "Kanada"},
			wantTrace:   []string{"LoadSnapshot"},
			wantErrType: scoredomain.ErrLongTermLocked,
		},
		{
			name:        "placeholder is not a team",
			setupRepo:   snapshot(time.Time{}),
			bet:         scoredomain.LongTermBet{Winner: "Vítěz QF1"},
			wantTrace:   []string{"LoadSnapshot"},
			wantErrType: ErrUnknownTeam,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &tournamentdb.FakeRepository{}
			tt.setupRepo(repo)
			var stored scoredomain.LongTermBet
			repo.UpdateLongTermBetFn = func(ctx context.Context, db bun.IDB, userID string, bet scoredomain.LongTermBet) error {
				stored = bet
				return nil
			}
			pub := NewFakePublisher()

			err := newService(repo, pub).SaveLongTermBet(context.Background(), "u1", tt.bet)

			assert.Equal(t, tt.wantTrace, repo.Trace())
			if tt.wantErrType != nil {
				assert.ErrorIs(t, err, tt.wantErrType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Kanada", stored.Winner)
			require.Equal(t, 1, pub.Count(tournamentevents.LongTermBetSavedV1))

			var payload tournamentevents.LongTermBetSavedPayloadV1
			require.NoError(t, pub.Decode(tournamentevents.LongTermBetSavedV1, 0, &payload))
			assert.Equal(t, "u1", payload.UserID)
			assert.Equal(t, [3]string{"Kanada", "USA", ""}, payload.Medals)
		})
	}
}

func TestRecordResult(t *testing.T) {
	tests := []struct {
		name        string
		home, away  *int
		overtime    bool
		repoErr     error
		wantErrType error
	}{
		{name: "regular result", home: scoredomain.Goals(4), away: scoredomain.Goals(1)},
		{name: "overtime win", home: scoredomain.Goals(2), away: scoredomain.Goals(3), overtime: true},
		{name: "reset to unplayed"},
		{name: "half a score", home: scoredomain.Goals(2), wantErrType: ErrInvalidResult},
		{name: "negative", home: scoredomain.Goals(-1), away: scoredomain.Goals(0), wantErrType: ErrInvalidResult},
		{name: "draw", home: scoredomain.Goals(2), away: scoredomain.Goals(2), wantErrType: ErrInvalidResult},
		{name: "goalless draw", home: scoredomain.Goals(0), away: scoredomain.Goals(0), wantErrType: ErrInvalidResult},
		{name: "overtime by two goals", home: scoredomain.Goals(4), away: scoredomain.Goals(2), overtime: true, wantErrType: ErrInvalidResult},
		{name: "unknown match", home: scoredomain.Goals(1), away: scoredomain.Goals(0), repoErr: tournamentdb.ErrNoRowsAffected, wantErrType: tournamentdb.ErrNoRowsAffected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &tournamentdb.FakeRepository{
				UpdateMatchResultFn: func(ctx context.Context, db bun.IDB, matchID string, home, away *int, overtime bool) error {
					return tt.repoErr
				},
			}
			pub := NewFakePublisher()

			err := newService(repo, pub).RecordResult(context.Background(), "m1", tt.home, tt.away, tt.overtime)

			if tt.wantErrType != nil {
				assert.ErrorIs(t, err, tt.wantErrType)
				assert.Zero(t, pub.Count(tournamentevents.ResultRecordedV1))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, pub.Count(tournamentevents.ResultRecordedV1))
		})
	}
}

func TestSetOfficialResults_KeepsDeadline(t *testing.T) {
	deadline := time.Date(2026, 2, 12, 12, 0, 0, 0, cet)
	var saved scoredomain.TournamentSettings
	repo := &tournamentdb.FakeRepository{
		GetSettingsFn: func(ctx context.Context, db bun.IDB) (scoredomain.TournamentSettings, error) {
			return scoredomain.TournamentSettings{LongTermDeadline: deadline}, nil
		},
		SaveSettingsFn: func(ctx context.Context, db bun.IDB, s scoredomain.TournamentSettings) error {
			saved = s
			return nil
		},
	}
	pub := NewFakePublisher()

	err := newService(repo, pub).SetOfficialResults(context.Background(), scoredomain.OfficialResults{
		Winner: "Kanada ",
		Medals: [3]string{"Kanada", " Česko", "USA"},
	})

	require.NoError(t, err)
	assert.True(t, saved.LongTermDeadline.Equal(deadline))
	assert.Equal(t, scoredomain.OfficialResults{Winner: "Kanada", Medals: [3]string{"Kanada", "Česko", "USA"}}, saved.Official)
	assert.Equal(t, 1, pub.Count(tournamentevents.OfficialResultsSetV1))
}

func TestSetPaymentStatus(t *testing.T) {
	repo := &tournamentdb.FakeRepository{
		UpdatePaidFn: func(ctx context.Context, db bun.IDB, userID string, paid bool) error {
			if userID == "ghost" {
				return tournamentdb.ErrNoRowsAffected
			}
			return nil
		},
	}
	pub := NewFakePublisher()
	svc := newService(repo, pub)

	require.NoError(t, svc.SetPaymentStatus(context.Background(), "u1", true))
	assert.ErrorIs(t, svc.SetPaymentStatus(context.Background(), "ghost", true), tournamentdb.ErrNoRowsAffected)

	require.Equal(t, 1, pub.Count(tournamentevents.PaymentStatusChangedV1))
	var payload tournamentevents.PaymentStatusChangedPayloadV1
	require.NoError(t, pub.Decode(tournamentevents.PaymentStatusChangedV1, 0, &payload))
	assert.True(t, payload.Paid)
}

func TestImportSnapshot(t *testing.T) {
	t.Run("writes every part in order", func(t *testing.T) {
		repo := &tournamentdb.FakeRepository{}
		pub := NewFakePublisher()

		err := newService(repo, pub).ImportSnapshot(context.Background(), scoredomain.Snapshot{
			Matches: []scoredomain.Match{{ID: "1", HomeTeam: "Kanada", AwayTeam: "USA"}},
			Users:   []scoredomain.User{{ID: "u1", Name: "Uršula"}},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"UpsertMatches", "UpsertUsers", "UpsertPredictions", "SaveSettings"}, repo.Trace())
		assert.Equal(t, 1, pub.Count(tournamentevents.SnapshotImportedV1))
	})

	t.Run("empty schedule is refused", func(t *testing.T) {
		repo := &tournamentdb.FakeRepository{}
		err := newService(repo, nil).ImportSnapshot(context.Background(), scoredomain.Snapshot{})
		assert.ErrorIs(t, err, ErrEmptyImport)
		assert.Empty(t, repo.Trace())
	})
}

func TestMissingLongTermBets(t *testing.T) {
	full := scoredomain.LongTermBet{Winner: "Kanada", Medals: [3]string{"Kanada", "USA", "Česko"}}
	users := []scoredomain.User{
		{ID: "done", LongTerm: full},
		{ID: "partial", LongTerm: scoredomain.LongTermBet{Winner: "Kanada"}},
		{ID: "none"},
	}

	tests := []struct {
		name     string
		deadline time.Time
		want     []string
	}{
		{name: "open window", deadline: clock.Add(time.Hour), want: []string{"partial", "none"}},
		{name: "closed window", deadline: clock.Add(-time.Hour), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &tournamentdb.FakeRepository{
				LoadSnapshotFn: func(ctx context.Context, db bun.IDB) (scoredomain.Snapshot, error) {
					return scoredomain.Snapshot{Users: users, Settings: scoredomain.TournamentSettings{LongTermDeadline: tt.deadline}}, nil
				},
			}

			got, err := newService(repo, nil).MissingLongTermBets(context.Background())
			require.NoError(t, err)

			var ids []string
			for _, u := range got {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestTeams(t *testing.T) {
	repo := &tournamentdb.FakeRepository{
		LoadSnapshotFn: func(ctx context.Context, db bun.IDB) (scoredomain.Snapshot, error) {
			return scoredomain.Snapshot{Matches: []scoredomain.Match{
				{HomeTeam: "USA", AwayTeam: "Kanada"},
				{HomeTeam: "Vítěz SF1", AwayTeam: "Vítěz SF2"},
			}}, nil
		},
	}

	got, err := newService(repo, nil).Teams(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Kanada", "USA"}, got)
}

func TestWithTelemetry_RecoversPanic(t *testing.T) {
	repo := &tournamentdb.FakeRepository{
		LoadSnapshotFn: func(ctx context.Context, db bun.IDB) (scoredomain.Snapshot, error) {
			panic("boom")
		},
	}

	_, err := newService(repo, nil).LoadSnapshot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in LoadSnapshot")
}
