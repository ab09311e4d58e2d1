package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	leaderboardevents "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/events"
	leaderboardrouter "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/infrastructure/router"
	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
	tournamentevents "github.com/tipovacka-hokej/tipovacka/app/modules/tournament/events"
	"github.com/tipovacka-hokej/tipovacka/config"
	"github.com/tipovacka-hokej/tipovacka/internal/eventbus"
	"github.com/tipovacka-hokej/tipovacka/internal/observability"
)

type staticReader struct {
	snap scoredomain.Snapshot
}

func (r staticReader) LoadSnapshot(context.Context) (scoredomain.Snapshot, error) {
	return r.snap, nil
}

func TestNewLeaderboardModule_WithoutDatabase(t *testing.T) {
	t.Setenv(leaderboardrouter.TestEnvironmentFlag, leaderboardrouter.TestEnvironmentValue)

	ctx := context.Background()
	obs := observability.NewTest()
	bus := eventbus.NewInMemory(obs.Provider.Logger)
	defer bus.Close()
	wmRouter, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(obs.Provider.Logger))
	require.NoError(t, err)

	reader := staticReader{snap: scoredomain.Snapshot{
		Users: []scoredomain.User{{ID: "a", Name: "Alena"}},
		Matches: []scoredomain.Match{
			{ID: "m1", HomeTeam: "Finsko", AwayTeam: "USA", Kickoff: time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC), HomeScore: scoredomain.Goals(2), AwayScore: scoredomain.Goals(1)},
		},
		Predictions: []scoredomain.Prediction{{UserID: "a", MatchID: "m1", Home: 2, Away: 1}},
	}}

	cfg := &config.Config{}
	cfg.Queue.Enabled = true

	module, err := NewLeaderboardModule(ctx, cfg, obs, reader, nil, bus, wmRouter)
	require.NoError(t, err)
	assert.Nil(t, module.Queue, "no queue without a database")

	// The table is published without a store to persist it in.
	results, err := module.Handlers.HandleResultRecorded(ctx, &tournamentevents.ResultRecordedPayloadV1{MatchID: "m1"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, leaderboardevents.StandingsUpdatedV1, results[0].Topic)
}
