package leaderboardhandlers

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	leaderboardservice "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/application"
	leaderboarddb "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/infrastructure/repositories"
)

// StandingsStore keeps the last published table.
type StandingsStore interface {
	ReplaceStandings(ctx context.Context, rows []leaderboarddb.Standing) error
}

// LeaderboardHandlers serves the leaderboard over the event bus and HTTP.
type LeaderboardHandlers struct {
	service leaderboardservice.Service
	store   StandingsStore
	logger  *slog.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

// NewLeaderboardHandlers creates a new instance of LeaderboardHandlers. store may
// be nil, in which case recomputed tables are only published.
func NewLeaderboardHandlers(service leaderboardservice.Service, store StandingsStore, logger *slog.Logger, tracer trace.Tracer) *LeaderboardHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaderboardHandlers{
		service: service,
		store:   store,
		logger:  logger,
		tracer:  tracer,
		now:     time.Now,
	}
}
