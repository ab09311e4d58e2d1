package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"golang.org/x/time/rate"

	leaderboardservice "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/application"
	leaderboarddomain "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/domain"
	leaderboardhandlers "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/infrastructure/handlers"
	leaderboardqueue "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/infrastructure/queue"
	leaderboarddb "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/infrastructure/repositories"
	leaderboardrouter "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/infrastructure/router"
	"github.com/tipovacka-hokej/tipovacka/config"
	"github.com/tipovacka-hokej/tipovacka/internal/eventbus"
	"github.com/tipovacka-hokej/tipovacka/internal/observability"
)

// Module represents the leaderboard module.
type Module struct {
	LeaderboardService leaderboardservice.Service
	LeaderboardRouter  *leaderboardrouter.LeaderboardRouter
	Handlers           *leaderboardhandlers.LeaderboardHandlers
	Queue              leaderboardqueue.QueueService
	config             *config.Config
	logger             *slog.Logger
	limiter            *leaderboardhandlers.IPRateLimiter
	cancelFunc         context.CancelFunc
}

// NewLeaderboardModule creates a new instance of the Leaderboard module. db may
// be nil when tournament data comes from a workbook; the standings table and the
// Daily Best queue are then disabled.
func NewLeaderboardModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	reader leaderboardservice.SnapshotReader,
	db *bun.DB,
	eventBus eventbus.EventBus,
	router *message.Router,
) (*Module, error) {
	logger := obs.Provider.Logger
	metrics := obs.Registry.Metrics
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "leaderboard.NewLeaderboardModule called")

	engine := leaderboarddomain.NewEngine(cfg.Rules(), cfg.Tournament.Location())
	service := leaderboardservice.NewLeaderboardService(reader, engine, cfg.Tournament.EntryFee, logger, metrics, tracer)

	// standings stays a nil interface without a database; a nil *Store would not compare equal to nil.
	var (
		store     *leaderboarddb.Store
		standings leaderboardhandlers.StandingsStore
	)
	if db != nil {
		store = leaderboarddb.NewStore(leaderboarddb.NewRepository(), db)
		standings = store
	}

	handlers := leaderboardhandlers.NewLeaderboardHandlers(service, standings, logger, tracer)

	lbRouter := leaderboardrouter.NewLeaderboardRouter(logger, router, eventBus, eventBus, tracer, obs.Registry.Prometheus)
	if err := lbRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure leaderboard router: %w", err)
	}

	module := &Module{
		LeaderboardService: service,
		LeaderboardRouter:  lbRouter,
		Handlers:           handlers,
		config:             cfg,
		logger:             logger,
		limiter:            leaderboardhandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst),
	}

	if cfg.Queue.Enabled && store != nil {
		announcer := leaderboardqueue.NewAnnouncer(service, store, eventBus, logger)
		queue, err := leaderboardqueue.NewService(ctx, cfg.Postgres.DSN, cfg.Queue.DailyBestInterval, announcer, logger, metrics)
		if err != nil {
			return nil, fmt.Errorf("failed to create leaderboard queue: %w", err)
		}
		module.Queue = queue
	}

	return module, nil
}

// Mount registers the public read API on r.
func (m *Module) Mount(r chi.Router) {
	leaderboardhandlers.Routes(r, m.Handlers, m.limiter, m.config.HTTP.AllowedOrigins)
}

// Run starts the leaderboard module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting leaderboard module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.Queue != nil {
		if err := m.Queue.Start(ctx); err != nil {
			m.logger.ErrorContext(ctx, "Failed to start leaderboard queue", slog.Any("error", err))
		}
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Leaderboard module goroutine stopped")
}

// Close stops the leaderboard module and cleans up resources.
func (m *Module) Close() error {
	m.logger.Info("Stopping leaderboard module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.Queue != nil {
		if err := m.Queue.Stop(context.Background()); err != nil {
			return err
		}
	}

	m.logger.Info("Leaderboard module stopped")
	return nil
}
