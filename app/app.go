package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard"
	leaderboardservice "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/application"
	"github.com/tipovacka-hokej/tipovacka/app/modules/tournament"
	"github.com/tipovacka-hokej/tipovacka/app/modules/tournament/infrastructure/timeparse"
	"github.com/tipovacka-hokej/tipovacka/app/modules/tournament/infrastructure/workbook"
	"github.com/tipovacka-hokej/tipovacka/config"
	"github.com/tipovacka-hokej/tipovacka/internal/eventbus"
	"github.com/tipovacka-hokej/tipovacka/internal/observability"
)

// App wires the modules to the database, the event bus and the HTTP server.
type App struct {
	Config            *config.Config
	Observability     observability.Observability
	DB                *bun.DB
	EventBus          eventbus.EventBus
	Router            *message.Router
	TournamentModule  *tournament.Module
	LeaderboardModule *leaderboard.Module
	Reader            leaderboardservice.SnapshotReader

	server *http.Server
	wg     sync.WaitGroup
}

// NewApp builds every dependency. Tournament data is read from the workbook when
// one is configured, otherwise from Postgres. Without a NATS URL events stay in
// process.
func NewApp(ctx context.Context, cfg *config.Config, obs observability.Observability) (*App, error) {
	logger := obs.Provider.Logger
	a := &App{Config: cfg, Observability: obs}

	if cfg.Postgres.DSN != "" {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
		a.DB = bun.NewDB(sqldb, pgdialect.New())
		if err := a.DB.PingContext(ctx); err != nil {
			a.DB.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
	}

	if cfg.NATS.URL != "" {
		bus, err := eventbus.NewNATS(ctx, eventbus.Config{URL: cfg.NATS.URL, QueueGroup: cfg.NATS.QueueGroup}, logger)
		if err != nil {
			a.closeDB()
			return nil, err
		}
		a.EventBus = bus
	} else {
		logger.WarnContext(ctx, "NATS URL not set, using in-process event bus")
		a.EventBus = eventbus.NewInMemory(logger)
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 30 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create message router: %w", err)
	}
	a.Router = router

	if a.DB != nil {
		a.TournamentModule = tournament.NewTournamentModule(ctx, cfg, obs, a.DB, a.EventBus)
		a.Reader = a.TournamentModule.TournamentService
	}
	if path := cfg.Tournament.WorkbookPath; path != "" {
		logger.InfoContext(ctx, "Reading tournament data from workbook", slog.String("path", path))
		a.Reader = workbook.NewStore(path, timeparse.New(cfg.Tournament.Location()))
	}
	if a.Reader == nil {
		a.Close()
		return nil, errors.New("no tournament data source: set a database DSN or a workbook path")
	}

	lb, err := leaderboard.NewLeaderboardModule(ctx, cfg, obs, a.Reader, a.DB, a.EventBus, a.Router)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.LeaderboardModule = lb

	return a, nil
}

// HTTPHandler serves the public API and Prometheus metrics.
func (a *App) HTTPHandler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.HandlerFor(a.Observability.Registry.Prometheus, promhttp.HandlerOpts{}))
	a.LeaderboardModule.Mount(r)
	return r
}

// Run applies configured tournament settings, starts the modules, the message
// router and the HTTP server, and blocks until ctx is done.
func (a *App) Run(ctx context.Context) error {
	logger := a.Observability.Provider.Logger

	if a.TournamentModule != nil {
		if err := a.TournamentModule.ApplyConfig(ctx); err != nil {
			return fmt.Errorf("failed to apply tournament config: %w", err)
		}
	}

	a.wg.Add(1)
	go a.LeaderboardModule.Run(ctx, &a.wg)

	routerErr := make(chan error, 1)
	go func() {
		routerErr <- a.Router.Run(ctx)
	}()

	a.server = &http.Server{
		Addr:              a.Config.HTTP.Addr,
		Handler:           a.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "Starting HTTP server", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-routerErr:
		if err != nil {
			return fmt.Errorf("message router stopped: %w", err)
		}
		return nil
	case err := <-serverErr:
		return fmt.Errorf("http server stopped: %w", err)
	}
}

// Close shuts everything down in reverse start order.
func (a *App) Close() error {
	logger := a.Observability.Provider.Logger
	var errs []error

	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := a.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server: %w", err))
		}
		cancel()
	}
	if a.LeaderboardModule != nil {
		if err := a.LeaderboardModule.Close(); err != nil {
			errs = append(errs, fmt.Errorf("leaderboard module: %w", err))
		}
	}
	a.wg.Wait()
	if a.Router != nil {
		if err := a.Router.Close(); err != nil {
			errs = append(errs, fmt.Errorf("message router: %w", err))
		}
	}
	if a.EventBus != nil {
		if err := a.EventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event bus: %w", err))
		}
	}
	if err := a.closeDB(); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}

	logger.Info("Application shut down")
	return errors.Join(errs...)
}

func (a *App) closeDB() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
