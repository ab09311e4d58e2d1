package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/tipovacka-hokej/tipovacka/app"
	leaderboardservice "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/application"
	leaderboarddomain "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/domain"
	"github.com/tipovacka-hokej/tipovacka/app/modules/tournament"
	"github.com/tipovacka-hokej/tipovacka/app/modules/tournament/infrastructure/timeparse"
	"github.com/tipovacka-hokej/tipovacka/app/modules/tournament/infrastructure/workbook"
	"github.com/tipovacka-hokej/tipovacka/config"
	"github.com/tipovacka-hokej/tipovacka/internal/eventbus"
	"github.com/tipovacka-hokej/tipovacka/internal/observability"
)

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if wb := c.String("workbook"); wb != "" {
		cfg.Tournament.WorkbookPath = wb
	}
	return cfg, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the event consumers, the periodic jobs and the HTTP API",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			obs := observability.Init(c.Context, config.ToObsConfig(cfg))

			application, err := app.NewApp(c.Context, cfg, obs)
			if err != nil {
				return err
			}
			runErr := application.Run(c.Context)
			if err := application.Close(); err != nil && runErr == nil {
				runErr = err
			}
			return runErr
		},
	}
}

// readOnly is a leaderboard service over whichever source the configuration names,
// without the event bus.
type readOnly struct {
	service *leaderboardservice.LeaderboardService
	db      *bun.DB
}

func (r *readOnly) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

func openDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func newReadOnly(ctx context.Context, cfg *config.Config, obs observability.Observability) (*readOnly, error) {
	ro := &readOnly{}
	var reader leaderboardservice.SnapshotReader
	if cfg.Tournament.WorkbookPath != "" {
		reader = workbook.NewStore(cfg.Tournament.WorkbookPath, timeparse.New(cfg.Tournament.Location()))
	} else {
		if cfg.Postgres.DSN == "" {
			return nil, fmt.Errorf("no tournament data source: set a database DSN or --workbook")
		}
		ro.db = openDB(cfg.Postgres.DSN)
		reader = tournament.NewTournamentModule(ctx, cfg, obs, ro.db, nil).TournamentService
	}

	engine := leaderboarddomain.NewEngine(cfg.Rules(), cfg.Tournament.Location())
	ro.service = leaderboardservice.NewLeaderboardService(reader, engine, cfg.Tournament.EntryFee,
		obs.Provider.Logger, obs.Registry.Metrics, obs.Registry.Tracer)
	return ro, nil
}

func quietObservability(cfg *config.Config) observability.Observability {
	obsCfg := config.ToObsConfig(cfg)
	if obsCfg.LogLevel == "" {
		obsCfg.LogLevel = "warn"
	}
	obs := observability.NewTest()
	obs.Provider.Logger = observability.NewLogger(os.Stderr, obsCfg)
	return obs
}

func standingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "standings",
		Usage: "print the current table",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			ro, err := newReadOnly(c.Context, cfg, quietObservability(cfg))
			if err != nil {
				return err
			}
			defer ro.Close()

			st, err := ro.service.GetStandings(c.Context)
			if err != nil {
				return err
			}
			return printStandings(c.App.Writer, st)
		},
	}
}

func printStandings(w io.Writer, st leaderboarddomain.Standings) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tName\tMatches\tSharp\tDaily\tUnderdog\tLong-term\tTotal\tTrend\t")
	for _, e := range st.Entries {
		b := e.Breakdown
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%.1f\t%d\t%d\t%.1f\t%s\t\n",
			e.Rank, e.Name, b.MatchPoints, b.Sharpshooter, b.DailyBest, b.Underdog, b.LongTerm, b.Total, trend(e.Trend))
	}
	fmt.Fprintf(tw, "\nPlayed matches: %d\t\n", st.PlayedMatches)
	return tw.Flush()
}

func trend(t leaderboarddomain.Trend) string {
	switch t.Kind {
	case leaderboarddomain.TrendUp:
		return fmt.Sprintf("+%d", t.Delta)
	case leaderboarddomain.TrendDown:
		return fmt.Sprintf("%d", t.Delta)
	case leaderboarddomain.TrendNew:
		return "new"
	default:
		return "="
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write standings and payouts to an XLSX file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Value: "standings.xlsx", Usage: "output file"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			ro, err := newReadOnly(c.Context, cfg, quietObservability(cfg))
			if err != nil {
				return err
			}
			defer ro.Close()

			body, err := ro.service.ExportStandings(c.Context)
			if err != nil {
				return err
			}
			if err := os.WriteFile(c.String("out"), body, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(c.App.Writer, "Wrote %s\n", c.String("out"))
			return nil
		},
	}
}

func chartCommand() *cli.Command {
	return &cli.Command{
		Name:      "chart",
		Usage:     "render a user's rank history as PNG",
		ArgsUsage: "USER_ID",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Value: "history.png", Usage: "output file"},
		},
		Action: func(c *cli.Context) error {
			userID := c.Args().First()
			if userID == "" {
				return fmt.Errorf("missing USER_ID")
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			ro, err := newReadOnly(c.Context, cfg, quietObservability(cfg))
			if err != nil {
				return err
			}
			defer ro.Close()

			png, err := ro.service.RankHistoryChart(c.Context, userID)
			if err != nil {
				return err
			}
			return os.WriteFile(c.String("out"), png, 0o644)
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "load a tournament workbook into Postgres",
		ArgsUsage: "WORKBOOK.xlsx",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("missing workbook path")
			}
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if cfg.Postgres.DSN == "" {
				return fmt.Errorf("import needs a database DSN")
			}
			obs := quietObservability(cfg)

			snap, err := workbook.NewStore(path, timeparse.New(cfg.Tournament.Location())).LoadSnapshot(c.Context)
			if err != nil {
				return err
			}

			db := openDB(cfg.Postgres.DSN)
			defer db.Close()

			// Announce the import so a running server recomputes.
			var bus eventbus.EventBus
			if cfg.NATS.URL != "" {
				bus, err = eventbus.NewNATS(c.Context, eventbus.Config{URL: cfg.NATS.URL, QueueGroup: cfg.NATS.QueueGroup}, obs.Provider.Logger)
				if err != nil {
					return err
				}
				defer bus.Close()
			}

			module := tournament.NewTournamentModule(c.Context, cfg, obs, db, bus)
			if err := module.TournamentService.ImportSnapshot(c.Context, snap); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Imported %d matches, %d users, %d predictions\n",
				len(snap.Matches), len(snap.Users), len(snap.Predictions))
			return nil
		},
	}
}
