package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	leaderboarddomain "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/domain"
	leaderboardqueue "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/infrastructure/queue"
	leaderboarddb "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/infrastructure/repositories"
	"github.com/tipovacka-hokej/tipovacka/app/modules/tournament"
	"github.com/tipovacka-hokej/tipovacka/app/modules/tournament/infrastructure/timeparse"
	"github.com/tipovacka-hokej/tipovacka/app/modules/tournament/infrastructure/workbook"
	"github.com/tipovacka-hokej/tipovacka/config"
)

func requireDSN(cfg *config.Config, command string) error {
	if cfg.Postgres.DSN == "" {
		return fmt.Errorf("%s needs a database DSN", command)
	}
	return nil
}

func publishedCommand() *cli.Command {
	return &cli.Command{
		Name:  "published",
		Usage: "print the table as last published by the server",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if err := requireDSN(cfg, "published"); err != nil {
				return err
			}
			db := openDB(cfg.Postgres.DSN)
			defer db.Close()

			rows, err := leaderboarddb.NewStore(leaderboarddb.NewRepository(), db).PublishedStandings(c.Context)
			if err != nil {
				return err
			}
			return printPublished(c.App.Writer, rows)
		},
	}
}

func printPublished(w io.Writer, rows []leaderboarddb.Standing) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No standings published yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tName\tTotal\tTrend\tUpdated")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%s\t%s\n", r.Rank, r.Name, r.Total, publishedTrend(r), r.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func publishedTrend(r leaderboarddb.Standing) string {
	switch {
	case r.Trend == string(leaderboarddomain.TrendNew):
		return "new"
	case r.Delta > 0:
		return fmt.Sprintf("+%d", r.Delta)
	case r.Delta < 0:
		return fmt.Sprintf("%d", r.Delta)
	default:
		return "="
	}
}

func announcementsCommand() *cli.Command {
	return &cli.Command{
		Name:  "announcements",
		Usage: "list the Daily Best days already announced",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Value: 14, Usage: "how many days to show"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if err := requireDSN(cfg, "announcements"); err != nil {
				return err
			}
			db := openDB(cfg.Postgres.DSN)
			defer db.Close()

			store := leaderboarddb.NewStore(leaderboarddb.NewRepository(), db)
			list, err := store.Announcements(c.Context, leaderboarddb.AnnouncementDailyBest, c.Int("limit"))
			if err != nil {
				return err
			}
			return printAnnouncements(c.App.Writer, list)
		},
	}
}

func printAnnouncements(w io.Writer, list []leaderboarddb.Announcement) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Day\tWinners\tAnnounced")
	for _, a := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Day, strings.Join(a.Winners, ", "), a.AnnouncedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func announceCommand() *cli.Command {
	return &cli.Command{
		Name:  "announce",
		Usage: "enqueue yesterday's Daily Best announcement now",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if err := requireDSN(cfg, "announce"); err != nil {
				return err
			}
			obs := quietObservability(cfg)

			// Only inserts the job; a running server's workers pick it up.
			queue, err := leaderboardqueue.NewService(c.Context, cfg.Postgres.DSN, cfg.Queue.DailyBestInterval, nil, obs.Provider.Logger, obs.Registry.Metrics)
			if err != nil {
				return err
			}
			enqueueErr := queue.AnnounceNow(c.Context)
			if err := queue.Stop(c.Context); err != nil && enqueueErr == nil {
				enqueueErr = err
			}
			if enqueueErr != nil {
				return enqueueErr
			}
			fmt.Fprintln(c.App.Writer, "Daily Best announcement enqueued")
			return nil
		},
	}
}

func backupCommand() *cli.Command {
	return &cli.Command{
		Name:      "backup",
		Usage:     "write the tournament stored in Postgres to a workbook",
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
			if err := requireDSN(cfg, "backup"); err != nil {
				return err
			}
			obs := quietObservability(cfg)
			db := openDB(cfg.Postgres.DSN)
			defer db.Close()

			snap, err := tournament.NewTournamentModule(c.Context, cfg, obs, db, nil).TournamentService.LoadSnapshot(c.Context)
			if err != nil {
				return err
			}
			store := workbook.NewStore(path, timeparse.New(cfg.Tournament.Location()))
			if err := store.SaveSnapshot(c.Context, snap); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Wrote %d matches, %d users, %d predictions to %s\n",
				len(snap.Matches), len(snap.Users), len(snap.Predictions), path)
			return nil
		},
	}
}
