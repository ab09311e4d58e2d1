package leaderboardqueue

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"
)

type dailyBestAnnouncer interface {
	AnnounceYesterday(ctx context.Context) (bool, error)
}

// DailyBestWorker runs the periodic Daily Best announcement.
type DailyBestWorker struct {
	river.WorkerDefaults[DailyBestJob]
	announcer dailyBestAnnouncer
	logger    *slog.Logger
}

func NewDailyBestWorker(logger *slog.Logger, announcer dailyBestAnnouncer) *DailyBestWorker {
	return &DailyBestWorker{announcer: announcer, logger: logger}
}

func (w *DailyBestWorker) Work(ctx context.Context, job *river.Job[DailyBestJob]) error {
	announced, err := w.announcer.AnnounceYesterday(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Daily best job failed",
			slog.Int64("job_id", job.ID),
			slog.Int("attempt", job.Attempt),
			slog.Any("error", err),
		)
		return err
	}
	w.logger.DebugContext(ctx, "Daily best job finished",
		slog.Int64("job_id", job.ID),
		slog.Bool("announced", announced),
	)
	return nil
}
