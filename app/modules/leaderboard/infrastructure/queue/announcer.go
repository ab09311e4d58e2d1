package leaderboardqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	leaderboardservice "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/application"
	leaderboardevents "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/events"
	leaderboarddb "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/infrastructure/repositories"
	"github.com/tipovacka-hokej/tipovacka/internal/handlerwrapper"
)


// DailyBestSource resolves the previous day's Daily Best.
type DailyBestSource interface {
	YesterdayDailyBest(ctx context.Context) (leaderboardservice.DailyBestReport, error)
}

// AnnouncementStore remembers which days were already announced.
type AnnouncementStore interface {
	MarkAnnounced(ctx context.Context, a *leaderboarddb.Announcement) (bool, error)
	ForgetAnnouncement(ctx context.Context, kind, day string) error
}

// Announcer publishes each match day's Daily Best at most once.
type Announcer struct {
	source    DailyBestSource
	store     AnnouncementStore
	publisher message.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewAnnouncer(source DailyBestSource, store AnnouncementStore, publisher message.Publisher, logger *slog.Logger) *Announcer {
	return &Announcer{
		source:    source,
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// AnnounceYesterday publishes DailyBestAnnouncedV1 for the previous day. It reports
// false when there is nothing to announce or the day was announced before.
func (a *Announcer) AnnounceYesterday(ctx context.Context) (bool, error) {
	report, err := a.source.YesterdayDailyBest(ctx)
	if err != nil {
		return false, fmt.Errorf("resolve daily best: %w", err)
	}
	if !report.Found {
		a.logger.DebugContext(ctx, "No completed match day yesterday")
		return false, nil
	}

	day := report.Entry.Date.Format("2006-01-02")
	marked, err := a.store.MarkAnnounced(ctx, &leaderboarddb.Announcement{
		Kind:    leaderboarddb.AnnouncementDailyBest,
		Day:     day,
		Winners: report.Entry.Winners,
	})
	if err != nil {
		return false, fmt.Errorf("mark announced: %w", err)
	}
	if !marked {
		a.logger.DebugContext(ctx, "Daily best already announced", slog.String("day", day))
		return false, nil
	}

	payload := leaderboardevents.DailyBestAnnouncedPayloadV1{
		Day:        day,
		Matches:    report.Entry.Matches,
		DayPoints:  report.Entry.DayPoints,
		Bonus:      report.Entry.Bonus,
		Winners:    report.Names,
		OccurredAt: a.now().UTC(),
	}
	err = handlerwrapper.Publish(a.publisher, nil, []handlerwrapper.Result{{
		Topic:   leaderboardevents.DailyBestAnnouncedV1,
		Payload: payload,
	}})
	if err != nil {
		if ferr := a.store.ForgetAnnouncement(ctx, leaderboarddb.AnnouncementDailyBest, day); ferr != nil {
			a.logger.ErrorContext(ctx, "Failed to release announcement after publish error",
				slog.String("day", day),
				slog.Any("error", ferr),
			)
		}
		return false, err
	}

	a.logger.InfoContext(ctx, "Daily best announced",
		slog.String("day", day),
		slog.Any("winners", report.Names),
	)
	return true, nil
}
