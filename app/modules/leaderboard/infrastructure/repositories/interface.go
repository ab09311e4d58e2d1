package leaderboarddb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository persists what the leaderboard publishes.
type Repository interface {
	// MarkAnnounced records kind/day as announced. It reports false when it
	// already was, in which case nothing is written.
	MarkAnnounced(ctx context.Context, db bun.IDB, a *Announcement) (bool, error)
	// ForgetAnnouncement undoes MarkAnnounced after a failed publish.
	ForgetAnnouncement(ctx context.Context, db bun.IDB, kind, day string) error
	ListAnnouncements(ctx context.Context, db bun.IDB, kind string, limit int) ([]Announcement, error)

	// ReplaceStandings stores the current table, dropping users no longer in it.
	ReplaceStandings(ctx context.Context, db bun.IDB, rows []Standing) error
	GetStandings(ctx context.Context, db bun.IDB) ([]Standing, error)
}
