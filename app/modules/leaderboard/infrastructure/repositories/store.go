package leaderboarddb

import (
	"context"

	"github.com/uptrace/bun"
)

// Store binds a Repository to a database handle for callers that do not manage
// transactions themselves.
type Store struct {
	repo Repository
	db   bun.IDB
}

func NewStore(repo Repository, db bun.IDB) *Store {
	return &Store{repo: repo, db: db}
}

func (s *Store) MarkAnnounced(ctx context.Context, a *Announcement) (bool, error) {
	return s.repo.MarkAnnounced(ctx, s.db, a)
}

func (s *Store) ForgetAnnouncement(ctx context.Context, kind, day string) error {
	return s.repo.ForgetAnnouncement(ctx, s.db, kind, day)
}

func (s *Store) ReplaceStandings(ctx context.Context, rows []Standing) error {
	return s.repo.ReplaceStandings(ctx, s.db, rows)
}

// Announcements lists what was announced for kind, newest day first.
func (s *Store) Announcements(ctx context.Context, kind string, limit int) ([]Announcement, error) {
	return s.repo.ListAnnouncements(ctx, s.db, kind, limit)
}

// PublishedStandings returns the table as of the last recompute.
func (s *Store) PublishedStandings(ctx context.Context) ([]Standing, error) {
	return s.repo.GetStandings(ctx, s.db)
}
