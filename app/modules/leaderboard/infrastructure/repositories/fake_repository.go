package leaderboarddb

import (
	"context"

	"github.com/uptrace/bun"
)

// FakeRepository is a programmable Repository for tests in other packages.
type FakeRepository struct {
	trace []string

	MarkAnnouncedFn      func(ctx context.Context, db bun.IDB, a *Announcement) (bool, error)
	ForgetAnnouncementFn func(ctx context.Context, db bun.IDB, kind, day string) error
	ListAnnouncementsFn  func(ctx context.Context, db bun.IDB, kind string, limit int) ([]Announcement, error)
	ReplaceStandingsFn   func(ctx context.Context, db bun.IDB, rows []Standing) error
	GetStandingsFn       func(ctx context.Context, db bun.IDB) ([]Standing, error)
}

func (f *FakeRepository) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the calls made so far, in order.
func (f *FakeRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRepository) MarkAnnounced(ctx context.Context, db bun.IDB, a *Announcement) (bool, error) {
	f.record("MarkAnnounced")
	if f.MarkAnnouncedFn != nil {
		return f.MarkAnnouncedFn(ctx, db, a)
	}
	return true, nil
}

func (f *FakeRepository) ForgetAnnouncement(ctx context.Context, db bun.IDB, kind, day string) error {
	f.record("ForgetAnnouncement")
	if f.ForgetAnnouncementFn != nil {
		return f.ForgetAnnouncementFn(ctx, db, kind, day)
	}
	return nil
}

func (f *FakeRepository) ListAnnouncements(ctx context.Context, db bun.IDB, kind string, limit int) ([]Announcement, error) {
	f.record("ListAnnouncements")
	if f.ListAnnouncementsFn != nil {
		return f.ListAnnouncementsFn(ctx, db, kind, limit)
	}
	return nil, nil
}

func (f *FakeRepository) ReplaceStandings(ctx context.Context, db bun.IDB, rows []Standing) error {
	f.record("ReplaceStandings")
	if f.ReplaceStandingsFn != nil {
		return f.ReplaceStandingsFn(ctx, db, rows)
	}
	return nil
}

func (f *FakeRepository) GetStandings(ctx context.Context, db bun.IDB) ([]Standing, error) {
	f.record("GetStandings")
	if f.GetStandingsFn != nil {
		return f.GetStandingsFn(ctx, db)
	}
	return nil, nil
}

var _ Repository = (*FakeRepository)(nil)
