package leaderboarddb

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct{}

func NewRepository() Repository {
	return &Impl{}
}

func (r *Impl) MarkAnnounced(ctx context.Context, db bun.IDB, a *Announcement) (bool, error) {
	if a.AnnouncedAt.IsZero() {
		a.AnnouncedAt = time.Now().UTC()
	}
	res, err := db.NewInsert().
		Model(a).
		On("CONFLICT (kind, day) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("leaderboarddb.MarkAnnounced: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("leaderboarddb.MarkAnnounced: %w", err)
	}
	return n > 0, nil
}

func (r *Impl) ForgetAnnouncement(ctx context.Context, db bun.IDB, kind, day string) error {
	_, err := db.NewDelete().
		Model((*Announcement)(nil)).
		Where("kind = ?", kind).
		Where("day = ?", day).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("leaderboarddb.ForgetAnnouncement: %w", err)
	}
	return nil
}

func (r *Impl) ListAnnouncements(ctx context.Context, db bun.IDB, kind string, limit int) ([]Announcement, error) {
	var out []Announcement
	q := db.NewSelect().
		Model(&out).
		Where("kind = ?", kind).
		Order("day DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("leaderboarddb.ListAnnouncements: %w", err)
	}
	return out, nil
}

func (r *Impl) ReplaceStandings(ctx context.Context, db bun.IDB, rows []Standing) error {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}

	del := db.NewDelete().Model((*Standing)(nil))
	if len(ids) > 0 {
		del = del.Where("user_id NOT IN (?)", bun.In(ids))
	} else {
		del = del.Where("TRUE")
	}
	if _, err := del.Exec(ctx); err != nil {
		return fmt.Errorf("leaderboarddb.ReplaceStandings: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for i := range rows {
		rows[i].UpdatedAt = now
	}
	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (user_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("rank = EXCLUDED.rank").
		Set("total = EXCLUDED.total").
		Set("trend = EXCLUDED.trend").
		Set("delta = EXCLUDED.delta").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("leaderboarddb.ReplaceStandings: %w", err)
	}
	return nil
}

func (r *Impl) GetStandings(ctx context.Context, db bun.IDB) ([]Standing, error) {
	var out []Standing
	if err := db.NewSelect().Model(&out).Order("rank ASC", "name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("leaderboarddb.GetStandings: %w", err)
	}
	return out, nil
}
