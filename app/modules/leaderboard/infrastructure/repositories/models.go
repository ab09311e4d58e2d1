package leaderboarddb

import (
	"time"

	"github.com/uptrace/bun"
)

// AnnouncementDailyBest is the announcement kind for a day's Daily Best winners.
const AnnouncementDailyBest = "daily_best"

// Announcement marks one announced event so a periodic job announces it once.
type Announcement struct {
	bun.BaseModel `bun:"table:leaderboard_announcements,alias:la"`

	Kind        string    `bun:"kind,pk"`
	Day         string    `bun:"day,pk"` // YYYY-MM-DD in the tournament zone
	Winners     []string  `bun:"winners,array"`
	AnnouncedAt time.Time `bun:"announced_at,nullzero,notnull,default:current_timestamp"`
}

// Standing is the last published rank of one user.
type Standing struct {
	bun.BaseModel `bun:"table:leaderboard_standings,alias:ls"`

	UserID    string    `bun:"user_id,pk"`
	Name      string    `bun:"name,notnull"`
	Rank      int       `bun:"rank,notnull"`
	Total     float64   `bun:"total,notnull"`
	Trend     string    `bun:"trend,notnull,default:'steady'"`
	Delta     int       `bun:"delta,notnull,default:0"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
