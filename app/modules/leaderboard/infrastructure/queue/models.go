package leaderboardqueue

import "github.com/riverqueue/river"

// QueueName is the dedicated River queue for leaderboard jobs.
const QueueName = "leaderboard"

// DailyBestJob announces the Daily Best winners of the previous match day.
type DailyBestJob struct{}

// Kind returns the job type identifier for River
func (DailyBestJob) Kind() string { return "leaderboard_daily_best" }

func (DailyBestJob) InsertOpts() river.InsertOpts {
	return river.InsertOpts{Queue: QueueName}
}
