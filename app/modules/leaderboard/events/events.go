// Package leaderboardevents defines what the leaderboard module publishes.
package leaderboardevents

import "time"

const (
	StandingsUpdatedV1   = "leaderboard.standings.updated.v1"
	DailyBestAnnouncedV1 = "leaderboard.dailybest.announced.v1"
	StandingsFailedV1    = "leaderboard.standings.failed.v1"
)

// StandingsRow is one line of the published table.
type StandingsRow struct {
	UserID string  `json:"user_id"`
	Name   string  `json:"name"`
	Rank   int     `json:"rank"`
	Total  float64 `json:"total"`
	Trend  string  `json:"trend"`
	Delta  int     `json:"delta"`
}

// StandingsUpdatedPayloadV1 is published after every recompute.
type StandingsUpdatedPayloadV1 struct {
	Trigger        string         `json:"trigger"`
	PlayedMatches  int            `json:"played_matches"`
	TournamentOver bool           `json:"tournament_over"`
	Rows           []StandingsRow `json:"rows"`
	ComputedAt     time.Time      `json:"computed_at"`
}

// StandingsFailedPayloadV1 reports a recompute that could not load its data.
type StandingsFailedPayloadV1 struct {
	Trigger    string    `json:"trigger"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}

// DailyBestAnnouncedPayloadV1 names the winners of one match day.
type DailyBestAnnouncedPayloadV1 struct {
	Day        string    `json:"day"`
	Matches    int       `json:"matches"`
	DayPoints  int       `json:"day_points"`
	Bonus      float64   `json:"bonus"`
	Winners    []string  `json:"winners"`
	OccurredAt time.Time `json:"occurred_at"`
}
