// Package tournamentevents defines the topics and payloads published when
// tournament data changes.
package tournamentevents

import "time"

const (
	PredictionsSavedV1     = "tournament.predictions.saved.v1"
	LongTermBetSavedV1     = "tournament.longterm.saved.v1"
	ResultRecordedV1       = "tournament.match.result.recorded.v1"
	OfficialResultsSetV1   = "tournament.official.results.set.v1"
	PaymentStatusChangedV1 = "tournament.payment.status.changed.v1"
	SnapshotImportedV1     = "tournament.snapshot.imported.v1"
)

// Topics lists every topic that changes standings.
var Topics = []string{
	PredictionsSavedV1,
	LongTermBetSavedV1,
	ResultRecordedV1,
	OfficialResultsSetV1,
	PaymentStatusChangedV1,
	SnapshotImportedV1,
}

type PredictionsSavedPayloadV1 struct {
	UserID     string    `json:"user_id"`
	MatchIDs   []string  `json:"match_ids"`
	OccurredAt time.Time `json:"occurred_at"`
}

type LongTermBetSavedPayloadV1 struct {
	UserID     string    `json:"user_id"`
	Winner     string    `json:"winner"`
	Medals     [3]string `json:"medals"`
	OccurredAt time.Time `json:"occurred_at"`
}

type ResultRecordedPayloadV1 struct {
	MatchID    string    `json:"match_id"`
	HomeScore  *int      `json:"home_score,omitempty"`
	AwayScore  *int      `json:"away_score,omitempty"`
	Overtime   bool      `json:"overtime"`
	OccurredAt time.Time `json:"occurred_at"`
}

type OfficialResultsSetPayloadV1 struct {
	Winner     string    `json:"winner"`
	Medals     [3]string `json:"medals"`
	OccurredAt time.Time `json:"occurred_at"`
}

type PaymentStatusChangedPayloadV1 struct {
	UserID     string    `json:"user_id"`
	Paid       bool      `json:"paid"`
	OccurredAt time.Time `json:"occurred_at"`
}

type SnapshotImportedPayloadV1 struct {
	Matches     int       `json:"matches"`
	Users       int       `json:"users"`
	Predictions int       `json:"predictions"`
	OccurredAt  time.Time `json:"occurred_at"`
}
