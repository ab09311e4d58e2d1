package leaderboardservice

import (
	"context"
	"time"

	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
)

// FakeSnapshotReader is a programmable SnapshotReader that records its calls.
type FakeSnapshotReader struct {
	trace []string

	LoadSnapshotFn func(ctx context.Context) (scoredomain.Snapshot, error)
}

func (f *FakeSnapshotReader) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeSnapshotReader) LoadSnapshot(ctx context.Context) (scoredomain.Snapshot, error) {
	f.record("LoadSnapshot")
	if f.LoadSnapshotFn != nil {
		return f.LoadSnapshotFn(ctx)
	}
	return scoredomain.Snapshot{}, nil
}

func (f *FakeSnapshotReader) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// FakeMetrics counts what the service reports.
type FakeMetrics struct {
	Attempts  map[string]int
	Successes map[string]int
	Failures  map[string]int
	Standings int
}

func NewFakeMetrics() *FakeMetrics {
	return &FakeMetrics{
		Attempts:  map[string]int{},
		Successes: map[string]int{},
		Failures:  map[string]int{},
	}
}

func (m *FakeMetrics) RecordOperationAttempt(_ context.Context, operation, _ string) {
	m.Attempts[operation]++
}

func (m *FakeMetrics) RecordOperationSuccess(_ context.Context, operation, _ string) {
	m.Successes[operation]++
}

func (m *FakeMetrics) RecordOperationFailure(_ context.Context, operation, _ string) {
	m.Failures[operation]++
}

func (m *FakeMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}

func (m *FakeMetrics) RecordStandingsSize(_ context.Context, users int) {
	m.Standings = users
}
