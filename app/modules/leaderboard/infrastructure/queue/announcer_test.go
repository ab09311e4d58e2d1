package leaderboardqueue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	leaderboardservice "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/application"
	leaderboardevents "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/events"
	leaderboarddb "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/infrastructure/repositories"
	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
)

type sourceFunc func(ctx context.Context) (leaderboardservice.DailyBestReport, error)

func (f sourceFunc) YesterdayDailyBest(ctx context.Context) (leaderboardservice.DailyBestReport, error) {
	return f(ctx)
}

type memoryStore struct {
	days      map[string]bool
	markErr   error
	forgotten []string
}

func (s *memoryStore) MarkAnnounced(_ context.Context, a *leaderboarddb.Announcement) (bool, error) {
	if s.markErr != nil {
		return false, s.markErr
	}
	if s.days == nil {
		s.days = map[string]bool{}
	}
	if s.days[a.Kind+"/"+a.Day] {
		return false, nil
	}
	s.days[a.Kind+"/"+a.Day] = true
	return true, nil
}

func (s *memoryStore) ForgetAnnouncement(_ context.Context, kind, day string) error {
	delete(s.days, kind+"/"+day)
	s.forgotten = append(s.forgotten, day)
	return nil
}

type recordingPublisher struct {
	topics   []string
	messages []*message.Message
	err      error
}

func (p *recordingPublisher) Publish(topic string, msgs ...*message.Message) error {
	if p.err != nil {
		return p.err
	}
	for _, m := range msgs {
		p.topics = append(p.topics, topic)
		p.messages = append(p.messages, m)
	}
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func yesterdayReport() leaderboardservice.DailyBestReport {
	prague, _ := time.LoadLocation("Europe/Prague")
	return leaderboardservice.DailyBestReport{
		Found: true,
		Entry: scoredomain.DailyBestEntry{
			Date:      time.Date(2026, 2, 14, 0, 0, 0, 0, prague),
			Matches:   2,
			Winners:   []string{"b", "c"},
			DayPoints: 9,
			Bonus:     0.5,
		},
		Names: []string{"Bořek", "Cyril"},
	}
}

func newTestAnnouncer(source DailyBestSource, store AnnouncementStore, pub message.Publisher) *Announcer {
	a := NewAnnouncer(source, store, pub, slog.New(slog.NewTextHandler(io.Discard, nil)))
	a.now = func() time.Time { return time.Date(2026, 2, 15, 6, 0, 0, 0, time.UTC) }
	return a
}

func TestAnnouncer_AnnounceYesterday(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes once per day", func(t *testing.T) {
		store := &memoryStore{}
		pub := &recordingPublisher{}
		a := newTestAnnouncer(sourceFunc(func(context.Context) (leaderboardservice.DailyBestReport, error) {
			return yesterdayReport(), nil
		}), store, pub)

		announced, err := a.AnnounceYesterday(ctx)
		require.NoError(t, err)
		assert.True(t, announced)

		announced, err = a.AnnounceYesterday(ctx)
		require.NoError(t, err)
		assert.False(t, announced, "second run for the same day is skipped")

		require.Len(t, pub.messages, 1)
		assert.Equal(t, []string{leaderboardevents.DailyBestAnnouncedV1}, pub.topics)

		var got leaderboardevents.DailyBestAnnouncedPayloadV1
		require.NoError(t, json.Unmarshal(pub.messages[0].Payload, &got))
		assert.Equal(t, "2026-02-14", got.Day)
		assert.Equal(t, []string{"Bořek", "Cyril"}, got.Winners)
		assert.Equal(t, 2, got.Matches)
		assert.Equal(t, 9, got.DayPoints)
		assert.Equal(t, 0.5, got.Bonus)
	})

	t.Run("nothing to announce", func(t *testing.T) {
		store := &memoryStore{}
		pub := &recordingPublisher{}
		a := newTestAnnouncer(sourceFunc(func(context.Context) (leaderboardservice.DailyBestReport, error) {
			return leaderboardservice.DailyBestReport{}, nil
		}), store, pub)

		announced, err := a.AnnounceYesterday(ctx)
		require.NoError(t, err)
		assert.False(t, announced)
		assert.Empty(t, store.days)
		assert.Empty(t, pub.messages)
	})

	t.Run("source error", func(t *testing.T) {
		a := newTestAnnouncer(sourceFunc(func(context.Context) (leaderboardservice.DailyBestReport, error) {
			return leaderboardservice.DailyBestReport{}, errors.New("db down")
		}), &memoryStore{}, &recordingPublisher{})

		_, err := a.AnnounceYesterday(ctx)
		assert.ErrorContains(t, err, "db down")
	})

	t.Run("store error", func(t *testing.T) {
		pub := &recordingPublisher{}
		a := newTestAnnouncer(sourceFunc(func(context.Context) (leaderboardservice.DailyBestReport, error) {
			return yesterdayReport(), nil
		}), &memoryStore{markErr: errors.New("locked")}, pub)

		_, err := a.AnnounceYesterday(ctx)
		assert.ErrorContains(t, err, "mark announced")
		assert.Empty(t, pub.messages)
	})

	t.Run("failed publish releases the day", func(t *testing.T) {
		store := &memoryStore{}
		pub := &recordingPublisher{err: errors.New("nats down")}
		a := newTestAnnouncer(sourceFunc(func(context.Context) (leaderboardservice.DailyBestReport, error) {
			return yesterdayReport(), nil
		}), store, pub)

		_, err := a.AnnounceYesterday(ctx)
		require.Error(t, err)
		assert.Equal(t, []string{"2026-02-14"}, store.forgotten)

		pub.err = nil
		announced, err := a.AnnounceYesterday(ctx)
		require.NoError(t, err)
		assert.True(t, announced, "retry announces the released day")
	})
}
