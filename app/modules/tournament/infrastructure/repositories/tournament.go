package tournamentdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
)

// Impl implements Repository on Postgres.
type Impl struct{}

// NewRepository returns the bun-backed repository.
func NewRepository() Repository {
	return &Impl{}
}

var _ Repository = (*Impl)(nil)

func (r *Impl) LoadSnapshot(ctx context.Context, db bun.IDB) (scoredomain.Snapshot, error) {
	var (
		matches     []Match
		predictions []Prediction
		users       []User
	)

	if err := db.NewSelect().Model(&matches).Order("kickoff ASC NULLS LAST", "id ASC").Scan(ctx); err != nil {
		return scoredomain.Snapshot{}, fmt.Errorf("tournamentdb.LoadSnapshot: matches: %w", err)
	}
	if err := db.NewSelect().Model(&predictions).Order("user_id ASC", "match_id ASC").Scan(ctx); err != nil {
		return scoredomain.Snapshot{}, fmt.Errorf("tournamentdb.LoadSnapshot: predictions: %w", err)
	}
	if err := db.NewSelect().Model(&users).Order("name ASC", "id ASC").Scan(ctx); err != nil {
		return scoredomain.Snapshot{}, fmt.Errorf("tournamentdb.LoadSnapshot: users: %w", err)
	}
	settings, err := r.GetSettings(ctx, db)
	if err != nil {
		return scoredomain.Snapshot{}, err
	}

	snap := scoredomain.Snapshot{
		Matches:     make([]scoredomain.Match, 0, len(matches)),
		Predictions: make([]scoredomain.Prediction, 0, len(predictions)),
		Users:       make([]scoredomain.User, 0, len(users)),
		Settings:    settings,
	}
	for _, m := range matches {
		snap.Matches = append(snap.Matches, m.ToDomain())
	}
	for _, p := range predictions {
		snap.Predictions = append(snap.Predictions, p.ToDomain())
	}
	for _, u := range users {
		snap.Users = append(snap.Users, u.ToDomain())
	}
	return snap, nil
}

func (r *Impl) GetMatch(ctx context.Context, db bun.IDB, matchID string) (*scoredomain.Match, error) {
	m := new(Match)
	err := db.NewSelect().Model(m).Where("id = ?", matchID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("tournamentdb.GetMatch: %w", err)
	}
	out := m.ToDomain()
	return &out, nil
}

func (r *Impl) GetUser(ctx context.Context, db bun.IDB, userID string) (*scoredomain.User, error) {
	u := new(User)
	err := db.NewSelect().Model(u).Where("id = ?", userID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("tournamentdb.GetUser: %w", err)
	}
	out := u.ToDomain()
	return &out, nil
}

// GetSettings returns zero settings when the row has not been written yet.
func (r *Impl) GetSettings(ctx context.Context, db bun.IDB) (scoredomain.TournamentSettings, error) {
	s := new(Settings)
	err := db.NewSelect().Model(s).Where("id = ?", settingsRowID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return scoredomain.TournamentSettings{}, nil
		}
		return scoredomain.TournamentSettings{}, fmt.Errorf("tournamentdb.GetSettings: %w", err)
	}
	return s.ToDomain(), nil
}

func (r *Impl) UpsertMatches(ctx context.Context, db bun.IDB, matches []scoredomain.Match) error {
	if len(matches) == 0 {
		return nil
	}
	now := time.Now().UTC()
	rows := make([]Match, 0, len(matches))
	for _, m := range matches {
		row := MatchFromDomain(m)
		row.UpdatedAt = now
		rows = append(rows, row)
	}

	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("home_team = EXCLUDED.home_team").
		Set("away_team = EXCLUDED.away_team").
		Set("phase = EXCLUDED.phase").
		Set("kickoff = EXCLUDED.kickoff").
		Set("home_score = EXCLUDED.home_score").
		Set("away_score = EXCLUDED.away_score").
		Set("overtime = EXCLUDED.overtime").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tournamentdb.UpsertMatches: %w", err)
	}
	return nil
}

func (r *Impl) UpsertUsers(ctx context.Context, db bun.IDB, users []scoredomain.User) error {
	if len(users) == 0 {
		return nil
	}
	rows := make([]User, 0, len(users))
	for _, u := range users {
		rows = append(rows, UserFromDomain(u))
	}

	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("role = EXCLUDED.role").
		Set("team = EXCLUDED.team").
		Set("paid = EXCLUDED.paid").
		Set("long_term_winner = EXCLUDED.long_term_winner").
		Set("medal_1 = EXCLUDED.medal_1").
		Set("medal_2 = EXCLUDED.medal_2").
		Set("medal_3 = EXCLUDED.medal_3").
		Set("registered_at = COALESCE(u.registered_at, EXCLUDED.registered_at)").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tournamentdb.UpsertUsers: %w", err)
	}
	return nil
}

func (r *Impl) UpsertPredictions(ctx context.Context, db bun.IDB, predictions []scoredomain.Prediction) error {
	if len(predictions) == 0 {
		return nil
	}
	now := time.Now().UTC()
	// Postgres rejects a batch that touches the same key twice, so keep the last tip per key.
	latest := make(map[scoredomain.PredictionKey]int, len(predictions))
	rows := make([]Prediction, 0, len(predictions))
	for _, p := range predictions {
		key := scoredomain.PredictionKey{UserID: p.UserID, MatchID: p.MatchID}
		row := PredictionFromDomain(p)
		row.UpdatedAt = now
		if i, ok := latest[key]; ok {
			rows[i] = row
			continue
		}
		latest[key] = len(rows)
		rows = append(rows, row)
	}

	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (user_id, match_id) DO UPDATE").
		Set("home = EXCLUDED.home").
		Set("away = EXCLUDED.away").
		Set("overtime = EXCLUDED.overtime").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tournamentdb.UpsertPredictions: %w", err)
	}
	return nil
}

func (r *Impl) SaveSettings(ctx context.Context, db bun.IDB, settings scoredomain.TournamentSettings) error {
	row := SettingsFromDomain(settings)
	row.UpdatedAt = time.Now().UTC()

	_, err := db.NewInsert().
		Model(&row).
		On("CONFLICT (id) DO UPDATE").
		Set("long_term_deadline = EXCLUDED.long_term_deadline").
		Set("official_winner = EXCLUDED.official_winner").
		Set("official_medal_1 = EXCLUDED.official_medal_1").
		Set("official_medal_2 = EXCLUDED.official_medal_2").
		Set("official_medal_3 = EXCLUDED.official_medal_3").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tournamentdb.SaveSettings: %w", err)
	}
	return nil
}

func (r *Impl) UpdateMatchResult(ctx context.Context, db bun.IDB, matchID string, home, away *int, overtime bool) error {
	res, err := db.NewUpdate().
		Model((*Match)(nil)).
		Set("home_score = ?", home).
		Set("away_score = ?", away).
		Set("overtime = ?", overtime).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", matchID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tournamentdb.UpdateMatchResult: %w", err)
	}
	return requireRows(res, "tournamentdb.UpdateMatchResult")
}

func (r *Impl) UpdateLongTermBet(ctx context.Context, db bun.IDB, userID string, bet scoredomain.LongTermBet) error {
	res, err := db.NewUpdate().
		Model((*User)(nil)).
		Set("long_term_winner = ?", bet.Winner).
		Set("medal_1 = ?", bet.Medals[0]).
		Set("medal_2 = ?", bet.Medals[1]).
		Set("medal_3 = ?", bet.Medals[2]).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tournamentdb.UpdateLongTermBet: %w", err)
	}
	return requireRows(res, "tournamentdb.UpdateLongTermBet")
}

func (r *Impl) UpdatePaid(ctx context.Context, db bun.IDB, userID string, paid bool) error {
	res, err := db.NewUpdate().
		Model((*User)(nil)).
		Set("paid = ?", paid).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("tournamentdb.UpdatePaid: %w", err)
	}
	return requireRows(res, "tournamentdb.UpdatePaid")
}

func requireRows(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return ErrNoRowsAffected
	}
	return nil
}
