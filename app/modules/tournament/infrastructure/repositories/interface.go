package tournamentdb

import (
	"context"

	"github.com/uptrace/bun"

	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
)

// Repository defines the contract for tournament persistence.
//
// Error semantics:
//   - ErrNotFound: record does not exist
//   - ErrNoRowsAffected: UPDATE matched no rows
//   - Other errors: infrastructure failures
type Repository interface {
	// LoadSnapshot reads matches, predictions, users and settings in one pass.
	// Run it inside a read transaction to get a consistent view.
	LoadSnapshot(ctx context.Context, db bun.IDB) (scoredomain.Snapshot, error)

	GetMatch(ctx context.Context, db bun.IDB, matchID string) (*scoredomain.Match, error)
	GetUser(ctx context.Context, db bun.IDB, userID string) (*scoredomain.User, error)
	GetSettings(ctx context.Context, db bun.IDB) (scoredomain.TournamentSettings, error)

	// UpsertMatches creates or replaces fixtures, including any known results.
	UpsertMatches(ctx context.Context, db bun.IDB, matches []scoredomain.Match) error
	// UpsertUsers creates or replaces participants.
	UpsertUsers(ctx context.Context, db bun.IDB, users []scoredomain.User) error
	// UpsertPredictions stores tips; a later tip for the same match replaces the earlier one.
	UpsertPredictions(ctx context.Context, db bun.IDB, predictions []scoredomain.Prediction) error
	SaveSettings(ctx context.Context, db bun.IDB, settings scoredomain.TournamentSettings) error

	UpdateMatchResult(ctx context.Context, db bun.IDB, matchID string, home, away *int, overtime bool) error
	UpdateLongTermBet(ctx context.Context, db bun.IDB, userID string, bet scoredomain.LongTermBet) error
	UpdatePaid(ctx context.Context, db bun.IDB, userID string, paid bool) error
}
