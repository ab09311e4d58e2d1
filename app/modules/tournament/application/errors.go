package tournamentservice

import (
	"errors"

	scoredomain "github.com/tipovacka-hokej/tipovacka/app/modules/score/domain"
	tournamentdb "github.com/tipovacka-hokej/tipovacka/app/modules/tournament/infrastructure/repositories"
)

var (
	// ErrInvalidResult is returned for a half-filled, negative or drawn score and
	// for an overtime flag on a result decided by more than one goal.
	ErrInvalidResult = errors.New("invalid match result")

	// ErrUnknownTeam is returned when a long-term pick names a team that does not play.
	ErrUnknownTeam = errors.New("unknown team")

	// ErrEmptyImport is returned when an import carries no fixtures.
	ErrEmptyImport = errors.New("import contains no matches")
)

var rejections = []error{
	ErrInvalidResult,
	ErrUnknownTeam,
	ErrEmptyImport,
	scoredomain.ErrGoalsOutOfRange,
	scoredomain.ErrPredictionLocked,
	scoredomain.ErrLongTermLocked,
	tournamentdb.ErrNotFound,
	tournamentdb.ErrNoRowsAffected,
}
