package tournament

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"

	tournamentservice "github.com/tipovacka-hokej/tipovacka/app/modules/tournament/application"
	tournamentdb "github.com/tipovacka-hokej/tipovacka/app/modules/tournament/infrastructure/repositories"
	"github.com/tipovacka-hokej/tipovacka/app/modules/tournament/infrastructure/timeparse"
	"github.com/tipovacka-hokej/tipovacka/config"
	"github.com/tipovacka-hokej/tipovacka/internal/observability"
)

// Module represents the tournament module.
type Module struct {
	TournamentService *tournamentservice.TournamentService
	Parser            *timeparse.Parser
	config            *config.Config
	logger            *slog.Logger
}

// NewTournamentModule creates a new instance of the Tournament module.
func NewTournamentModule(ctx context.Context, cfg *config.Config, obs observability.Observability, db *bun.DB, publisher message.Publisher) *Module {
	logger := obs.Provider.Logger
	logger.InfoContext(ctx, "tournament.NewTournamentModule called")

	service := tournamentservice.NewTournamentService(
		tournamentdb.NewRepository(),
		logger,
		obs.Registry.Metrics,
		obs.Registry.Tracer,
		db,
		publisher,
		cfg.Rules(),
	)

	return &Module{
		TournamentService: service,
		Parser:            timeparse.New(cfg.Tournament.Location()),
		config:            cfg,
		logger:            logger,
	}
}

// ApplyConfig stores the long-term deadline and official results named in the
// configuration. Unset values leave the stored settings untouched.
func (m *Module) ApplyConfig(ctx context.Context) error {
	t := m.config.Tournament
	if t.LongTermDeadline != "" {
		deadline, err := m.Parser.Parse(t.LongTermDeadline, time.Now())
		if err != nil {
			return fmt.Errorf("long-term deadline: %w", err)
		}
		if err := m.TournamentService.SetLongTermDeadline(ctx, deadline); err != nil {
			return err
		}
	}

	if official := t.Official(); official.Concluded() {
		if err := m.TournamentService.SetOfficialResults(ctx, official); err != nil {
			return err
		}
	}
	return nil
}
