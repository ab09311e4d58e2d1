package tournamentmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	tournamentdb "github.com/tipovacka-hokej/tipovacka/app/modules/tournament/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating tournament tables...")

		models := []any{
			(*tournamentdb.Match)(nil),
			(*tournamentdb.User)(nil),
			(*tournamentdb.Prediction)(nil),
			(*tournamentdb.Settings)(nil),
		}
		for _, model := range models {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}

		indexes := []string{
			"CREATE INDEX IF NOT EXISTS idx_tournament_matches_kickoff ON tournament_matches (kickoff)",
			"CREATE INDEX IF NOT EXISTS idx_tournament_predictions_match_id ON tournament_predictions (match_id)",
		}
		for _, stmt := range indexes {
			if _, err := db.NewRaw(stmt).Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Tournament tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping tournament tables...")

		models := []any{
			(*tournamentdb.Settings)(nil),
			(*tournamentdb.Prediction)(nil),
			(*tournamentdb.User)(nil),
			(*tournamentdb.Match)(nil),
		}
		for _, model := range models {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Tournament tables dropped successfully!")
		return nil
	})
}
