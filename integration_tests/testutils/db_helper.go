// Package testutils prepares databases for integration tests.
package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	leaderboardqueue "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/infrastructure/queue"
	leaderboardmigrations "github.com/tipovacka-hokej/tipovacka/app/modules/leaderboard/infrastructure/repositories/migrations"
	tournamentmigrations "github.com/tipovacka-hokej/tipovacka/app/modules/tournament/infrastructure/repositories/migrations"
)

// appTables lists every table the modules own, for truncation between tests.
var appTables = []string{
	"tournament_predictions",
	"tournament_matches",
	"tournament_users",
	"tournament_settings",
	"leaderboard_announcements",
	"leaderboard_standings",
}

// OpenDB connects bun to dsn and applies every migration, River's included.
func OpenDB(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := RunMigrations(ctx, db, dsn); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// RunMigrations runs all module migrations, then River's.
func RunMigrations(ctx context.Context, db *bun.DB, dsn string) error {
	orderedModules := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"tournament", tournamentmigrations.Migrations},
		{"leaderboard", leaderboardmigrations.Migrations},
	}

	for _, mod := range orderedModules {
		migrator := migrate.NewMigrator(db, mod.migrations,
			migrate.WithTableName("bun_migrations_"+mod.name),
			migrate.WithLocksTableName("bun_migration_locks_"+mod.name))
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to initialize %s migration tables: %w", mod.name, err)
		}
		group, err := migrator.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", mod.name, err)
		}
		if group.ID == 0 {
			log.Printf("No %s migrations to run", mod.name)
		} else {
			log.Printf("Ran %s migrations group #%d", mod.name, group.ID)
		}
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool for River migrations: %w", err)
	}
	defer pool.Close()
	return leaderboardqueue.Migrate(ctx, pool)
}

// CleanupDatabase truncates every application table and the River job table.
func CleanupDatabase(ctx context.Context, db *bun.DB) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(appTables, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM river_job"); err != nil && !strings.Contains(err.Error(), "does not exist") {
		return fmt.Errorf("failed to cleanup river jobs: %w", err)
	}
	return nil
}
