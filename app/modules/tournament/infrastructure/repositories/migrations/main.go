package tournamentmigrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()

func init() {
	// Each migration takes its ID from the file name of the caller.
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
