package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the registry of all schema migrations, applied in order by
// the `db migrate` command.
var Migrations = migrate.NewMigrations()
