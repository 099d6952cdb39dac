package database

import (
	"database/sql"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const (
	PgxDriverName   = "pgx"
	PostgresDialect = "postgres"
)

// MigrateDatabase applies every pending goose migration found in dir of the
// given filesystem.
func MigrateDatabase(databaseUrl string, migrations fs.FS, dir string) error {
	db, err := sql.Open(PgxDriverName, databaseUrl)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations)

	if err := goose.SetDialect(PostgresDialect); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
