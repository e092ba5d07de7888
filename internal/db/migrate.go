package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"

	"studysync/backend/internal/config"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

func migrationDir(driver string) (dialect, dir string, err error) {
	switch driver {
	case config.DriverSQLite3, config.DriverSQLite:
		return "sqlite3", "migrations/sqlite", nil
	case config.DriverPostgres:
		return "postgres", "migrations/postgres", nil
	default:
		return "", "", fmt.Errorf("no migrations for driver %q", driver)
	}
}

// Migrate runs a goose command (up, down, status, version, redo, reset)
// against the embedded migrations for driver.
func Migrate(ctx context.Context, database *sql.DB, driver, command string, args ...string) error {
	dialect, dir, err := migrationDir(driver)
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, database, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// RunMigrations applies every pending migration.
func RunMigrations(ctx context.Context, database *sql.DB, driver string) error {
	return Migrate(ctx, database, driver, "up")
}
