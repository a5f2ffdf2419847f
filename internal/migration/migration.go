package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*/*.sql
var embeddedMigrations embed.FS

// Set is one partition's schema: its versioned SQL directory and the
// models AutoMigrate falls back to on non-postgres dialects. Each set
// keeps its own version table so a process hosting several partitions
// against one database can apply them independently.
type Set struct {
	Area   string
	Models []any
}

// RunMigrations brings one partition's schema up to date so a fresh
// postgres instance is usable out of the box.
func RunMigrations(db *sql.DB, set Set) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, "migrations/"+set.Area)
	if err != nil {
		return fmt.Errorf("open %s migrations: %w", set.Area, err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create %s migration source: %w", set.Area, err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: "schema_migrations_" + set.Area,
	})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply %s migrations: %w", set.Area, upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}
