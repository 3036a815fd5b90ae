package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pageza/recipefinder/backend/internal/logging"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var embedMigrations embed.FS

// newProvider returns a goose provider over the embedded migrations for driver.
func newProvider(sqlDB *sql.DB, driver string) (*goose.Provider, error) {
	var dialect goose.Dialect
	switch driver {
	case "postgres":
		dialect = goose.DialectPostgres
	case "sqlite", "sqlite3":
		dialect = goose.DialectSQLite3
		driver = "sqlite"
	default:
		return nil, fmt.Errorf("no migrations for driver %q", driver)
	}

	fsys, err := fs.Sub(embedMigrations, "migrations/"+driver)
	if err != nil {
		return nil, fmt.Errorf("failed to open migrations for %s: %w", driver, err)
	}

	provider, err := goose.NewProvider(dialect, sqlDB, fsys)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// Migrate applies every pending migration and returns the number applied.
func Migrate(ctx context.Context, sqlDB *sql.DB, driver string) (int, error) {
	provider, err := newProvider(sqlDB, driver)
	if err != nil {
		return 0, err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to apply migrations: %w", err)
	}

	for _, r := range results {
		logging.Info().
			Int64("version", r.Source.Version).
			Str("path", r.Source.Path).
			Dur("duration", r.Duration).
			Msg("applied migration")
	}
	return len(results), nil
}

// MigrateGorm runs Migrate on the pool behind a gorm connection.
func MigrateGorm(ctx context.Context, db *gorm.DB) (int, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, err
	}
	return Migrate(ctx, sqlDB, db.Dialector.Name())
}

// Rollback reverts the most recently applied migration.
func Rollback(ctx context.Context, sqlDB *sql.DB, driver string) error {
	provider, err := newProvider(sqlDB, driver)
	if err != nil {
		return err
	}

	result, err := provider.Down(ctx)
	if err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	logging.Info().Int64("version", result.Source.Version).Msg("rolled back migration")
	return nil
}

// MigrationState describes one migration for status output.
type MigrationState struct {
	Version int64
	Path    string
	Applied bool
}

// Status lists every known migration and whether it has been applied.
func Status(ctx context.Context, sqlDB *sql.DB, driver string) ([]MigrationState, error) {
	provider, err := newProvider(sqlDB, driver)
	if err != nil {
		return nil, err
	}

	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration status: %w", err)
	}

	states := make([]MigrationState, 0, len(statuses))
	for _, s := range statuses {
		states = append(states, MigrationState{
			Version: s.Source.Version,
			Path:    s.Source.Path,
			Applied: s.State == goose.StateApplied,
		})
	}
	return states, nil
}
