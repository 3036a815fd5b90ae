package database

import (
	"context"
	"fmt"
	"time"

	"github.com/pageza/recipefinder/backend/config"
	"github.com/pageza/recipefinder/backend/internal/logging"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const slowQueryThreshold = 200 * time.Millisecond

// Open creates a gorm connection for the configured driver and verifies it.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.ConnectionString())
	case "sqlite":
		dialector = sqlite.Open(cfg.ConnectionString())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	logging.Info().
		Str("driver", cfg.Driver).
		Str("host", cfg.Host).
		Str("name", cfg.Name).
		Msg("connecting to database")

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logging.NewGormLogger(slowQueryThreshold),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting database handle: %w", err)
	}

	if cfg.Driver == "sqlite" {
		// sqlite serialises writers and in-memory databases live per connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	logging.Info().Str("driver", cfg.Driver).Msg("successfully connected to database")
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck checks if the database is accessible
func HealthCheck(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
