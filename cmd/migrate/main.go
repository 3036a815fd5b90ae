package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pageza/recipefinder/backend/config"
	"github.com/pageza/recipefinder/backend/internal/database"
	"github.com/pageza/recipefinder/backend/internal/logging"
	"github.com/spf13/cobra"
)

var (
	migrateDriver string
	migrateDSN    string
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Apply, roll back and inspect recipe database migrations",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply every pending migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB, driver string) error {
			n, err := database.Migrate(ctx, db, driver)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
			return nil
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB, driver string) error {
			return database.Rollback(ctx, db, driver)
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List migrations and whether they are applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *sql.DB, driver string) error {
			states, err := database.Status(ctx, db, driver)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range states {
				state := "pending"
				if s.Applied {
					state = "applied"
				}
				fmt.Fprintf(out, "%05d  %-8s %s\n", s.Version, state, s.Path)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&migrateDriver, "driver", "", "database driver (postgres or sqlite); defaults to configuration")
	rootCmd.PersistentFlags().StringVar(&migrateDSN, "dsn", "", "connection string; defaults to configuration")
	rootCmd.AddCommand(upCmd, downCmd, statusCmd)
}

// withDB opens a database/sql handle for the selected driver. The gorm layer
// is not needed for migrations.
func withDB(ctx context.Context, fn func(context.Context, *sql.DB, string) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	driver := cfg.Database.Driver
	if migrateDriver != "" {
		driver = migrateDriver
	}
	dsn := cfg.Database.ConnectionString()
	if migrateDSN != "" {
		dsn = migrateDSN
	}

	sqlDriver := driver
	if driver == "sqlite" {
		sqlDriver = "sqlite3"
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	return fn(ctx, db, driver)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
