package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pageza/recipefinder/backend/config"
	"github.com/pageza/recipefinder/backend/data"
	"github.com/pageza/recipefinder/backend/internal/database"
	"github.com/pageza/recipefinder/backend/internal/logging"
	"github.com/pageza/recipefinder/backend/internal/seed"
	"github.com/spf13/cobra"
)

var (
	seedFile    string
	seedMigrate bool
)

var rootCmd = &cobra.Command{
	Use:   "seed_recipes",
	Short: "Load the recipe dataset into the database",
	Long: "Load the recipe dataset into the database. Recipes whose slug already " +
		"exists are skipped, so the command can be run repeatedly.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

		raw := data.Recipes
		if seedFile != "" {
			if raw, err = os.ReadFile(seedFile); err != nil {
				return fmt.Errorf("failed to read %s: %w", seedFile, err)
			}
		}

		db, err := database.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer database.Close(db)

		ctx := cmd.Context()
		if seedMigrate {
			if _, err := database.MigrateGorm(ctx, db); err != nil {
				return err
			}
		}

		res, err := seed.LoadAndRun(ctx, db, raw)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "inserted %d recipe(s), skipped %d existing\n", res.Inserted, res.Skipped)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVarP(&seedFile, "file", "f", "", "JSON dataset to load instead of the bundled one")
	rootCmd.Flags().BoolVar(&seedMigrate, "migrate", false, "apply pending migrations before seeding")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "seed_recipes:", err)
		os.Exit(1)
	}
}
