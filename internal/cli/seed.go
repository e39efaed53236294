package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-dwsync/internal/db"
	"github.com/pgEdge/pgedge-dwsync/internal/logging"
	"github.com/pgEdge/pgedge-dwsync/internal/seed"
)

var (
	seedFilms        int
	seedCustomers    int
	seedDays         int
	seedDropExisting bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create and populate a demo source database",
	Long: `Create the demo film-rental schema in the source database and fill it
with generated data: films, actors, categories, two stores, customers,
and rental/payment activity spread over a trailing window. Useful for
trying out the sync engine without a production source system.

Seeding an already-populated source is refused unless --drop-existing
is given.

Example:
  pgedge-dwsync seed --films 500 --customers 200 --source "postgres://..."`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().IntVar(&seedFilms, "films", 0,
		"number of films to generate (default: 200)")
	seedCmd.Flags().IntVar(&seedCustomers, "customers", 0,
		"number of customers to generate (default: 100)")
	seedCmd.Flags().IntVar(&seedDays, "days", 0,
		"days of rental activity to generate (default: 90)")
	seedCmd.Flags().BoolVar(&seedDropExisting, "drop-existing", false,
		"drop existing source schema before seeding")
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedFilms > 0 {
		cfg.Seed.Films = seedFilms
	}
	if seedCustomers > 0 {
		cfg.Seed.Customers = seedCustomers
	}
	if seedDays > 0 {
		cfg.Seed.Days = seedDays
	}
	if err := cfg.ValidateSeed(); err != nil {
		return err
	}

	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.Source, "source")
	if err != nil {
		return err
	}
	defer pool.Close()

	if seedDropExisting {
		logging.Warn().Msg("Dropping existing source schema")
		if err := seed.DropSchema(ctx, pool); err != nil {
			return err
		}
	}

	logging.Info().Msg("Creating source schema")
	if err := seed.CreateSchema(ctx, pool); err != nil {
		return err
	}

	populated, err := seed.Populated(ctx, pool)
	if err != nil {
		return err
	}
	if populated {
		return fmt.Errorf("source database already contains data; " +
			"use --drop-existing to reseed")
	}

	logging.Info().
		Int("films", cfg.Seed.Films).
		Int("customers", cfg.Seed.Customers).
		Int("days", cfg.Seed.Days).
		Msg("Seeding demo source database")

	return seed.NewSeeder().Run(ctx, pool, cfg.Seed)
}
