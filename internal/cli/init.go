package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-dwsync/internal/db"
	"github.com/pgEdge/pgedge-dwsync/internal/logging"
	"github.com/pgEdge/pgedge-dwsync/internal/source"
	"github.com/pgEdge/pgedge-dwsync/internal/warehouse"
)

var initDropExisting bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the warehouse schema",
	Long: `Initialize the warehouse database: create the star-schema tables,
populate the date dimension, and register watermark rows for every
synced entity. Running init against an existing warehouse is a no-op
unless --drop-existing is given.

Example:
  pgedge-dwsync init --source "postgres://..." --warehouse "postgres://..."`,
	RunE: runWarehouseInit,
}

func init() {
	initCmd.Flags().BoolVar(&initDropExisting, "drop-existing", false,
		"drop existing warehouse schema before initialization")
}

func runWarehouseInit(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := context.Background()

	// The source is only pinged here; init never writes to it.
	srcPool, err := db.Connect(ctx, cfg.Source, "source")
	if err != nil {
		return err
	}
	defer srcPool.Close()

	if err := source.NewReader(srcPool).Ping(ctx); err != nil {
		return err
	}

	whPool, err := db.Connect(ctx, cfg.Warehouse, "warehouse")
	if err != nil {
		return err
	}
	defer whPool.Close()

	if initDropExisting {
		logging.Warn().Msg("Dropping existing warehouse schema")
		if err := warehouse.DropSchema(ctx, whPool); err != nil {
			return err
		}
	}

	logging.Info().Msg("Creating warehouse schema")
	if err := warehouse.CreateSchema(ctx, whPool); err != nil {
		return err
	}

	logging.Info().Msg("Populating date dimension")
	if err := warehouse.PopulateDateDim(ctx, whPool); err != nil {
		return err
	}

	marks := warehouse.NewWatermarkStore(whPool)
	if err := marks.Init(ctx, warehouse.Entities); err != nil {
		return fmt.Errorf("failed to initialize watermarks: %w", err)
	}

	logging.Info().Msg("Warehouse initialization complete")
	return nil
}
