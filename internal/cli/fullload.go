package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-dwsync/internal/db"
	"github.com/pgEdge/pgedge-dwsync/internal/logging"
	"github.com/pgEdge/pgedge-dwsync/internal/source"
	"github.com/pgEdge/pgedge-dwsync/internal/sync"
)

var fullLoadCmd = &cobra.Command{
	Use:   "full-load",
	Short: "Rebuild the warehouse from the source database",
	Long: `Clear all synced warehouse tables and rebuild them from the current
state of the source database. The entire rebuild runs in one warehouse
transaction: readers see either the old warehouse or the new one, never
a partial load. All watermarks are set to a snapshot timestamp captured
before the first source read.

Surrogate keys are regenerated by a full load. Anything that persisted
warehouse surrogate keys must refresh them afterwards.

Example:
  pgedge-dwsync full-load --source "postgres://..." --warehouse "postgres://..."`,
	RunE: runFullLoad,
}

func runFullLoad(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateSync(); err != nil {
		return err
	}

	ctx := context.Background()

	srcPool, err := db.Connect(ctx, cfg.Source, "source")
	if err != nil {
		return err
	}
	defer srcPool.Close()

	whPool, err := db.Connect(ctx, cfg.Warehouse, "warehouse")
	if err != nil {
		return err
	}
	defer whPool.Close()

	logging.Info().Msg("Starting full load")

	engine := sync.NewEngine(source.NewReader(srcPool), whPool, cfg.Sync.OnUnresolved)
	sum, err := engine.FullLoad(ctx)
	if err != nil {
		return err
	}
	sum.Log()

	return nil
}
