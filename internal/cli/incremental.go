package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-dwsync/internal/db"
	"github.com/pgEdge/pgedge-dwsync/internal/logging"
	"github.com/pgEdge/pgedge-dwsync/internal/source"
	"github.com/pgEdge/pgedge-dwsync/internal/sync"
)

var incrementalCmd = &cobra.Command{
	Use:   "incremental",
	Short: "Apply source changes since the last sync",
	Long: `Fetch rows changed since each entity's watermark and upsert them into
the warehouse by natural key, preserving existing surrogate keys. The
run commits as one warehouse transaction and advances each watermark to
the newest source timestamp observed for that entity.

Incremental runs do not refresh the bridge tables; run full-load to
pick up new film-actor or film-category associations.

Example:
  pgedge-dwsync incremental --source "postgres://..." --warehouse "postgres://..."`,
	RunE: runIncremental,
}

func runIncremental(cmd *cobra.Command, args []string) error {
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

	logging.Info().Msg("Starting incremental sync")

	engine := sync.NewEngine(source.NewReader(srcPool), whPool, cfg.Sync.OnUnresolved)
	sum, err := engine.Incremental(ctx)
	if err != nil {
		return err
	}
	sum.Log()

	return nil
}
