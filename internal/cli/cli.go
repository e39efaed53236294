//-------------------------------------------------------------------------
//
// pgEdge Warehouse Sync
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-dwsync.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-dwsync/internal/config"
	"github.com/pgEdge/pgedge-dwsync/internal/logging"
	"github.com/pgEdge/pgedge-dwsync/pkg/version"
)

var (
	// Global flags
	cfgFile       string
	sourceConn    string
	warehouseConn string
	logLevel      string
	onUnresolved  string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-dwsync",
		Short: "Synchronize an OLTP rental database into a star-schema warehouse",
		Long: `pgedge-dwsync copies a normalized film-rental database into a
dimensional warehouse: conformed dimensions with stable surrogate keys,
bridge tables for many-to-many relationships, and fact tables keyed by a
pre-populated date dimension.

Two sync modes are provided. A full load rebuilds the warehouse from
scratch; an incremental run applies only rows changed since the last
sync, driven by per-entity watermarks. A validate command reconciles
row counts and revenue totals between the two databases.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-dwsync.yaml)")
	rootCmd.PersistentFlags().StringVar(&sourceConn, "source", "",
		"source (OLTP) PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&warehouseConn, "warehouse", "",
		"warehouse PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&onUnresolved, "on-unresolved", "",
		"policy for rows referencing unknown dimension keys (fail, skip)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(fullLoadCmd)
	rootCmd.AddCommand(incrementalCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(seedCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if sourceConn != "" {
		cfg.Source = sourceConn
	}
	if warehouseConn != "" {
		cfg.Warehouse = warehouseConn
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if onUnresolved != "" {
		cfg.Sync.OnUnresolved = onUnresolved
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}
