package main

import (
	"context"
	"fmt"
	"time"

	"github.com/septivank/fleet-admin-api/internal/config"
	"github.com/septivank/fleet-admin-api/internal/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the thresholds and devices tables",
	Long: `migrate applies the schema idempotently: it creates the thresholds and
devices tables with their unique constraints, and minimal users and vehicles
tables when the shared database does not already provide them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		timeout, _ := cmd.Flags().GetDuration("timeout")
		return runMigrate(timeout)
	},
}

func init() {
	migrateCmd.Flags().Duration("timeout", time.Minute, "Maximum time to wait for the database")
}

func runMigrate(timeout time.Duration) error {
	logger := startupLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.Database.Enabled {
		return fmt.Errorf("migrate needs a database, but DB_ENABLED=false")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	pool, err := db.Open(ctx, cfg.Database.URL, 1)
	if err != nil {
		return err
	}
	defer pool.Close()

	logger.Info("applying schema")
	if err := db.ApplySchema(ctx, pool); err != nil {
		return err
	}
	logger.Info("schema applied")
	return nil
}
