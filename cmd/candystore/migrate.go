// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

package main

import (
	"fmt"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/candystore/candystore/internal/store"
)

// databaseURLFromEnv resolves the connection URL for the maintenance
// commands, which run outside the server config.
func databaseURLFromEnv() (string, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return "", oops.Code("CONFIG_INVALID").Errorf("DATABASE_URL environment variable is required")
	}
	return databaseURL, nil
}

// migrateConfig holds configuration for the migrate subcommand.
type migrateConfig struct {
	down  bool
	steps int
	force int
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cfg := &migrateConfig{force: -1}

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Apply pending database migrations against the PostgreSQL database.
With --down all migrations are rolled back; with --steps N only N migrations
are applied (negative N rolls back).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.down, "down", false, "roll back all migrations (destructive)")
	cmd.Flags().IntVar(&cfg.steps, "steps", 0, "apply exactly this many migrations (negative rolls back)")
	cmd.Flags().IntVar(&cfg.force, "force", -1, "force the schema version without running migrations")

	cmd.AddCommand(newMigrateStatusCmd())
	return cmd
}

func runMigrate(cmd *cobra.Command, cfg *migrateConfig) error {
	databaseURL, err := databaseURLFromEnv()
	if err != nil {
		return err
	}

	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			cmd.PrintErrln("warning: failed to close migrator:", closeErr)
		}
	}()

	switch {
	case cfg.force >= 0:
		if err := migrator.Force(cfg.force); err != nil {
			return err
		}
		cmd.Printf("Forced schema version to %d\n", cfg.force)
	case cfg.down:
		if err := migrator.Down(); err != nil {
			return err
		}
		cmd.Println("Rolled back all migrations")
	case cfg.steps != 0:
		if err := migrator.Steps(cfg.steps); err != nil {
			return err
		}
		cmd.Printf("Applied %d migration step(s)\n", cfg.steps)
	default:
		if err := migrator.Up(); err != nil {
			return err
		}
		cmd.Println("Migrations completed successfully")
	}
	return nil
}

// newMigrateStatusCmd creates the migrate status subcommand.
func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Show the current schema version and any pending migrations.`,
		RunE:  runMigrateStatus,
	}
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	databaseURL, err := databaseURLFromEnv()
	if err != nil {
		return err
	}

	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			cmd.PrintErrln("warning: failed to close migrator:", closeErr)
		}
	}()

	version, dirty, err := migrator.Version()
	if err != nil {
		return err
	}

	if version == 0 {
		cmd.Println("Schema version: none (no migrations applied)")
	} else {
		name, nameErr := store.MigrationName(version)
		if nameErr != nil || name == "" {
			name = fmt.Sprintf("version %d", version)
		}
		cmd.Printf("Schema version: %d (%s)\n", version, name)
	}
	if dirty {
		cmd.Println("WARNING: schema is dirty; a migration failed partway through")
	}

	pending, err := migrator.PendingMigrations()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		cmd.Println("No pending migrations")
		return nil
	}
	cmd.Printf("Pending migrations: %d\n", len(pending))
	for _, v := range pending {
		name, nameErr := store.MigrationName(v)
		if nameErr != nil || name == "" {
			name = fmt.Sprintf("version %d", v)
		}
		cmd.Printf("  %s\n", name)
	}
	return nil
}
