// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/candystore/candystore/internal/auth"
	authpg "github.com/candystore/candystore/internal/auth/postgres"
	"github.com/candystore/candystore/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	email      string
	name       string
	password   string
	iterations int
	timeout    time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the initial admin account",
		Long: `Creates the initial admin account used to log in to the admin panel.
This command is idempotent - it will not create duplicates if run multiple times.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.email, "email", "admin@candystore.local", "admin account email")
	cmd.Flags().StringVar(&cfg.name, "name", "Admin", "admin account display name")
	cmd.Flags().StringVar(&cfg.password, "password", "", "admin account password (required)")
	cmd.Flags().IntVar(&cfg.iterations, "hash-iterations", auth.DefaultHashIterations, "PBKDF2 iteration count (must match the server's)")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, cfg *seedConfig) error {
	if cfg.password == "" {
		return oops.Code("CONFIG_INVALID").Errorf("--password is required")
	}

	databaseURL, err := databaseURLFromEnv()
	if err != nil {
		return err
	}

	// Use cmd.Context() so SIGINT/SIGTERM interrupt the seed.
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	pool, err := store.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	cmd.Println("Running migrations...")
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return err
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close() //nolint:errcheck // migration error takes precedence
		return err
	}
	if err := migrator.Close(); err != nil {
		return err
	}

	users := authpg.NewUserRepository(pool)
	tokenRepo := authpg.NewTokenRepository(pool)
	tokens, err := auth.NewTokenStore(tokenRepo, auth.DefaultTokenTTL)
	if err != nil {
		return err
	}
	resolver, err := auth.NewResolver(tokens, users)
	if err != nil {
		return err
	}
	// The stored hash does not carry its iteration count, so seeding with a
	// different count than the server would make the admin password
	// unverifiable.
	authService, err := auth.NewService(users, tokens, resolver, auth.NewPBKDF2Hasher(cfg.iterations))
	if err != nil {
		return err
	}

	user, _, err := authService.SignUp(ctx, cfg.email, cfg.name, cfg.password)
	if err != nil {
		// The unique constraint on email makes rerunning safe.
		if errors.Is(err, auth.ErrDuplicateEmail) {
			cmd.Println("Admin account already exists, skipping seed")
			slog.Info("admin account already seeded", "email", cfg.email)
			return nil
		}
		return oops.Code("SEED_FAILED").With("operation", "create admin account").Wrap(err)
	}

	cmd.Printf("Created admin account: %s\n", cfg.email)
	slog.Info("admin account created", "user_id", user.ID)
	return nil
}
