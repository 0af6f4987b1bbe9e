// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/candystore/candystore/internal/admin"
	"github.com/candystore/candystore/internal/auth"
	authpg "github.com/candystore/candystore/internal/auth/postgres"
	"github.com/candystore/candystore/internal/catalog"
	catalogpg "github.com/candystore/candystore/internal/catalog/postgres"
	"github.com/candystore/candystore/internal/config"
	"github.com/candystore/candystore/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// application bundles the wired services for the serve command.
type application struct {
	auth     *auth.Service
	catalog  *catalog.Service
	admin    *admin.Gateway
	sessions *admin.SessionRegistry
}

// Ready reports whether all services are wired.
func (a *application) Ready() bool {
	return a != nil && a.auth != nil && a.catalog != nil && a.admin != nil
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the candystore server",
		Long: `Start the candystore server: connects to PostgreSQL, wires the
authentication, catalog, and admin services, and serves metrics and
health probes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, cmd, nil)
		},
	}

	cmd.Flags().String("database-url", "", "PostgreSQL connection URL")
	cmd.Flags().String("metrics-addr", ":9090", "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("log-format", "json", "log format (json or text)")
	cmd.Flags().Duration("token-ttl", auth.DefaultTokenTTL, "bearer token lifetime")
	cmd.Flags().Int("hash-iterations", auth.DefaultHashIterations, "PBKDF2 iteration count")
	cmd.Flags().Bool("auto-migrate", false, "apply pending migrations on startup")

	return cmd
}

// runServe starts the server with injectable dependencies. A nil deps uses
// the default implementations.
func runServe(ctx context.Context, cfg *config.Config, cmd *cobra.Command, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	deps.applyDefaults()

	logging.SetDefault("candystore", version, cfg.LogFormat)

	slog.Info("starting candystore server",
		"metrics_addr", cfg.MetricsAddr,
		"log_format", cfg.LogFormat,
		"auto_migrate", cfg.AutoMigrate,
	)

	if cfg.AutoMigrate {
		migrator, err := deps.MigratorFactory(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to create migrator: %w", err)
		}
		if err := migrator.Up(); err != nil {
			_ = migrator.Close() //nolint:errcheck // migration error takes precedence
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		if err := migrator.Close(); err != nil {
			return fmt.Errorf("failed to close migrator: %w", err)
		}
		slog.Info("migrations applied")
	}

	pool, err := deps.PoolFactory(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	slog.Info("connected to database")

	app, err := wireServices(pool, cfg)
	if err != nil {
		return fmt.Errorf("failed to wire services: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var obsServer ObservabilityServer
	if cfg.MetricsAddr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.MetricsAddr, app.Ready)
		auth.RegisterMetrics(obsServer.Registry())
		catalog.RegisterMetrics(obsServer.Registry())

		obsErrChan, err := obsServer.Start()
		if err != nil {
			return fmt.Errorf("failed to start observability server: %w", err)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		slog.Info("observability server started", "addr", obsServer.Addr())
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("Candystore server started")
	slog.Info("candystore server ready")

	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

// wireServices builds the service graph on top of a connection pool.
func wireServices(pool *pgxpool.Pool, cfg *config.Config) (*application, error) {
	users := authpg.NewUserRepository(pool)
	tokenRepo := authpg.NewTokenRepository(pool)

	tokens, err := auth.NewTokenStore(tokenRepo, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	resolver, err := auth.NewResolver(tokens, users)
	if err != nil {
		return nil, err
	}
	hasher := auth.NewPBKDF2Hasher(cfg.HashIterations)
	authService, err := auth.NewService(users, tokens, resolver, hasher)
	if err != nil {
		return nil, err
	}

	catalogService, err := catalog.NewService(
		catalogpg.NewSweetRepository(pool),
		catalogpg.NewCategoryRepository(pool),
		catalogpg.NewIngredientRepository(pool),
	)
	if err != nil {
		return nil, err
	}

	sessions := admin.NewSessionRegistry()
	adminGateway, err := admin.NewGateway(authService, sessions)
	if err != nil {
		return nil, err
	}

	return &application{
		auth:     authService,
		catalog:  catalogService,
		admin:    adminGateway,
		sessions: sessions,
	}, nil
}

// monitorServerErrors cancels the run context when a background server fails.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errChan <-chan error, name string) {
	select {
	case err, ok := <-errChan:
		if ok && err != nil {
			slog.Error("server failed", "server", name, "error", err)
			cancel()
		}
	case <-ctx.Done():
	}
}
