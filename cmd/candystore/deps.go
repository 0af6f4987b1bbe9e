// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/candystore/candystore/internal/observability"
	"github.com/candystore/candystore/internal/store"
)

// AutoMigrator is the subset of store.Migrator used during startup.
type AutoMigrator interface {
	Up() error
	Close() error
}

// ObservabilityServer is the subset of observability.Server used by serve.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Registry() prometheus.Registerer
}

// ServeDeps holds injectable dependencies for the serve command. Tests
// substitute fakes; production uses the defaults.
type ServeDeps struct {
	PoolFactory                func(ctx context.Context, databaseURL string) (*pgxpool.Pool, error)
	MigratorFactory            func(databaseURL string) (AutoMigrator, error)
	ObservabilityServerFactory func(addr string, checker observability.ReadinessChecker) ObservabilityServer
}

func (d *ServeDeps) applyDefaults() {
	if d.PoolFactory == nil {
		d.PoolFactory = store.Connect
	}
	if d.MigratorFactory == nil {
		d.MigratorFactory = func(databaseURL string) (AutoMigrator, error) {
			return store.NewMigrator(databaseURL)
		}
	}
	if d.ObservabilityServerFactory == nil {
		d.ObservabilityServerFactory = func(addr string, checker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, checker)
		}
	}
}
