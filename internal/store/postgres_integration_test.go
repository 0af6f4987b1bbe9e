// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

//go:build integration

package store_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/candystore/candystore/internal/auth"
	authpg "github.com/candystore/candystore/internal/auth/postgres"
	"github.com/candystore/candystore/internal/store"
)

// setupPostgres starts a PostgreSQL container, connects a pool, and applies
// all migrations.
func setupPostgres() (*pgxpool.Pool, func(), error) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("candystore_test"),
		postgres.WithUsername("candystore"),
		postgres.WithPassword("candystore"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, nil, err
	}

	migrator, err := store.NewMigrator(connStr)
	if err != nil {
		return nil, nil, err
	}
	if err := migrator.Up(); err != nil {
		return nil, nil, err
	}
	if err := migrator.Close(); err != nil {
		return nil, nil, err
	}

	pool, err := store.Connect(ctx, connStr)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		pool.Close()
		_ = container.Terminate(ctx)
	}
	return pool, cleanup, nil
}

var _ = Describe("Postgres storage", func() {
	var (
		pool    *pgxpool.Pool
		cleanup func()
		users   *authpg.UserRepository
		tokens  *authpg.TokenRepository
	)

	BeforeEach(func() {
		var err error
		pool, cleanup, err = setupPostgres()
		Expect(err).NotTo(HaveOccurred())
		users = authpg.NewUserRepository(pool)
		tokens = authpg.NewTokenRepository(pool)
	})

	AfterEach(func() {
		cleanup()
	})

	Describe("UserRepository", func() {
		It("round-trips a user", func() {
			ctx := context.Background()
			user := &auth.User{Email: "ann@example.com", Name: "Ann", HashedPassword: "salt$digest", IsActive: true}
			Expect(users.Insert(ctx, user)).To(Succeed())
			Expect(user.ID).NotTo(BeZero())

			found, err := users.FindByEmail(ctx, "ann@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(user.ID))
			Expect(found.HashedPassword).To(Equal("salt$digest"))
		})

		It("rejects a duplicate email via the unique constraint", func() {
			ctx := context.Background()
			first := &auth.User{Email: "dup@example.com", Name: "First", HashedPassword: "a$b", IsActive: true}
			Expect(users.Insert(ctx, first)).To(Succeed())

			second := &auth.User{Email: "dup@example.com", Name: "Second", HashedPassword: "c$d", IsActive: true}
			err := users.Insert(ctx, second)
			Expect(err).To(MatchError(auth.ErrDuplicateEmail))
		})

		It("treats email lookup as byte-exact", func() {
			ctx := context.Background()
			user := &auth.User{Email: "Case@example.com", Name: "Case", HashedPassword: "a$b", IsActive: true}
			Expect(users.Insert(ctx, user)).To(Succeed())

			_, err := users.FindByEmail(ctx, "case@example.com")
			Expect(err).To(MatchError(auth.ErrNotFound))
		})
	})

	Describe("TokenRepository", func() {
		var owner *auth.User

		BeforeEach(func() {
			owner = &auth.User{Email: "owner@example.com", Name: "Owner", HashedPassword: "a$b", IsActive: true}
			Expect(users.Insert(context.Background(), owner)).To(Succeed())
		})

		It("finds an unexpired token and hides an expired one", func() {
			ctx := context.Background()
			now := time.Now().UTC()

			live := &auth.Token{Value: "livevalue", UserID: owner.ID, Expires: now.Add(time.Hour), Type: auth.TokenType}
			Expect(tokens.Insert(ctx, live)).To(Succeed())

			stale := &auth.Token{Value: "stalevalue", UserID: owner.ID, Expires: now.Add(-time.Hour), Type: auth.TokenType}
			Expect(tokens.Insert(ctx, stale)).To(Succeed())

			found, err := tokens.FindValidByValue(ctx, "livevalue", now)
			Expect(err).NotTo(HaveOccurred())
			Expect(found.UserID).To(Equal(owner.ID))

			_, err = tokens.FindValidByValue(ctx, "stalevalue", now)
			Expect(err).To(MatchError(auth.ErrNotFound))
		})

		It("rejects a token for a missing user", func() {
			ctx := context.Background()
			orphan := &auth.Token{Value: "orphanvalue", UserID: owner.ID + 999, Expires: time.Now().Add(time.Hour), Type: auth.TokenType}
			err := tokens.Insert(ctx, orphan)
			Expect(err).To(MatchError(auth.ErrStorageIntegrity))
		})

		It("removes tokens when their user is deleted", func() {
			ctx := context.Background()
			now := time.Now().UTC()
			token := &auth.Token{Value: "cascadevalue", UserID: owner.ID, Expires: now.Add(time.Hour), Type: auth.TokenType}
			Expect(tokens.Insert(ctx, token)).To(Succeed())

			_, err := pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, owner.ID)
			Expect(err).NotTo(HaveOccurred())

			_, err = tokens.FindValidByValue(ctx, "cascadevalue", now)
			Expect(err).To(MatchError(auth.ErrNotFound))
		})
	})

	Describe("Migrator", func() {
		It("reports the current version as clean", func() {
			connStr := pool.Config().ConnString()
			migrator, err := store.NewMigrator(connStr)
			Expect(err).NotTo(HaveOccurred())
			defer migrator.Close() //nolint:errcheck // test cleanup

			version, dirty, err := migrator.Version()
			Expect(err).NotTo(HaveOccurred())
			Expect(dirty).To(BeFalse())
			Expect(version).To(Equal(uint(2)))

			pending, err := migrator.PendingMigrations()
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(BeEmpty())
		})
	})
})
