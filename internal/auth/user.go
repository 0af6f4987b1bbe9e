// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

package auth

import "context"

// User is an identity record. The auth core creates users at sign-up and
// never mutates them; deactivation and deletion happen through admin tooling.
type User struct {
	ID             int64
	Email          string
	Name           string
	HashedPassword string
	IsActive       bool
}

// UserRepository manages user persistence.
//
// Email matching is byte-exact, not case-normalized. That mirrors the rest of
// the system; see DESIGN.md before changing it.
type UserRepository interface {
	// Insert stores a new user and fills in the generated ID.
	// Returns ErrDuplicateEmail if the email is already taken; the database
	// unique constraint is the authoritative guard.
	Insert(ctx context.Context, user *User) error

	// FindByEmail retrieves a user by exact email. Returns ErrNotFound if
	// no user matches.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID retrieves a user by ID. Returns ErrNotFound if no user
	// matches.
	FindByID(ctx context.Context, id int64) (*User, error)
}
