// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

package auth

import (
	"context"
	"errors"

	"github.com/samber/oops"
)

// Resolver maps a presented token to its owning user, enforcing expiry and
// active-status checks.
type Resolver struct {
	tokens *TokenStore
	users  UserRepository
}

// NewResolver creates a Resolver.
func NewResolver(tokens *TokenStore, users UserRepository) (*Resolver, error) {
	if tokens == nil {
		return nil, oops.Errorf("token store is required")
	}
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	return &Resolver{tokens: tokens, users: users}, nil
}

// Resolve returns the user owning the given token value. An unknown or
// expired token yields ErrUnauthenticated, as does a token whose owning user
// row is missing: internal inconsistency is not leaked to the caller.
// Resolve has no side effects; resolving the same token twice returns the
// same user both times.
func (r *Resolver) Resolve(ctx context.Context, value string) (*User, error) {
	if value == "" {
		return nil, oops.Code("AUTH_UNAUTHENTICATED").Wrap(ErrUnauthenticated)
	}

	token, err := r.tokens.FindValid(ctx, value)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("AUTH_UNAUTHENTICATED").Wrap(ErrUnauthenticated)
		}
		return nil, oops.Code("AUTH_RESOLVE_FAILED").
			With("operation", "find valid token").
			Wrap(err)
	}

	user, err := r.users.FindByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Orphaned token.
			return nil, oops.Code("AUTH_UNAUTHENTICATED").
				With("user_id", token.UserID).
				Wrap(ErrUnauthenticated)
		}
		return nil, oops.Code("AUTH_RESOLVE_FAILED").
			With("operation", "load token owner").
			With("user_id", token.UserID).
			Wrap(err)
	}

	return user, nil
}

// RequireActive returns ErrInactiveAccount if the user is deactivated.
// Callers treat this as a distinct condition from ErrUnauthenticated: the
// former means "explain deactivation", the latter "present credentials".
func (r *Resolver) RequireActive(user *User) error {
	if !user.IsActive {
		return oops.Code("AUTH_INACTIVE_ACCOUNT").
			With("user_id", user.ID).
			Wrap(ErrInactiveAccount)
	}
	return nil
}
