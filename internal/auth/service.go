// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

// dummyStoredRecord is verified when a login targets an unknown email, so the
// request still pays the key-derivation cost and response time does not
// distinguish "unknown email" from "wrong password".
// This is NOT a real credential; the digest can never match any password.
//
//nolint:gosec // G101: intentionally fake record for timing-attack prevention, not a credential.
const dummyStoredRecord = "AAAAAAAAAAAA$0000000000000000000000000000000000000000000000000000000000000000"

// Service is the auth gateway: the boundary operations external request
// handlers invoke.
type Service struct {
	users    UserRepository
	tokens   *TokenStore
	resolver *Resolver
	hasher   PasswordHasher
	logger   *slog.Logger
}

// NewService creates the auth gateway Service.
func NewService(users UserRepository, tokens *TokenStore, resolver *Resolver, hasher PasswordHasher) (*Service, error) {
	return NewServiceWithLogger(users, tokens, resolver, hasher, slog.Default())
}

// NewServiceWithLogger creates the auth gateway Service with an explicit
// logger.
func NewServiceWithLogger(users UserRepository, tokens *TokenStore, resolver *Resolver, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token store is required")
	}
	if resolver == nil {
		return nil, oops.Errorf("identity resolver is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	return &Service{
		users:    users,
		tokens:   tokens,
		resolver: resolver,
		hasher:   hasher,
		logger:   logger,
	}, nil
}

// SignUp registers a new user and immediately issues a token (auto-login).
// The application-level email check is a fast path only; the database unique
// constraint is the authoritative guard, and a constraint violation from a
// concurrent sign-up surfaces as the same ErrDuplicateEmail.
func (s *Service) SignUp(ctx context.Context, email, name, password string) (*User, *Token, error) {
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		SignUps.WithLabelValues(StatusDuplicateEmail).Inc()
		return nil, nil, oops.Code("AUTH_DUPLICATE_EMAIL").Wrap(ErrDuplicateEmail)
	} else if !errors.Is(err, ErrNotFound) {
		SignUps.WithLabelValues(StatusError).Inc()
		return nil, nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "check existing email").
			Wrap(err)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		SignUps.WithLabelValues(StatusError).Inc()
		return nil, nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "generate salt").
			Wrap(err)
	}

	user := &User{
		Email:          email,
		Name:           name,
		HashedPassword: salt + "$" + s.hasher.Hash(password, salt),
		IsActive:       true,
	}

	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			// Lost the check-then-insert race to a concurrent sign-up.
			SignUps.WithLabelValues(StatusDuplicateEmail).Inc()
			return nil, nil, oops.Code("AUTH_DUPLICATE_EMAIL").Wrap(ErrDuplicateEmail)
		}
		SignUps.WithLabelValues(StatusError).Inc()
		return nil, nil, oops.Code("AUTH_SIGNUP_FAILED").
			With("operation", "insert user").
			Wrap(err)
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		SignUps.WithLabelValues(StatusError).Inc()
		return nil, nil, err
	}

	SignUps.WithLabelValues(StatusSuccess).Inc()
	TokensIssued.Inc()
	s.logger.InfoContext(ctx, "user signed up", "user_id", user.ID)
	return user, token, nil
}

// Login authenticates an email/password pair and issues a fresh token.
// Previously issued tokens stay valid; there is no revocation. Unknown email
// and wrong password return the identical error.
func (s *Service) Login(ctx context.Context, email, password string) (*Token, error) {
	user, lookupErr := s.users.FindByEmail(ctx, email)

	stored := dummyStoredRecord
	userExists := false

	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			Logins.WithLabelValues(StatusError).Inc()
			return nil, oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "find user by email").
				Wrap(lookupErr)
		}
	} else {
		stored = user.HashedPassword
		userExists = true
	}

	valid, verifyErr := s.hasher.Verify(password, stored)
	if verifyErr != nil {
		if !userExists {
			Logins.WithLabelValues(StatusInvalid).Inc()
			return nil, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
		}
		Logins.WithLabelValues(StatusError).Inc()
		return nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if !userExists || !valid {
		Logins.WithLabelValues(StatusInvalid).Inc()
		return nil, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		Logins.WithLabelValues(StatusError).Inc()
		return nil, err
	}

	Logins.WithLabelValues(StatusSuccess).Inc()
	TokensIssued.Inc()
	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return token, nil
}

// CurrentUser returns the active user backing the presented token value.
// Fails with ErrUnauthenticated or ErrInactiveAccount.
func (s *Service) CurrentUser(ctx context.Context, tokenValue string) (*User, error) {
	user, err := s.resolver.Resolve(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			Resolutions.WithLabelValues(StatusUnauthenticated).Inc()
		} else {
			Resolutions.WithLabelValues(StatusError).Inc()
		}
		return nil, err
	}
	if err := s.resolver.RequireActive(user); err != nil {
		Resolutions.WithLabelValues(StatusInactive).Inc()
		return nil, err
	}
	Resolutions.WithLabelValues(StatusSuccess).Inc()
	return user, nil
}
