// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

package auth

import "errors"

// Sentinel errors for the authentication core. Callers match these with
// errors.Is; the oops codes attached at the service boundary carry the
// structured context.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned by sign-up when the email is taken.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials is returned by login for both an unknown email
	// and a wrong password, deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrUnauthenticated is returned when no valid token backs a request.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInactiveAccount is returned when the token's owner is deactivated.
	ErrInactiveAccount = errors.New("account is inactive")

	// ErrMalformedCredential is returned when a stored password record is
	// missing its salt delimiter.
	ErrMalformedCredential = errors.New("malformed credential record")

	// ErrStorageIntegrity covers token value collisions and foreign-key
	// violations. Non-recoverable for the current request.
	ErrStorageIntegrity = errors.New("storage integrity violation")
)
