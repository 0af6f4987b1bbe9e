// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

package catalog

import "errors"

var (
	// ErrNotFound indicates the requested catalog entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotOwner indicates the caller tried to modify a sweet owned by
	// someone else.
	ErrNotOwner = errors.New("not the owner of this sweet")

	// ErrDuplicateName indicates a category or ingredient with the same
	// name already exists.
	ErrDuplicateName = errors.New("name already exists")

	// ErrInvalidPrice indicates a negative price.
	ErrInvalidPrice = errors.New("price must not be negative")
)
