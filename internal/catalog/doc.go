// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

// Package catalog manages the sweets catalog: sweets with prices and
// owners, the categories and ingredients they are tagged with, and
// paginated browsing with search and price filters.
package catalog
