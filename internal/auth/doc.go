// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

// Package auth provides the authentication core for Candystore: password
// hashing, bearer-token issuance and validation, and the sign-up/login/
// current-user gateway used by the HTTP layer and the admin panel.
package auth
