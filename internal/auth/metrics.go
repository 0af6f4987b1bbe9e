// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for authentication metrics.
const (
	StatusSuccess         = "success"
	StatusDuplicateEmail  = "duplicate_email"
	StatusInvalid         = "invalid_credentials"
	StatusUnauthenticated = "unauthenticated"
	StatusInactive        = "inactive_account"
	StatusError           = "error"
)

// SignUps is the counter for sign-up attempts.
// Use RegisterMetrics to register this with a Prometheus registry.
var SignUps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "candystore_signups_total",
		Help: "Total number of sign-up attempts",
	},
	[]string{"status"},
)

// Logins is the counter for login attempts.
// Use RegisterMetrics to register this with a Prometheus registry.
var Logins = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "candystore_logins_total",
		Help: "Total number of login attempts",
	},
	[]string{"status"},
)

// TokensIssued is the counter for issued bearer tokens.
// Use RegisterMetrics to register this with a Prometheus registry.
var TokensIssued = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "candystore_tokens_issued_total",
		Help: "Total number of bearer tokens issued",
	},
)

// Resolutions is the counter for token-to-user resolutions.
// Use RegisterMetrics to register this with a Prometheus registry.
var Resolutions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "candystore_token_resolutions_total",
		Help: "Total number of token resolutions",
	},
	[]string{"status"},
)

// RegisterMetrics registers auth package metrics with the given Prometheus
// registry. This must be called at startup to make metrics available on
// /metrics. Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(SignUps)
	reg.MustRegister(Logins)
	reg.MustRegister(TokensIssued)
	reg.MustRegister(Resolutions)
}
