// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Candystore Contributors

package catalog

import "github.com/prometheus/client_golang/prometheus"

// Metric label values for write outcomes.
const (
	StatusSuccess  = "success"
	StatusNotFound = "not_found"
	StatusDenied   = "denied"
	StatusError    = "error"
)

var (
	// SweetWrites counts create/update/delete operations on sweets.
	SweetWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "candystore_sweet_writes_total",
			Help: "Total number of sweet write operations by operation and status.",
		},
		[]string{"operation", "status"},
	)

	// Listings counts sweet listing queries.
	Listings = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "candystore_sweet_listings_total",
			Help: "Total number of sweet listing queries.",
		},
	)
)

// RegisterMetrics registers catalog metrics with the given registerer.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(SweetWrites)
	reg.MustRegister(Listings)
}
