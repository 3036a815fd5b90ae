// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "recipefinder"

var (
	// HTTPRequestsTotal counts handled requests by route template.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests handled, by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency by route template.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RecipeListResults observes how many recipes a list page returned.
	RecipeListResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "recipe_list_results",
			Help:      "Number of recipes returned per list page.",
			Buckets:   []float64{0, 1, 3, 6, 12, 24, 48, 100},
		},
	)

	// RecipeLookupsTotal counts slug lookups by outcome (found, not_found).
	RecipeLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recipe_lookups_total",
			Help:      "Recipe slug lookups by outcome.",
		},
		[]string{"outcome"},
	)

	// RecipeQueryErrors counts storage failures by service operation.
	RecipeQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recipe_query_errors_total",
			Help:      "Storage errors raised by recipe queries, by operation.",
		},
		[]string{"operation"},
	)
)

// Lookup outcomes.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
)
