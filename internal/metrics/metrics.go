// Package metrics holds the Prometheus collectors updated by the solver.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Solve outcomes.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeCanceled = "canceled"
)

var (
	// Solves counts finished solves by outcome.
	Solves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "anagram_solves_total",
		Help: "Number of finished anagram solves by outcome.",
	}, []string{"outcome"})

	// SearchNodes counts partial combinations of canonical classes visited.
	SearchNodes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anagram_search_nodes_total",
		Help: "Number of partial class combinations visited by the backtracking search.",
	})

	// PhrasesVerified counts concrete phrases whose checksum was computed.
	PhrasesVerified = promauto.NewCounter(prometheus.CounterOpts{
		Name: "anagram_phrases_verified_total",
		Help: "Number of candidate phrases hashed and compared against the target checksum.",
	})

	// SolveDuration observes wall time per solve.
	SolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "anagram_solve_duration_seconds",
		Help:    "Wall time of a single solve.",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
	})
)
