// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the session engine.
//
// Naming convention: coach_<metric>_<unit>.
var (
	// changesRecorded counts changes appended to history by category.
	changesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coach_session_changes_total",
		Help: "Changes recorded to session history by category",
	}, []string{"category"})

	// stackOps counts undo/redo confirmations.
	//
	// Labels:
	//   - op: "undo" or "redo"
	stackOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coach_session_stack_ops_total",
		Help: "Confirmed undo/redo operations",
	}, []string{"op"})

	// abOutcomes counts finished A/B comparisons.
	//
	// Labels:
	//   - outcome: "kept" (candidate recorded) or "discarded"
	abOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coach_session_ab_outcomes_total",
		Help: "Finished A/B comparisons by outcome",
	}, []string{"outcome"})

	// persistDuration tracks session save latency. Saves are synchronous
	// on every mutation, so this bounds perceived operation latency.
	persistDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "coach_session_persist_duration_seconds",
		Help:    "Session persistence duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	})
)
