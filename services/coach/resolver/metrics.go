// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package resolver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for name resolution.
//
// Naming convention: coach_<metric>_<unit>.
var (
	// resolutionAttempts tracks total resolution attempts by strategy.
	//
	// Labels:
	//   - strategy: "exact", "fuzzy", or "miss"
	resolutionAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coach_resolution_attempts_total",
		Help: "Total name resolution attempts by strategy",
	}, []string{"strategy"})

	// resolutionDuration tracks time spent resolving names.
	//
	// Buckets target sub-millisecond lookups over in-memory snapshots.
	resolutionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "coach_resolution_duration_seconds",
		Help:    "Name resolution duration in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01},
	})

	// resolutionCacheHits counts memoized lookups served without scoring.
	resolutionCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coach_resolution_cache_hits_total",
		Help: "Resolution cache hits",
	})

	// resolutionCacheMisses counts lookups that had to be scored.
	resolutionCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coach_resolution_cache_misses_total",
		Help: "Resolution cache misses",
	})

	// snapshotReloads counts snapshot level replacements by scope.
	//
	// Labels:
	//   - scope: "tracks", "devices", or "parameters"
	snapshotReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coach_snapshot_reloads_total",
		Help: "Snapshot level reloads by scope",
	}, []string{"scope"})
)
