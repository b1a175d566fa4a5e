// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gaps

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// gapsAnalyzedTotal counts analyzed feature gaps.
	//
	// Labels:
	//   - severity: good, minor, moderate, significant, critical
	gapsAnalyzedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coach_gaps_analyzed_total",
			Help: "Feature gaps analyzed, by severity bucket.",
		},
		[]string{"severity"},
	)

	// profileLoadsTotal counts reference profile loads.
	//
	// Labels:
	//   - status: ok, error
	profileLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coach_profile_loads_total",
			Help: "Reference profile load attempts, by status.",
		},
		[]string{"status"},
	)
)
