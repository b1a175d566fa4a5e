// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rankinbc/mixcoach/pkg/ux"
	"github.com/rankinbc/mixcoach/services/coach/gaps"
	"github.com/spf13/cobra"
)

func runAnalyze(cmd *cobra.Command, args []string) {
	if config.ProfilePath == "" {
		ux.Error("no reference profile configured; set profile_path in config.yaml or pass --profile")
		os.Exit(1)
	}

	profile, err := gaps.LoadProfile(expandPath(config.ProfilePath))
	if err != nil {
		ux.Error(fmt.Sprintf("loading profile: %v", err))
		os.Exit(1)
	}

	metricsData, err := os.ReadFile(args[0])
	if err != nil {
		ux.Error(fmt.Sprintf("reading metrics: %v", err))
		os.Exit(1)
	}
	var metrics map[string]float64
	if err := json.Unmarshal(metricsData, &metrics); err != nil {
		ux.Error(fmt.Sprintf("parsing metrics: %v", err))
		os.Exit(1)
	}

	analyzer, err := gaps.NewAnalyzer(profile)
	if err != nil {
		ux.Error(fmt.Sprintf("building analyzer: %v", err))
		os.Exit(1)
	}

	result := analyzer.AnalyzeGaps(cmd.Context(), metrics, analyzeLabel)
	logger.Info("analysis complete",
		"profile", result.Profile,
		"gaps", len(result.Gaps),
		"worst", string(result.Worst()))

	renderGapReport(analyzer, result)
}

func renderGapReport(analyzer *gaps.Analyzer, result *gaps.GapAnalysisResult) {
	ux.Title(fmt.Sprintf("Gap report: %s vs %s", result.Label, result.Profile))

	for _, gap := range result.Gaps {
		detail := fmt.Sprintf("%.3f vs %.3f (d=%+.2f)",
			gap.Value, gap.TargetMean, gap.Deviation)
		ux.SeverityLine(string(gap.Severity), gap.Feature, detail)
	}
	if len(result.Skipped) > 0 {
		ux.Muted(fmt.Sprintf("skipped (not in profile): %v", result.Skipped))
	}

	counts := make(map[string]int, len(result.Counts))
	for severity, n := range result.Counts {
		counts[string(severity)] = n
	}
	ux.SeveritySummary(counts)

	prioritized := analyzer.PrioritizedGaps(result, analyzeTop)
	if len(prioritized) == 0 {
		ux.Success("mix is within the reference on every measured feature")
		return
	}
	ux.Title("Work on these first")
	for i, gap := range prioritized {
		ux.Info(fmt.Sprintf("%d. %s: %s", i+1, gap.Feature, gap.Suggestion))
	}
}
