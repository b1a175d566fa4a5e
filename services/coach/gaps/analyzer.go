// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package gaps compares a mix's measured features against a reference
// profile and buckets each deviation into a severity band.
//
// The deviation for a feature is normalized by the profile's spread:
//
//	d = (value - mean) / spread
//
// so severities are comparable across features measured in different
// units. Spread is floored at the profile's minimum spread, which
// keeps a zero-variance target from producing infinite deviations.
package gaps

import (
	"context"
	"math"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Severity buckets a normalized deviation magnitude. Buckets are
// half-open and lower-inclusive: |d| in [0, 0.5) is good, [0.5, 1.0)
// minor, [1.0, 2.0) moderate, [2.0, 3.0) significant, and 3.0 or more
// critical.
type Severity string

const (
	SeverityGood        Severity = "good"
	SeverityMinor       Severity = "minor"
	SeverityModerate    Severity = "moderate"
	SeveritySignificant Severity = "significant"
	SeverityCritical    Severity = "critical"
)

// severityEps absorbs float64 rounding in the deviation quotient so a
// deviation mathematically on a bucket boundary takes the higher
// bucket. Without it (0.25-0.30)/0.05 lands just below 1.0.
const severityEps = 1e-9

// severityFor maps a normalized deviation to its bucket.
func severityFor(deviation float64) Severity {
	d := math.Abs(deviation)
	switch {
	case d < 0.5-severityEps:
		return SeverityGood
	case d < 1.0-severityEps:
		return SeverityMinor
	case d < 2.0-severityEps:
		return SeverityModerate
	case d < 3.0-severityEps:
		return SeveritySignificant
	default:
		return SeverityCritical
	}
}

// Actionable reports whether the severity warrants a suggestion.
func (s Severity) Actionable() bool {
	return s != SeverityGood
}

// rank orders severities from good (0) to critical (4).
func (s Severity) rank() int {
	switch s {
	case SeverityGood:
		return 0
	case SeverityMinor:
		return 1
	case SeverityModerate:
		return 2
	case SeveritySignificant:
		return 3
	default:
		return 4
	}
}

// FeatureGap is one feature's deviation from the reference.
type FeatureGap struct {
	// Feature is the profile feature name.
	Feature string `json:"feature"`

	// Value is the measured value for the user's mix.
	Value float64 `json:"value"`

	// TargetMean is the profile's effective mean for the feature.
	TargetMean float64 `json:"target_mean"`

	// Spread is the effective (floored) spread used to normalize.
	Spread float64 `json:"spread"`

	// Deviation is the signed normalized deviation (value-mean)/spread.
	Deviation float64 `json:"deviation"`

	// Severity buckets the deviation magnitude.
	Severity Severity `json:"severity"`

	// Suggestion is a plain-language remediation hint. Empty for
	// features in the good bucket.
	Suggestion string `json:"suggestion,omitempty"`
}

// GapAnalysisResult is the full comparison of a mix against a profile.
type GapAnalysisResult struct {
	// Profile names the reference profile.
	Profile string `json:"profile"`

	// Label names the analyzed mix ("user", a song, a stem).
	Label string `json:"label"`

	// Gaps holds one entry per feature present in both the profile
	// and the measured metrics, sorted by feature name.
	Gaps []FeatureGap `json:"gaps"`

	// Counts tallies gaps per severity bucket.
	Counts map[Severity]int `json:"counts"`

	// Skipped lists measured features absent from the profile.
	Skipped []string `json:"skipped,omitempty"`
}

// GapCount returns the number of gaps with severity above good.
func (r *GapAnalysisResult) GapCount() int {
	return len(r.Gaps) - r.Counts[SeverityGood]
}

// InRangeCount returns the number of features in the good bucket.
func (r *GapAnalysisResult) InRangeCount() int {
	return r.Counts[SeverityGood]
}

// TotalFeatures returns the number of features evaluated.
func (r *GapAnalysisResult) TotalFeatures() int {
	return len(r.Gaps)
}

// Worst returns the highest severity present, or SeverityGood when the
// result holds no gaps.
func (r *GapAnalysisResult) Worst() Severity {
	worst := SeverityGood
	for _, g := range r.Gaps {
		if g.Severity.rank() > worst.rank() {
			worst = g.Severity
		}
	}
	return worst
}

// Analyzer compares measured metrics against a reference profile.
//
// # Description
//
// An Analyzer is bound to one profile. Analysis never mutates the
// profile, so one Analyzer may serve many mixes in sequence.
type Analyzer struct {
	profile *ReferenceProfile
	tracer  trace.Tracer
}

// NewAnalyzer builds an Analyzer for the given profile.
//
// # Inputs
//   - profile: the reference profile to compare against.
//
// # Outputs
//   - *Analyzer: ready for AnalyzeGaps calls.
//   - error: ErrNilProfile or ErrEmptyProfile.
func NewAnalyzer(profile *ReferenceProfile) (*Analyzer, error) {
	if profile == nil {
		return nil, ErrNilProfile
	}
	if len(profile.Features) == 0 {
		return nil, ErrEmptyProfile
	}
	return &Analyzer{
		profile: profile,
		tracer:  otel.Tracer("mixcoach.coach.gaps"),
	}, nil
}

// minSpread returns the profile's effective spread floor.
func (a *Analyzer) minSpread() float64 {
	if a.profile.MinSpread > 0 {
		return a.profile.MinSpread
	}
	return DefaultMinSpread
}

// AnalyzeGaps compares measured metrics against the analyzer's profile.
//
// # Description
//
// Only features present in both the profile and metrics are analyzed;
// measured features the profile does not know are reported in
// Skipped, and profile features the mix was not measured for are
// ignored. Each gap carries its signed normalized deviation, severity
// bucket, and a suggestion when the severity is actionable.
//
// # Inputs
//   - ctx: carries the trace span for the analysis.
//   - metrics: feature name to measured value for the user's mix.
//   - label: names the analyzed mix in the result.
//
// # Outputs
//   - *GapAnalysisResult: gaps sorted by feature name, with per-bucket
//     counts.
func (a *Analyzer) AnalyzeGaps(ctx context.Context, metrics map[string]float64, label string) *GapAnalysisResult {
	_, span := a.tracer.Start(ctx, "gaps.analyze",
		trace.WithAttributes(
			attribute.String("profile", a.profile.Name),
			attribute.Int("metric_count", len(metrics)),
		))
	defer span.End()

	result := &GapAnalysisResult{
		Profile: a.profile.Name,
		Label:   label,
		Gaps:    make([]FeatureGap, 0, len(metrics)),
		Counts:  make(map[Severity]int),
	}

	floor := a.minSpread()
	for feature, value := range metrics {
		target, ok := a.profile.Features[feature]
		if !ok {
			result.Skipped = append(result.Skipped, feature)
			continue
		}

		mean := target.mean()
		spread := target.spread(floor)
		deviation := (value - mean) / spread
		severity := severityFor(deviation)

		gap := FeatureGap{
			Feature:    feature,
			Value:      value,
			TargetMean: mean,
			Spread:     spread,
			Deviation:  deviation,
			Severity:   severity,
		}
		if severity.Actionable() {
			gap.Suggestion = suggestionFor(feature, deviation)
		}

		result.Gaps = append(result.Gaps, gap)
		result.Counts[severity]++
		gapsAnalyzedTotal.WithLabelValues(string(severity)).Inc()
	}

	sort.Slice(result.Gaps, func(i, j int) bool {
		return result.Gaps[i].Feature < result.Gaps[j].Feature
	})
	sort.Strings(result.Skipped)

	span.SetAttributes(attribute.Int("gap_count", len(result.Gaps)))
	return result
}

// PrioritizedGaps returns the actionable gaps ordered by weighted
// deviation magnitude, largest first. Gaps in the good bucket are never
// ranked, so fewer than limit gaps come back when fewer are actionable.
// Ties break by feature name so ordering is stable across runs. At most
// limit gaps are returned; limit <= 0 means all.
func (a *Analyzer) PrioritizedGaps(result *GapAnalysisResult, limit int) []FeatureGap {
	prioritized := make([]FeatureGap, 0, len(result.Gaps))
	for _, g := range result.Gaps {
		if g.Severity.Actionable() {
			prioritized = append(prioritized, g)
		}
	}

	score := func(g FeatureGap) float64 {
		weight := 1.0
		if target, ok := a.profile.Features[g.Feature]; ok {
			weight = target.weight()
		}
		return math.Abs(g.Deviation) * weight
	}
	sort.Slice(prioritized, func(i, j int) bool {
		si, sj := score(prioritized[i]), score(prioritized[j])
		if si != sj {
			return si > sj
		}
		return prioritized[i].Feature < prioritized[j].Feature
	})

	if limit > 0 && len(prioritized) > limit {
		prioritized = prioritized[:limit]
	}
	return prioritized
}
