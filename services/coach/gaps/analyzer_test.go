// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gaps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func unitProfile() *ReferenceProfile {
	return &ReferenceProfile{
		Name: "unit",
		Features: map[string]FeatureTarget{
			"feature": {Mean: f(0), Std: f(1)},
		},
	}
}

func TestSeverityFor_Buckets(t *testing.T) {
	tests := []struct {
		deviation float64
		want      Severity
	}{
		{0, SeverityGood},
		{0.49, SeverityGood},
		{-0.49, SeverityGood},
		{0.5, SeverityMinor},
		{0.99, SeverityMinor},
		{1.0, SeverityModerate},
		{-1.0, SeverityModerate},
		{1.99, SeverityModerate},
		{2.0, SeveritySignificant},
		{2.99, SeveritySignificant},
		{3.0, SeverityCritical},
		{3.5, SeverityCritical},
		{-10, SeverityCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, severityFor(tt.deviation),
			"deviation %v", tt.deviation)
	}
}

func TestSeverityFor_ComputedBoundaryTakesHigherBucket(t *testing.T) {
	// (0.25-0.30)/0.05 is -0.9999999999999998 in float64, not -1.0.
	d := (0.25 - 0.30) / 0.05
	assert.Equal(t, SeverityModerate, severityFor(d))

	assert.Equal(t, SeverityCritical, severityFor((0.15-0.5)/0.1))
}

func TestAnalyzeGaps_UnitProfile(t *testing.T) {
	analyzer, err := NewAnalyzer(unitProfile())
	require.NoError(t, err)

	result := analyzer.AnalyzeGaps(context.Background(),
		map[string]float64{"feature": 0.5}, "user")
	require.Len(t, result.Gaps, 1)
	assert.InDelta(t, 0.5, result.Gaps[0].Deviation, 1e-9)
	assert.Equal(t, SeverityMinor, result.Gaps[0].Severity)

	result = analyzer.AnalyzeGaps(context.Background(),
		map[string]float64{"feature": 3.5}, "user")
	require.Len(t, result.Gaps, 1)
	assert.Equal(t, SeverityCritical, result.Gaps[0].Severity)
}

func TestAnalyzeGaps_BassEnergy(t *testing.T) {
	profile := &ReferenceProfile{
		Name: "pop",
		Features: map[string]FeatureTarget{
			"bass_energy": {Mean: f(0.30), Std: f(0.05)},
		},
	}
	analyzer, err := NewAnalyzer(profile)
	require.NoError(t, err)

	result := analyzer.AnalyzeGaps(context.Background(),
		map[string]float64{"bass_energy": 0.25}, "user")
	require.Len(t, result.Gaps, 1)

	gap := result.Gaps[0]
	assert.InDelta(t, -1.0, gap.Deviation, 1e-9)
	assert.Equal(t, SeverityModerate, gap.Severity)
	assert.NotEmpty(t, gap.Suggestion)
	assert.Contains(t, gap.Suggestion, "boost")
}

func TestAnalyzeGaps_IntersectionOnly(t *testing.T) {
	profile := &ReferenceProfile{
		Name: "pop",
		Features: map[string]FeatureTarget{
			"bass_energy":  {Mean: f(0.30), Std: f(0.05)},
			"stereo_width": {Range: []float64{0.4, 0.8}},
		},
	}
	analyzer, err := NewAnalyzer(profile)
	require.NoError(t, err)

	result := analyzer.AnalyzeGaps(context.Background(), map[string]float64{
		"bass_energy": 0.31,
		"crest":       4.2,
	}, "user")

	require.Len(t, result.Gaps, 1)
	assert.Equal(t, "bass_energy", result.Gaps[0].Feature)
	assert.Equal(t, []string{"crest"}, result.Skipped)
}

func TestAnalyzeGaps_CountsAndWorst(t *testing.T) {
	profile := &ReferenceProfile{
		Name: "pop",
		Features: map[string]FeatureTarget{
			"bass_energy": {Mean: f(0.30), Std: f(0.05)},
			"loudness":    {Mean: f(-14), Std: f(1)},
			"punch":       {Mean: f(0.5), Std: f(0.1)},
		},
	}
	analyzer, err := NewAnalyzer(profile)
	require.NoError(t, err)

	result := analyzer.AnalyzeGaps(context.Background(), map[string]float64{
		"bass_energy": 0.30,  // d = 0, good
		"loudness":    -14.6, // d = -0.6, minor
		"punch":       0.15,  // d = -3.5, critical
	}, "user")

	assert.Equal(t, 1, result.Counts[SeverityGood])
	assert.Equal(t, 1, result.Counts[SeverityMinor])
	assert.Equal(t, 1, result.Counts[SeverityCritical])
	assert.Equal(t, SeverityCritical, result.Worst())
	assert.Equal(t, 2, result.GapCount())
	assert.Equal(t, 1, result.InRangeCount())
	assert.Equal(t, 3, result.TotalFeatures())
}

func TestAnalyzeGaps_GoodGapsCarryNoSuggestion(t *testing.T) {
	analyzer, err := NewAnalyzer(unitProfile())
	require.NoError(t, err)

	result := analyzer.AnalyzeGaps(context.Background(),
		map[string]float64{"feature": 0.1}, "user")
	require.Len(t, result.Gaps, 1)
	assert.Empty(t, result.Gaps[0].Suggestion)
}

func TestAnalyzeGaps_ZeroSpreadFloored(t *testing.T) {
	profile := &ReferenceProfile{
		Name: "strict",
		Features: map[string]FeatureTarget{
			"loudness": {Mean: f(-14), Std: f(0)},
		},
		MinSpread: 0.5,
	}
	analyzer, err := NewAnalyzer(profile)
	require.NoError(t, err)

	result := analyzer.AnalyzeGaps(context.Background(),
		map[string]float64{"loudness": -13.5}, "user")
	require.Len(t, result.Gaps, 1)
	assert.InDelta(t, 1.0, result.Gaps[0].Deviation, 1e-9)
	assert.InDelta(t, 0.5, result.Gaps[0].Spread, 1e-9)
}

func TestPrioritizedGaps_WeightedOrdering(t *testing.T) {
	profile := &ReferenceProfile{
		Name: "pop",
		Features: map[string]FeatureTarget{
			"bass_energy":  {Mean: f(0.30), Std: f(0.05), Weight: 2},
			"stereo_width": {Mean: f(0.6), Std: f(0.1)},
			"loudness":     {Mean: f(-14), Std: f(1)},
		},
	}
	analyzer, err := NewAnalyzer(profile)
	require.NoError(t, err)

	result := analyzer.AnalyzeGaps(context.Background(), map[string]float64{
		"bass_energy":  0.25,  // |d| = 1.0, weighted 2.0
		"stereo_width": 0.45,  // |d| = 1.5, weighted 1.5
		"loudness":     -14.1, // |d| = 0.1, good, excluded
	}, "user")

	prioritized := analyzer.PrioritizedGaps(result, 0)
	require.Len(t, prioritized, 2)
	assert.Equal(t, "bass_energy", prioritized[0].Feature)
	assert.Equal(t, "stereo_width", prioritized[1].Feature)

	top := analyzer.PrioritizedGaps(result, 1)
	require.Len(t, top, 1)
	assert.Equal(t, "bass_energy", top[0].Feature)

	// A limit beyond the actionable count never pads with good gaps.
	assert.Len(t, analyzer.PrioritizedGaps(result, 5), 2)
}

func TestPrioritizedGaps_TieBreaksByFeatureName(t *testing.T) {
	profile := &ReferenceProfile{
		Name: "tie",
		Features: map[string]FeatureTarget{
			"beta":  {Mean: f(0), Std: f(1)},
			"alpha": {Mean: f(0), Std: f(1)},
		},
	}
	analyzer, err := NewAnalyzer(profile)
	require.NoError(t, err)

	result := analyzer.AnalyzeGaps(context.Background(),
		map[string]float64{"beta": 1.5, "alpha": -1.5}, "user")

	prioritized := analyzer.PrioritizedGaps(result, 0)
	require.Len(t, prioritized, 2)
	assert.Equal(t, "alpha", prioritized[0].Feature)
	assert.Equal(t, "beta", prioritized[1].Feature)
}

func TestNewAnalyzer_Errors(t *testing.T) {
	_, err := NewAnalyzer(nil)
	require.ErrorIs(t, err, ErrNilProfile)

	_, err = NewAnalyzer(&ReferenceProfile{Name: "empty"})
	require.ErrorIs(t, err, ErrEmptyProfile)
}

func TestSuggestionFor_UnknownFeatureFallsBack(t *testing.T) {
	assert.Equal(t, "reduce snare ring to move closer to the reference",
		suggestionFor("snare_ring", 1.2))
	assert.Equal(t, "increase snare ring to move closer to the reference",
		suggestionFor("snare_ring", -1.2))
}
