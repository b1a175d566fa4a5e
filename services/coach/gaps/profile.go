// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gaps

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultMinSpread is the floor applied to a feature's spread so the
// normalized deviation never divides by zero.
const DefaultMinSpread = 1e-6

// FeatureTarget is the reference distribution for one feature: either a
// mean with a standard deviation, or an explicit acceptable range whose
// midpoint and half-width stand in for mean and spread.
type FeatureTarget struct {
	// Mean is the target mean. Required unless Range is given.
	Mean *float64 `json:"mean,omitempty" validate:"required_without=Range"`

	// Std is the target standard deviation. Required unless Range is
	// given. A zero value falls back to the profile's minimum spread.
	Std *float64 `json:"std,omitempty" validate:"required_without=Range,omitempty,gte=0"`

	// Range is an explicit [low, high] acceptable range.
	Range []float64 `json:"range,omitempty" validate:"omitempty,len=2"`

	// Weight optionally scales the feature's prioritization. Severity
	// bucketing is never weighted. Zero means unweighted (1.0).
	Weight float64 `json:"weight,omitempty" validate:"gte=0"`
}

// mean returns the effective target mean.
func (t *FeatureTarget) mean() float64 {
	if t.Range != nil {
		return (t.Range[0] + t.Range[1]) / 2
	}
	return *t.Mean
}

// spread returns the effective spread, floored at minSpread.
func (t *FeatureTarget) spread(minSpread float64) float64 {
	var s float64
	if t.Range != nil {
		s = (t.Range[1] - t.Range[0]) / 2
	} else if t.Std != nil {
		s = *t.Std
	}
	if s < minSpread {
		return minSpread
	}
	return s
}

// weight returns the effective prioritization weight.
func (t *FeatureTarget) weight() float64 {
	if t.Weight == 0 {
		return 1.0
	}
	return t.Weight
}

// ReferenceProfile is a named, immutable mapping from feature name to
// its target distribution. Loaded once; never mutated during analysis.
type ReferenceProfile struct {
	// Name identifies the profile (usually derived from its filename).
	Name string

	// Features maps feature name to target.
	Features map[string]FeatureTarget

	// MinSpread floors each feature's spread. Zero means
	// DefaultMinSpread.
	MinSpread float64
}

// LoadProfile reads and parses a reference profile file.
func LoadProfile(path string) (*ReferenceProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		profileLoadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("read profile: %w", err)
	}
	profile, err := ParseProfile(data, path)
	if err != nil {
		profileLoadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	profileLoadsTotal.WithLabelValues("ok").Inc()
	return profile, nil
}

// ParseProfile parses a reference profile document:
//
//	{"bass_energy": {"mean": 0.30, "std": 0.05, "weight": 2},
//	 "stereo_width": {"range": [0.4, 0.8]}}
//
// Every feature must carry either mean+std or a two-element range;
// missing required fields fail with a ProfileParseError naming the
// feature and field.
func ParseProfile(data []byte, name string) (*ReferenceProfile, error) {
	var features map[string]FeatureTarget
	if err := json.Unmarshal(data, &features); err != nil {
		return nil, &ProfileParseError{Reason: err.Error()}
	}
	if len(features) == 0 {
		return nil, ErrEmptyProfile
	}

	for feature, target := range features {
		if err := validate.Struct(target); err != nil {
			return nil, &ProfileParseError{
				Feature: feature,
				Field:   firstFailedField(err),
				Reason:  "missing or invalid",
			}
		}
		if target.Range != nil && target.Range[1] < target.Range[0] {
			return nil, &ProfileParseError{
				Feature: feature,
				Field:   "range",
				Reason:  "high bound below low bound",
			}
		}
	}

	return &ReferenceProfile{Name: name, Features: features}, nil
}

// firstFailedField extracts the first offending field name from a
// validator error.
func firstFailedField(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field()
	}
	return ""
}
