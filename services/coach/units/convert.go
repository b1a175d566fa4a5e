// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package units converts between human mixing units and the normalized
// 0.0-1.0 control range used by the remote control surface.
//
// All functions are pure and stateless. Out-of-range human values are
// clamped to the unit's range rather than rejected, because control
// surfaces clamp the same way.
package units

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Unit identifies the human-facing unit family of a parameter.
type Unit string

const (
	// UnitFrequency is a frequency in Hz, mapped logarithmically over
	// the audible band 20 Hz - 20 kHz.
	UnitFrequency Unit = "frequency"

	// UnitDecibel is a gain in dB, mapped linearly over -60 dB - +6 dB.
	UnitDecibel Unit = "decibel"

	// UnitMilliseconds is a time in ms, mapped logarithmically over
	// 1 ms - 10 s (envelope times, pre-delays).
	UnitMilliseconds Unit = "milliseconds"

	// UnitPan is a stereo position, -50 (hard left) - +50 (hard right).
	UnitPan Unit = "pan"

	// UnitPercent is a bare percentage 0-100. The fallback unit when
	// detection finds nothing better.
	UnitPercent Unit = "percent"
)

// Range endpoints per unit. These mirror the ranges the control surface
// exposes, not anything configurable per project.
const (
	freqMin = 20.0
	freqMax = 20000.0
	dbMin   = -60.0
	dbMax   = 6.0
	msMin   = 1.0
	msMax   = 10000.0
	panMin  = -50.0
	panMax  = 50.0
)

// ErrUnknownUnit is returned when a conversion is asked for a unit this
// package does not know.
var ErrUnknownUnit = errors.New("unknown unit")

// DetectUnit guesses the unit family from a parameter display name.
//
// Detection is substring-based over the lowercased name and ordered from
// most to least specific. Unrecognized names fall back to UnitPercent.
func DetectUnit(parameterName string) Unit {
	name := strings.ToLower(parameterName)

	switch {
	case containsAny(name, "freq", "hz", "cutoff", "crossover"):
		return UnitFrequency
	case containsAny(name, "pan"):
		return UnitPan
	case containsAny(name, "gain", "volume", "vol", "db", "threshold", "level"):
		return UnitDecibel
	case containsAny(name, "attack", "release", "decay", "predelay", "time", "ms"):
		return UnitMilliseconds
	default:
		return UnitPercent
	}
}

// ToNormalized maps a human value to the 0.0-1.0 control range.
//
// Human values outside the unit's range are clamped first, so the result
// is always in [0, 1]. Returns ErrUnknownUnit for units this package
// does not handle.
func ToNormalized(unit Unit, human float64) (float64, error) {
	switch unit {
	case UnitFrequency:
		f := clamp(human, freqMin, freqMax)
		return math.Log(f/freqMin) / math.Log(freqMax/freqMin), nil
	case UnitDecibel:
		db := clamp(human, dbMin, dbMax)
		return (db - dbMin) / (dbMax - dbMin), nil
	case UnitMilliseconds:
		ms := clamp(human, msMin, msMax)
		return math.Log(ms/msMin) / math.Log(msMax/msMin), nil
	case UnitPan:
		p := clamp(human, panMin, panMax)
		return (p - panMin) / (panMax - panMin), nil
	case UnitPercent:
		return clamp(human, 0, 100) / 100, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
}

// FromNormalized maps a 0.0-1.0 control value back to human units.
//
// Normalized values outside [0, 1] are clamped first. Returns
// ErrUnknownUnit for units this package does not handle.
func FromNormalized(unit Unit, norm float64) (float64, error) {
	n := clamp(norm, 0, 1)

	switch unit {
	case UnitFrequency:
		return freqMin * math.Pow(freqMax/freqMin, n), nil
	case UnitDecibel:
		return dbMin + n*(dbMax-dbMin), nil
	case UnitMilliseconds:
		return msMin * math.Pow(msMax/msMin, n), nil
	case UnitPan:
		return panMin + n*(panMax-panMin), nil
	case UnitPercent:
		return n * 100, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
}

// Format renders a human value with its unit suffix for display.
func Format(unit Unit, human float64) string {
	switch unit {
	case UnitFrequency:
		if human >= 1000 {
			return fmt.Sprintf("%.1f kHz", human/1000)
		}
		return fmt.Sprintf("%.0f Hz", human)
	case UnitDecibel:
		return fmt.Sprintf("%+.1f dB", human)
	case UnitMilliseconds:
		if human >= 1000 {
			return fmt.Sprintf("%.2f s", human/1000)
		}
		return fmt.Sprintf("%.0f ms", human)
	case UnitPan:
		switch {
		case human < 0:
			return fmt.Sprintf("%.0fL", -human)
		case human > 0:
			return fmt.Sprintf("%.0fR", human)
		default:
			return "C"
		}
	default:
		return fmt.Sprintf("%.0f %%", human)
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
