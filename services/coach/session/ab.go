// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"fmt"
	"log/slog"
	"time"
)

// StartABParams describes the comparison to start.
type StartABParams struct {
	// Description describes what is being compared.
	Description string

	// TrackIndex is the target track.
	TrackIndex int

	// DeviceIndex is the target device, nil for track-level targets.
	DeviceIndex *int

	// ParameterIndex is the target parameter, nil for track-level targets.
	ParameterIndex *int

	// TrackName, DeviceName, ParameterName are display names captured
	// for the audit trail of a kept candidate.
	TrackName     string
	DeviceName    string
	ParameterName string

	// OriginalValue is the current value (side A).
	OriginalValue float64

	// CandidateValue is the value to audition (side B).
	CandidateValue float64
}

// StartAB begins an A/B comparison with the candidate side active,
// mirroring "apply the fix to audition it". Fails with
// ErrAlreadyComparing if a comparison is already in flight; the running
// comparison is never silently restarted.
func (e *Engine) StartAB(params StartABParams) error {
	if e.session.AB != nil {
		return fmt.Errorf("%w: %q", ErrAlreadyComparing, e.session.AB.Description)
	}

	e.session.AB = &Comparison{
		Side:           SideB,
		Description:    params.Description,
		TrackIndex:     params.TrackIndex,
		DeviceIndex:    params.DeviceIndex,
		ParameterIndex: params.ParameterIndex,
		TrackName:      params.TrackName,
		DeviceName:     params.DeviceName,
		ParameterName:  params.ParameterName,
		OriginalValue:  params.OriginalValue,
		CandidateValue: params.CandidateValue,
		StartedAt:      time.Now().UTC(),
	}

	slog.Debug("A/B comparison started",
		slog.String("description", params.Description),
		slog.Int("track", params.TrackIndex),
	)
	return e.persist()
}

// ToggleAB flips the active side and returns the value the caller
// should now apply externally: the candidate on side B, the original on
// side A. Fails with ErrNotComparing when idle.
func (e *Engine) ToggleAB() (Side, float64, error) {
	if e.session.AB == nil {
		return "", 0, ErrNotComparing
	}

	e.session.AB.Side = e.session.AB.Side.Opposite()
	side := e.session.AB.Side
	value := e.session.AB.ActiveValue()

	slog.Debug("A/B comparison toggled", slog.String("side", string(side)))
	return side, value, e.persist()
}

// EndAB finishes the comparison and returns to idle.
//
// Keeping the candidate (keep == SideB) records a Change from the
// original to the candidate value through the normal recording path, so
// the redo stack is cleared exactly as for any fresh action, and the
// recorded change is returned. Keeping the original (keep == SideA)
// records nothing and returns nil.
func (e *Engine) EndAB(keep Side) (*Change, error) {
	if keep != SideA && keep != SideB {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSide, keep)
	}
	if e.session.AB == nil {
		return nil, ErrNotComparing
	}

	cmp := e.session.AB
	e.session.AB = nil

	if keep == SideA {
		abOutcomes.WithLabelValues("discarded").Inc()
		slog.Debug("A/B comparison discarded", slog.String("description", cmp.Description))
		return nil, e.persist()
	}

	change := Change{
		TrackIndex:     cmp.TrackIndex,
		DeviceIndex:    cmp.DeviceIndex,
		ParameterIndex: cmp.ParameterIndex,
		TrackName:      cmp.TrackName,
		DeviceName:     cmp.DeviceName,
		ParameterName:  cmp.ParameterName,
		PreviousValue:  cmp.OriginalValue,
		NewValue:       cmp.CandidateValue,
		Description:    cmp.Description,
		Category:       CategoryComparison,
	}

	e.record(&change)
	if err := e.persist(); err != nil {
		return nil, err
	}

	abOutcomes.WithLabelValues("kept").Inc()
	slog.Debug("A/B comparison kept",
		slog.String("description", cmp.Description),
		slog.String("change_id", change.ID),
	)
	return &e.session.History[len(e.session.History)-1], nil
}
