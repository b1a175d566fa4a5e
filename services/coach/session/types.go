// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import "time"

// Category classifies what a change touched.
type Category string

const (
	// CategoryVolume is a track volume change.
	CategoryVolume Category = "volume"

	// CategoryPan is a track pan change.
	CategoryPan Category = "pan"

	// CategoryEQ is an equalizer parameter change.
	CategoryEQ Category = "eq"

	// CategoryDynamics is a compressor/limiter parameter change.
	CategoryDynamics Category = "dynamics"

	// CategoryComparison is a change recorded by keeping an A/B candidate.
	CategoryComparison Category = "ab_comparison"

	// CategoryManual is any other caller-described change.
	CategoryManual Category = "manual"
)

// Change is one applied parameter change.
//
// A Change is immutable once recorded. Display names are captured at
// record time so the audit trail stays readable even if entities are
// later renamed; the indices are only meaningful against the snapshot
// that was current when the change was applied.
type Change struct {
	// ID uniquely identifies the change. Assigned at record time.
	ID string `json:"id"`

	// TrackIndex is the track the change was applied to.
	TrackIndex int `json:"track_index"`

	// DeviceIndex is the device index, nil for track-level changes.
	DeviceIndex *int `json:"device_index,omitempty"`

	// ParameterIndex is the parameter index, nil for track-level changes.
	ParameterIndex *int `json:"parameter_index,omitempty"`

	// TrackName is the track display name at record time.
	TrackName string `json:"track_name"`

	// DeviceName is the device display name at record time.
	DeviceName string `json:"device_name,omitempty"`

	// ParameterName is the parameter display name at record time.
	ParameterName string `json:"parameter_name,omitempty"`

	// PreviousValue is the normalized value before the change.
	PreviousValue float64 `json:"previous_value"`

	// NewValue is the normalized value after the change.
	NewValue float64 `json:"new_value"`

	// Description is the human description of the change.
	Description string `json:"description"`

	// Category classifies the change.
	Category Category `json:"category"`

	// CreatedAt is when the change was recorded, in UTC.
	CreatedAt time.Time `json:"created_at"`
}

// Side identifies which value of an A/B comparison is active.
type Side string

const (
	// SideA is the original value.
	SideA Side = "A"

	// SideB is the candidate value.
	SideB Side = "B"
)

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

// Comparison is the state of an in-flight A/B comparison.
//
// At most one Comparison exists per session; a nil Comparison on the
// Session means the machine is idle.
type Comparison struct {
	// Side is the currently auditioned side.
	Side Side `json:"side"`

	// Description describes what is being compared.
	Description string `json:"description"`

	// TrackIndex is the target track.
	TrackIndex int `json:"track_index"`

	// DeviceIndex is the target device, nil for track-level targets.
	DeviceIndex *int `json:"device_index,omitempty"`

	// ParameterIndex is the target parameter, nil for track-level targets.
	ParameterIndex *int `json:"parameter_index,omitempty"`

	// TrackName is the track display name, captured for the audit trail.
	TrackName string `json:"track_name"`

	// DeviceName is the device display name.
	DeviceName string `json:"device_name,omitempty"`

	// ParameterName is the parameter display name.
	ParameterName string `json:"parameter_name,omitempty"`

	// OriginalValue is the value before the comparison started (side A).
	OriginalValue float64 `json:"original_value"`

	// CandidateValue is the auditioned value (side B).
	CandidateValue float64 `json:"candidate_value"`

	// StartedAt is when the comparison started, in UTC.
	StartedAt time.Time `json:"started_at"`
}

// ActiveValue returns the value the caller should have applied for the
// current side.
func (c *Comparison) ActiveValue() float64 {
	if c.Side == SideA {
		return c.OriginalValue
	}
	return c.CandidateValue
}

// Session is the durable state of one coaching engagement: the
// append-only change history, the undo/redo stacks, and the A/B
// comparison state.
//
// The undo and redo stacks hold Change IDs referencing History entries;
// stack operations move references, never copies, so History remains
// the single record of every change ever made.
type Session struct {
	// ID uniquely identifies the session.
	ID string `json:"id"`

	// SongName is the current song/context name.
	SongName string `json:"song_name,omitempty"`

	// History is the append-only change ledger in chronological order.
	History []Change `json:"history"`

	// UndoStack holds IDs of applied changes, most recent last.
	UndoStack []string `json:"undo_stack"`

	// RedoStack holds IDs of undone changes, most recently undone last.
	RedoStack []string `json:"redo_stack"`

	// AB is the in-flight comparison, nil when idle.
	AB *Comparison `json:"ab_state,omitempty"`

	// CreatedAt is when the session was created, in UTC.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the session last mutated, in UTC.
	UpdatedAt time.Time `json:"updated_at"`
}

// changeByID finds a history entry by ID.
func (s *Session) changeByID(id string) (*Change, bool) {
	for i := range s.History {
		if s.History[i].ID == id {
			return &s.History[i], true
		}
	}
	return nil, false
}

// normalize repairs zero values after decoding an older or sparse
// session file: nil slices become empty so a round-trip reproduces an
// equal session regardless of which optional fields were present.
func (s *Session) normalize() {
	if s.History == nil {
		s.History = make([]Change, 0)
	}
	if s.UndoStack == nil {
		s.UndoStack = make([]string, 0)
	}
	if s.RedoStack == nil {
		s.RedoStack = make([]string, 0)
	}
}

// Summary is a point-in-time view of the session for display.
type Summary struct {
	// SongName is the current song/context name.
	SongName string `json:"song_name,omitempty"`

	// TotalChanges is the total number of changes ever recorded.
	TotalChanges int `json:"total_changes"`

	// CanUndo reports whether an undo is available.
	CanUndo bool `json:"can_undo"`

	// CanRedo reports whether a redo is available.
	CanRedo bool `json:"can_redo"`

	// Comparing reports whether an A/B comparison is in flight.
	Comparing bool `json:"comparing"`

	// Side is the active comparison side, empty when idle.
	Side Side `json:"side,omitempty"`

	// LastChange is the most recent history entry, nil when empty.
	LastChange *Change `json:"last_change,omitempty"`
}
