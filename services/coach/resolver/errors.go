// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package resolver

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the resolver package.
var (
	// ErrNameNotFound indicates no candidate cleared the fuzzy threshold.
	ErrNameNotFound = errors.New("name not found")

	// ErrUnrecognizedShape indicates the snapshot document matched
	// neither the control-surface response shape nor the
	// diagnostic-report shape.
	ErrUnrecognizedShape = errors.New("unrecognized snapshot shape")
)

// SnapshotParseError reports a malformed inbound snapshot, naming the
// offending field so the caller can see exactly what was wrong with the
// document instead of guessing.
type SnapshotParseError struct {
	// Field is the JSON path of the offending field, e.g. "tracks[2].name".
	Field string

	// Reason describes what was wrong with the field.
	Reason string
}

// Error implements the error interface.
func (e *SnapshotParseError) Error() string {
	return fmt.Sprintf("snapshot parse: field %q: %s", e.Field, e.Reason)
}

// ResolutionError reports a name that could not be resolved, carrying the
// nearest candidates so the caller can ask the user to disambiguate or
// retry after a snapshot refresh.
type ResolutionError struct {
	// Kind is the entity level that failed to resolve.
	Kind Kind

	// Query is the name that failed to resolve.
	Query string

	// Candidates holds up to three near misses, best score first.
	Candidates []Candidate
}

// Candidate is a near-miss resolution candidate.
type Candidate struct {
	// Index is the snapshot index of the candidate.
	Index int `json:"index"`

	// Name is the candidate display name.
	Name string `json:"name"`

	// Score is the similarity score against the query (0.0-1.0).
	Score float64 `json:"score"`
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("%s %q not found", e.Kind, e.Query)
	}

	parts := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		parts = append(parts, fmt.Sprintf("%s (%.2f)", c.Name, c.Score))
	}
	return fmt.Sprintf("%s %q not found; closest: %s", e.Kind, e.Query, strings.Join(parts, ", "))
}

// Unwrap returns ErrNameNotFound for errors.Is support.
func (e *ResolutionError) Unwrap() error {
	return ErrNameNotFound
}
