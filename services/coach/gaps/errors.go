// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gaps

import (
	"errors"
	"fmt"
)

// Sentinel errors for the gaps package.
var (
	// ErrEmptyProfile indicates the profile document contained no features.
	ErrEmptyProfile = errors.New("reference profile has no features")

	// ErrNilProfile indicates an analyzer was built without a profile.
	ErrNilProfile = errors.New("reference profile is nil")
)

// ProfileParseError reports a malformed reference profile, naming the
// feature and field so the caller can fix the document instead of
// guessing. Nothing is guessed or coerced on parse.
type ProfileParseError struct {
	// Feature is the feature entry at fault, empty for document-level
	// problems.
	Feature string

	// Field is the offending field within the feature entry.
	Field string

	// Reason describes what was wrong.
	Reason string
}

// Error implements the error interface.
func (e *ProfileParseError) Error() string {
	if e.Feature == "" {
		return fmt.Sprintf("profile parse: %s", e.Reason)
	}
	return fmt.Sprintf("profile parse: feature %q field %q: %s", e.Feature, e.Field, e.Reason)
}
