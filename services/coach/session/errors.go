// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"errors"
	"fmt"
)

// Sentinel errors for the session package.
//
// Stack and comparison misuse are contract violations from the caller's
// side and always surface; they are never silently ignored, so bugs in
// calling code are caught instead of masked.
var (
	// ErrNothingToUndo indicates ConfirmUndo was called with an empty
	// undo stack.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates ConfirmRedo was called with an empty
	// redo stack.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrAlreadyComparing indicates StartAB was called while a
	// comparison was already in flight. The running comparison is
	// never silently overwritten.
	ErrAlreadyComparing = errors.New("A/B comparison already in progress")

	// ErrNotComparing indicates ToggleAB or EndAB was called with no
	// comparison in flight.
	ErrNotComparing = errors.New("no A/B comparison in progress")

	// ErrInvalidSide indicates a side other than A or B was given.
	ErrInvalidSide = errors.New("side must be A or B")

	// ErrCorruptHistory indicates a stack references a change ID that
	// is not in History. Only reachable through a hand-edited or
	// truncated session file.
	ErrCorruptHistory = errors.New("stack references unknown change")
)

// PersistenceError reports an unreadable or unwritable session file.
//
// On load, a PersistenceError is recoverable: the engine falls back to
// a fresh empty session and surfaces the error as a warning, since a
// coaching session is not safety-critical data.
type PersistenceError struct {
	// Op is the failed operation, "load" or "save".
	Op string

	// Path is the session file path.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("session %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}
