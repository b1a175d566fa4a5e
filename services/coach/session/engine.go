// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package session is the change ledger of a coaching engagement: it
// records applied changes, maintains the undo/redo stacks, runs the A/B
// comparison state machine, and persists itself durably after every
// mutation.
//
// # State machine
//
// The A/B comparison machine has two states, idle and comparing:
//
//	idle      --StartAB-->        comparing(B)   candidate is active
//	comparing --ToggleAB-->       comparing(¬s)
//	comparing --EndAB(keep=B)-->  idle           candidate recorded as a Change
//	comparing --EndAB(keep=A)-->  idle           nothing recorded
//
// StartAB while comparing fails; Toggle/End while idle fail. At most
// one comparison exists at a time.
//
// # Undo/redo
//
// The undo stack is always a suffix of History in reverse order up to
// the last redo-cleared point. Recording a fresh change clears the redo
// stack: a new action invalidates the redo trail. Undo/redo move Change
// references between the two stacks; History is append-only and never
// edited.
//
// # Thread Safety
//
// The engine expects one synchronous caller and takes no internal
// locks. One active writer per session path is a documented
// precondition of the Store.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Engine owns one session and its persistence.
//
// Every mutating operation persists the full session synchronously
// before returning. The engine applies nothing to the control surface
// itself; callers apply values externally and confirm the outcome, and
// the engine only records it.
type Engine struct {
	session *Session
	store   *Store
}

// NewEngine loads or creates the session at path.
//
// A corrupt session file is not fatal: the engine starts with a fresh
// empty session and the PersistenceError is returned alongside the
// usable engine so the caller can surface a warning. Any other error
// returns a nil engine.
func NewEngine(path string) (*Engine, error) {
	sess, err := LoadOrCreate(path)
	if sess == nil {
		return nil, err
	}

	if err != nil {
		slog.Warn("session file unreadable, starting fresh",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
	}

	return &Engine{session: sess, store: NewStore(path)}, err
}

// Session returns the engine's session for inspection. Callers must
// treat it as read-only; all mutation goes through engine operations.
func (e *Engine) Session() *Session {
	return e.session
}

// SetSong sets the current song/context name. History is unaffected.
func (e *Engine) SetSong(name string) error {
	e.session.SongName = name
	return e.persist()
}

// RecordChange appends a change to History, pushes it onto the undo
// stack, and clears the redo stack: a fresh action invalidates the redo
// trail. A zero ID or timestamp is filled in.
//
// The returned pointer is the stored history entry. On a persistence
// failure the in-memory mutation stands and the error is returned; the
// next successful persist writes the complete state.
func (e *Engine) RecordChange(change Change) (*Change, error) {
	e.record(&change)
	if err := e.persist(); err != nil {
		return nil, err
	}

	slog.Debug("change recorded",
		slog.String("id", change.ID),
		slog.String("category", string(change.Category)),
		slog.String("description", change.Description),
	)
	return &e.session.History[len(e.session.History)-1], nil
}

// record applies the record mutation without persisting.
func (e *Engine) record(change *Change) {
	if change.ID == "" {
		change.ID = uuid.NewString()
	}
	if change.CreatedAt.IsZero() {
		change.CreatedAt = time.Now().UTC()
	}
	if change.Category == "" {
		change.Category = CategoryManual
	}

	e.session.History = append(e.session.History, *change)
	e.session.UndoStack = append(e.session.UndoStack, change.ID)
	e.session.RedoStack = e.session.RedoStack[:0]

	changesRecorded.WithLabelValues(string(change.Category)).Inc()
}

// CanUndo reports whether an undo is available.
func (e *Engine) CanUndo() bool {
	return len(e.session.UndoStack) > 0
}

// CanRedo reports whether a redo is available.
func (e *Engine) CanRedo() bool {
	return len(e.session.RedoStack) > 0
}

// GetUndo peeks at the change an undo would revert, without popping.
//
// The caller is expected to apply the change's PreviousValue externally
// and then call ConfirmUndo.
func (e *Engine) GetUndo() (*Change, bool) {
	return e.peek(e.session.UndoStack)
}

// GetRedo peeks at the change a redo would re-apply, without popping.
//
// The caller is expected to apply the change's NewValue externally and
// then call ConfirmRedo.
func (e *Engine) GetRedo() (*Change, bool) {
	return e.peek(e.session.RedoStack)
}

func (e *Engine) peek(stack []string) (*Change, bool) {
	if len(stack) == 0 {
		return nil, false
	}

	change, ok := e.session.changeByID(stack[len(stack)-1])
	if !ok {
		// Unreachable unless the file was hand-edited past checkStacks.
		return nil, false
	}
	return change, true
}

// ConfirmUndo pops the undo stack and pushes the change onto the redo
// stack, after the caller has applied the previous value externally.
func (e *Engine) ConfirmUndo() error {
	if len(e.session.UndoStack) == 0 {
		return ErrNothingToUndo
	}

	top := e.session.UndoStack[len(e.session.UndoStack)-1]
	e.session.UndoStack = e.session.UndoStack[:len(e.session.UndoStack)-1]
	e.session.RedoStack = append(e.session.RedoStack, top)

	stackOps.WithLabelValues("undo").Inc()
	slog.Debug("undo confirmed", slog.String("id", top))
	return e.persist()
}

// ConfirmRedo pops the redo stack and pushes the change back onto the
// undo stack, after the caller has re-applied the new value externally.
func (e *Engine) ConfirmRedo() error {
	if len(e.session.RedoStack) == 0 {
		return ErrNothingToRedo
	}

	top := e.session.RedoStack[len(e.session.RedoStack)-1]
	e.session.RedoStack = e.session.RedoStack[:len(e.session.RedoStack)-1]
	e.session.UndoStack = append(e.session.UndoStack, top)

	stackOps.WithLabelValues("redo").Inc()
	slog.Debug("redo confirmed", slog.String("id", top))
	return e.persist()
}

// Summary returns a point-in-time view of the session for display.
func (e *Engine) Summary() Summary {
	s := Summary{
		SongName:     e.session.SongName,
		TotalChanges: len(e.session.History),
		CanUndo:      e.CanUndo(),
		CanRedo:      e.CanRedo(),
		Comparing:    e.session.AB != nil,
	}
	if e.session.AB != nil {
		s.Side = e.session.AB.Side
	}
	if n := len(e.session.History); n > 0 {
		last := e.session.History[n-1]
		s.LastChange = &last
	}
	return s
}

// persist saves the session, stamping UpdatedAt.
func (e *Engine) persist() error {
	e.session.UpdatedAt = time.Now().UTC()
	if err := e.store.Save(e.session); err != nil {
		var perr *PersistenceError
		if errors.As(err, &perr) {
			return err
		}
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}
