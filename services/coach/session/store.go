// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Store persists a session to a single JSON file.
//
// # Description
//
// Saves are atomic at the filesystem level: the session is written to a
// temporary file in the destination directory and renamed over the
// target, so a crash mid-write can never leave a half-written file in
// place of the prior valid state.
//
// # Concurrency
//
// One active writer per session path is a documented precondition, not
// enforced by locking. Rename-atomicity protects a reader from torn
// writes; it does not arbitrate two processes racing to write the same
// path.
type Store struct {
	path string
}

// NewStore creates a store for the given session file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the session file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the session file.
//
// A missing file returns (nil, nil): not yet created is not an error.
// An unreadable or undecodable file returns a PersistenceError.
func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}

	sess.normalize()
	if err := sess.checkStacks(); err != nil {
		return nil, &PersistenceError{Op: "load", Path: s.path, Err: err}
	}

	return &sess, nil
}

// Save writes the session atomically.
func (s *Store) Save(sess *Session) error {
	start := time.Now()
	defer func() {
		persistDuration.Observe(time.Since(start).Seconds())
	}()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Op: "save", Path: s.path, Err: err}
	}

	return nil
}

// newSession creates an empty session.
func newSession() *Session {
	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	sess.normalize()
	return sess
}

// LoadOrCreate reads the session at path if present and well-formed,
// else initializes an empty session.
//
// On a corrupt file both returns are non-nil: the caller gets a fresh
// empty session to keep working with, plus the PersistenceError to
// surface as a warning. The corrupt file is left in place untouched
// until the next save replaces it.
func LoadOrCreate(path string) (*Session, error) {
	store := NewStore(path)

	sess, err := store.Load()
	if err != nil {
		var perr *PersistenceError
		if errors.As(err, &perr) {
			return newSession(), err
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return newSession(), nil
	}
	return sess, nil
}

// checkStacks verifies every stack entry references a history change.
func (s *Session) checkStacks() error {
	for _, stack := range [][]string{s.UndoStack, s.RedoStack} {
		for _, id := range stack {
			if _, ok := s.changeByID(id); !ok {
				return fmt.Errorf("%w: %s", ErrCorruptHistory, id)
			}
		}
	}
	return nil
}
