// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadOrCreate_FreshSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	sess, err := LoadOrCreate(path)
	require.NoError(t, err)
	require.NotNil(t, sess)

	assert.NotEmpty(t, sess.ID)
	assert.Empty(t, sess.History)
	assert.Nil(t, sess.AB)

	// Nothing is written until the first save.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	e, err := NewEngine(path)
	require.NoError(t, err)

	_, err = e.RecordChange(testChange("first", 0.1, 0.2))
	require.NoError(t, err)
	_, err = e.RecordChange(testChange("second", 0.2, 0.3))
	require.NoError(t, err)
	require.NoError(t, e.ConfirmUndo())
	require.NoError(t, e.SetSong("Night Drive"))
	require.NoError(t, e.StartAB(startParams()))

	loaded, err := NewStore(path).Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, e.Session(), loaded)
}

func TestStore_RoundTripEmptySession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	e, err := NewEngine(path)
	require.NoError(t, err)
	require.NoError(t, e.SetSong("Empty"))

	loaded, err := NewStore(path).Load()
	require.NoError(t, err)
	assert.Equal(t, e.Session(), loaded)
}

func TestLoadOrCreate_CorruptFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	sess, err := LoadOrCreate(path)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "load", perr.Op)

	// A usable fresh session is offered alongside the error.
	require.NotNil(t, sess)
	assert.Empty(t, sess.History)
}

func TestNewEngine_CorruptFileStillUsable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	e, err := NewEngine(path)
	require.Error(t, err)
	require.NotNil(t, e)

	// The engine works; the next save replaces the corrupt file.
	_, err = e.RecordChange(testChange("recovered", 0, 1))
	require.NoError(t, err)

	loaded, err := NewStore(path).Load()
	require.NoError(t, err)
	assert.Len(t, loaded.History, 1)
}

func TestStore_StackReferencingUnknownChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"id": "x", "history": [], "undo_stack": ["ghost"], "redo_stack": []}`,
	), 0o600))

	_, err := NewStore(path).Load()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrCorruptHistory)
}

func TestStore_UnknownFieldsTolerated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"id": "x", "song_name": "Old", "future_field": {"a": 1}}`,
	), 0o600))

	sess, err := NewStore(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "Old", sess.SongName)
	// Missing optional fields default to empty/idle.
	assert.Empty(t, sess.History)
	assert.Empty(t, sess.UndoStack)
	assert.Nil(t, sess.AB)
}

func TestStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	e, err := NewEngine(path)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = e.RecordChange(testChange("c", 0, 1))
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "session.json", entries[0].Name())
}

func TestStore_SaveCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "session.json")
	e, err := NewEngine(path)
	require.NoError(t, err)

	_, err = e.RecordChange(testChange("c", 0, 1))
	require.NoError(t, err)

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestPersistenceError_Unwrap(t *testing.T) {
	inner := errors.New("disk gone")
	perr := &PersistenceError{Op: "save", Path: "/tmp/x", Err: inner}

	require.ErrorIs(t, perr, inner)
	assert.Contains(t, perr.Error(), "/tmp/x")
}
