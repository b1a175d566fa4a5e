// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	return e
}

func testChange(desc string, prev, next float64) Change {
	return Change{
		TrackIndex:    1,
		TrackName:     "Bass",
		PreviousValue: prev,
		NewValue:      next,
		Description:   desc,
		Category:      CategoryVolume,
	}
}

func TestRecordChange_FillsIDAndTimestamp(t *testing.T) {
	e := newTestEngine(t)

	recorded, err := e.RecordChange(testChange("bass up", 0.5, 0.6))
	require.NoError(t, err)

	assert.NotEmpty(t, recorded.ID)
	assert.False(t, recorded.CreatedAt.IsZero())
	assert.Len(t, e.Session().History, 1)
	assert.True(t, e.CanUndo())
	assert.False(t, e.CanRedo())
}

func TestRecordChange_DefaultsCategory(t *testing.T) {
	e := newTestEngine(t)

	c := testChange("tweak", 0, 1)
	c.Category = ""
	recorded, err := e.RecordChange(c)
	require.NoError(t, err)
	assert.Equal(t, CategoryManual, recorded.Category)
}

func TestUndoRedo_Inverse(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.RecordChange(testChange("first", 0.1, 0.2))
	require.NoError(t, err)
	_, err = e.RecordChange(testChange("second", 0.2, 0.3))
	require.NoError(t, err)

	historyBefore := append([]Change(nil), e.Session().History...)
	undoBefore := append([]string(nil), e.Session().UndoStack...)

	// Undo then redo must restore the exact state.
	peeked, ok := e.GetUndo()
	require.True(t, ok)
	assert.Equal(t, "second", peeked.Description)
	require.NoError(t, e.ConfirmUndo())

	assert.True(t, e.CanRedo())
	assert.Len(t, e.Session().UndoStack, 1)

	peeked, ok = e.GetRedo()
	require.True(t, ok)
	assert.Equal(t, "second", peeked.Description)
	require.NoError(t, e.ConfirmRedo())

	assert.Equal(t, historyBefore, e.Session().History)
	assert.Equal(t, undoBefore, e.Session().UndoStack)
	assert.Empty(t, e.Session().RedoStack)
}

func TestRecordChange_ClearsRedoStack(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.RecordChange(testChange("first", 0.1, 0.2))
	require.NoError(t, err)
	require.NoError(t, e.ConfirmUndo())
	require.True(t, e.CanRedo())

	_, err = e.RecordChange(testChange("fresh", 0.2, 0.4))
	require.NoError(t, err)

	assert.False(t, e.CanRedo(), "a fresh change must invalidate the redo trail")
	// History keeps every change ever recorded.
	assert.Len(t, e.Session().History, 2)
}

func TestConfirmUndo_EmptyStack(t *testing.T) {
	e := newTestEngine(t)

	require.ErrorIs(t, e.ConfirmUndo(), ErrNothingToUndo)
	require.ErrorIs(t, e.ConfirmRedo(), ErrNothingToRedo)

	_, ok := e.GetUndo()
	assert.False(t, ok)
	_, ok = e.GetRedo()
	assert.False(t, ok)
}

func TestGetUndo_PeeksWithoutPopping(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.RecordChange(testChange("only", 0.1, 0.2))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		c, ok := e.GetUndo()
		require.True(t, ok)
		assert.Equal(t, "only", c.Description)
	}
	assert.Len(t, e.Session().UndoStack, 1)
}

func TestSetSong_DoesNotTouchHistory(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.RecordChange(testChange("one", 0, 1))
	require.NoError(t, err)

	require.NoError(t, e.SetSong("Night Drive"))
	assert.Equal(t, "Night Drive", e.Session().SongName)
	assert.Len(t, e.Session().History, 1)
}

func TestSummary(t *testing.T) {
	e := newTestEngine(t)

	sum := e.Summary()
	assert.Zero(t, sum.TotalChanges)
	assert.False(t, sum.CanUndo)
	assert.Nil(t, sum.LastChange)

	_, err := e.RecordChange(testChange("latest", 0.3, 0.4))
	require.NoError(t, err)
	require.NoError(t, e.SetSong("Demo"))

	sum = e.Summary()
	assert.Equal(t, "Demo", sum.SongName)
	assert.Equal(t, 1, sum.TotalChanges)
	assert.True(t, sum.CanUndo)
	require.NotNil(t, sum.LastChange)
	assert.Equal(t, "latest", sum.LastChange.Description)
}
