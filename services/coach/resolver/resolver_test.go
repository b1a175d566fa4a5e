// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTracks(t *testing.T, r *Resolver, doc string) {
	t.Helper()
	snap, err := ParseSnapshot([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, r.LoadTracks(snap))
}

const kickBass = `{"success": true, "tracks": [
	{"index": 0, "name": "Kick"},
	{"index": 1, "name": "Bass"}
]}`

func TestResolveTrack_ExactIsCaseInsensitive(t *testing.T) {
	r := New(nil)
	loadTracks(t, r, kickBass)

	for _, query := range []string{"Kick", "KICK", "kick"} {
		idx, ok := r.ResolveTrack(query)
		require.True(t, ok, "query %q", query)
		assert.Equal(t, 0, idx)
	}
}

func TestResolveTrack_BelowThresholdReturnsNotFound(t *testing.T) {
	r := New(nil)
	loadTracks(t, r, kickBass)

	_, ok := r.ResolveTrack("Xylophone")
	assert.False(t, ok)
}

func TestResolveTrack_FuzzyAtThreshold(t *testing.T) {
	r := New(nil)
	loadTracks(t, r, kickBass)

	// "Basss" vs "Bass" scores exactly 0.8 and must be accepted.
	idx, ok := r.ResolveTrack("Basss")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestResolveTrack_ExactTieLowestIndex(t *testing.T) {
	r := New(nil)
	loadTracks(t, r, `{"success": true, "tracks": [
		{"index": 3, "name": "Pad"},
		{"index": 1, "name": "Pad"}
	]}`)

	idx, ok := r.ResolveTrack("pad")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestResolveTrack_CacheInvalidatedOnReload(t *testing.T) {
	r := New(nil)
	loadTracks(t, r, kickBass)

	idx, ok := r.ResolveTrack("Bass")
	require.True(t, ok)
	require.Equal(t, 1, idx)

	// Reload without "Bass". The stale cached index must never surface.
	loadTracks(t, r, `{"success": true, "tracks": [
		{"index": 0, "name": "Kick"},
		{"index": 1, "name": "Drums"}
	]}`)

	_, ok = r.ResolveTrack("Bass")
	assert.False(t, ok)
}

func TestResolveTrack_CacheSurvivesOtherScopeReload(t *testing.T) {
	r := New(nil)
	loadTracks(t, r, kickBass)

	idx, ok := r.ResolveTrack("Bass")
	require.True(t, ok)
	require.Equal(t, 1, idx)

	// Reloading a device scope must not touch the track cache.
	snap, err := ParseSnapshot([]byte(`{"success": true, "devices": [{"index": 0, "name": "EQ Eight"}]}`))
	require.NoError(t, err)
	require.NoError(t, r.LoadDevices(1, snap))

	idx, ok = r.ResolveTrack("Bass")
	require.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestResolveDevice_ScopedToTrack(t *testing.T) {
	r := New(nil)
	loadTracks(t, r, kickBass)

	snap, err := ParseSnapshot([]byte(`{"success": true, "devices": [
		{"index": 0, "name": "EQ Eight"},
		{"index": 1, "name": "Compressor"}
	]}`))
	require.NoError(t, err)
	require.NoError(t, r.LoadDevices(1, snap))

	idx, ok := r.ResolveDevice(1, "eq eight")
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	// No devices loaded for track 0.
	_, ok = r.ResolveDevice(0, "EQ Eight")
	assert.False(t, ok)
}

func TestResolveFix_FullChain(t *testing.T) {
	r := New(nil)

	snap, err := ParseSnapshot([]byte(`{
		"tracks": [
			{"index": 1, "name": "Bass", "devices": [
				{"index": 0, "name": "EQ Eight", "parameters": [
					{"index": 4, "name": "Band 1 Gain"}
				]}
			]}
		]
	}`))
	require.NoError(t, err)
	require.NoError(t, r.LoadTracks(snap))
	require.NoError(t, r.LoadDevices(1, snap))
	require.NoError(t, r.LoadParameters(1, 0, snap))

	fix, err := r.ResolveFix(context.Background(), FixRequest{
		TrackName:     "bass",
		DeviceName:    "EQ Eight",
		ParameterName: "Band 1 Gian", // fuzzy: scores 1 - 2/11
		Value:         0.45,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, fix.TrackIndex)
	require.NotNil(t, fix.DeviceIndex)
	assert.Equal(t, 0, *fix.DeviceIndex)
	require.NotNil(t, fix.ParameterIndex)
	assert.Equal(t, 4, *fix.ParameterIndex)
	assert.Equal(t, 0.45, fix.Value)
}

func TestResolveFix_TrackOnly(t *testing.T) {
	r := New(nil)
	loadTracks(t, r, kickBass)

	fix, err := r.ResolveFix(context.Background(), FixRequest{TrackName: "Kick", Value: 0.7})
	require.NoError(t, err)

	assert.Equal(t, 0, fix.TrackIndex)
	assert.Nil(t, fix.DeviceIndex)
	assert.Nil(t, fix.ParameterIndex)
}

func TestResolveFix_NearMisses(t *testing.T) {
	r := New(nil)
	loadTracks(t, r, `{"success": true, "tracks": [
		{"index": 0, "name": "Kick"},
		{"index": 1, "name": "Bass"},
		{"index": 2, "name": "Brass"},
		{"index": 3, "name": "Vocals"}
	]}`)

	_, err := r.ResolveFix(context.Background(), FixRequest{TrackName: "Basses", Value: 0})
	require.Error(t, err)
	require.ErrorIs(t, err, ErrNameNotFound)

	var rerr *ResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, KindTrack, rerr.Kind)
	assert.Equal(t, "Basses", rerr.Query)
	require.Len(t, rerr.Candidates, 3)

	// Best near miss first: "Bass" (1 - 2/6), then "Brass" (1 - 3/6).
	assert.Equal(t, "Bass", rerr.Candidates[0].Name)
	assert.Equal(t, "Brass", rerr.Candidates[1].Name)
	assert.InDelta(t, 1.0-2.0/6.0, rerr.Candidates[0].Score, 1e-12)
}

func TestResolveFix_ParameterRequiresDevice(t *testing.T) {
	r := New(nil)
	loadTracks(t, r, kickBass)

	_, err := r.ResolveFix(context.Background(), FixRequest{
		TrackName:     "Bass",
		ParameterName: "Band 1 Gain",
		Value:         0.5,
	})
	require.Error(t, err)
}

func TestResolveFix_EmptyTrackName(t *testing.T) {
	r := New(nil)

	_, err := r.ResolveFix(context.Background(), FixRequest{Value: 0.5})
	require.Error(t, err)
}
