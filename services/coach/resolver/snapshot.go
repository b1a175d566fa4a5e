// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package resolver

import (
	"encoding/json"
	"fmt"
)

// Entry is the normalized index/name pair every snapshot shape boils
// down to. Indices are stable only until the next reload of their scope.
type Entry struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

// Snapshot is the normalized form of an inbound snapshot document.
//
// # Description
//
// The control surface speaks two shapes: a live response shape
// ({success, tracks|devices|parameters: [{index, name}]}) scoped to one
// level, and a diagnostic-report shape carrying the full nested
// track/device/parameter hierarchy. ParseSnapshot detects the shape at
// the boundary and normalizes immediately; nothing downstream branches
// on source format.
type Snapshot struct {
	// flat holds the single-level entries of a surface-shape response.
	flat []Entry

	// flatLevel is the key the surface response carried:
	// "tracks", "devices", or "parameters". Empty for diagnostic shape.
	flatLevel string

	// tracks holds the nested hierarchy of a diagnostic-shape report.
	tracks []trackNode
}

type trackNode struct {
	Entry
	Devices []deviceNode
}

type deviceNode struct {
	Entry
	Parameters []Entry
}

// Raw decode targets. Pointer fields distinguish absent from zero.

type rawEntry struct {
	Index *int    `json:"index"`
	Name  *string `json:"name"`
}

type surfaceResponse struct {
	Success    *bool      `json:"success"`
	Tracks     []rawEntry `json:"tracks"`
	Devices    []rawEntry `json:"devices"`
	Parameters []rawEntry `json:"parameters"`
}

type diagParameter struct {
	Index *int    `json:"index"`
	Name  *string `json:"name"`
}

type diagDevice struct {
	Index      *int            `json:"index"`
	Name       *string         `json:"name"`
	Parameters []diagParameter `json:"parameters"`
}

type diagTrack struct {
	Index   *int         `json:"index"`
	Name    *string      `json:"name"`
	Devices []diagDevice `json:"devices"`
}

type diagnosticReport struct {
	Tracks []diagTrack `json:"tracks"`
}

// ParseSnapshot decodes a snapshot document in either supported shape.
//
// Shape detection: a top-level "success" field marks the control-surface
// response shape; otherwise a top-level "tracks" array marks the
// diagnostic-report shape. Anything else fails with ErrUnrecognizedShape.
// Malformed entries fail with a SnapshotParseError naming the offending
// field; nothing is guessed or coerced.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	if _, ok := probe["success"]; ok {
		return parseSurface(data)
	}
	if _, ok := probe["tracks"]; ok {
		return parseDiagnostic(data)
	}

	return nil, ErrUnrecognizedShape
}

func parseSurface(data []byte) (*Snapshot, error) {
	var resp surfaceResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode surface response: %w", err)
	}

	if resp.Success == nil {
		return nil, &SnapshotParseError{Field: "success", Reason: "missing"}
	}
	if !*resp.Success {
		return nil, &SnapshotParseError{Field: "success", Reason: "control surface reported failure"}
	}

	var raw []rawEntry
	var level string
	switch {
	case resp.Tracks != nil:
		raw, level = resp.Tracks, "tracks"
	case resp.Devices != nil:
		raw, level = resp.Devices, "devices"
	case resp.Parameters != nil:
		raw, level = resp.Parameters, "parameters"
	default:
		return nil, &SnapshotParseError{Field: "tracks", Reason: "no entity array present"}
	}

	entries := make([]Entry, 0, len(raw))
	for i, r := range raw {
		e, err := normalizeEntry(r.Index, r.Name, fmt.Sprintf("%s[%d]", level, i))
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return &Snapshot{flat: entries, flatLevel: level}, nil
}

func parseDiagnostic(data []byte) (*Snapshot, error) {
	var report diagnosticReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decode diagnostic report: %w", err)
	}

	tracks := make([]trackNode, 0, len(report.Tracks))
	for i, rt := range report.Tracks {
		te, err := normalizeEntry(rt.Index, rt.Name, fmt.Sprintf("tracks[%d]", i))
		if err != nil {
			return nil, err
		}

		node := trackNode{Entry: te}
		for j, rd := range rt.Devices {
			de, err := normalizeEntry(rd.Index, rd.Name, fmt.Sprintf("tracks[%d].devices[%d]", i, j))
			if err != nil {
				return nil, err
			}

			dn := deviceNode{Entry: de}
			for k, rp := range rd.Parameters {
				pe, err := normalizeEntry(rp.Index, rp.Name,
					fmt.Sprintf("tracks[%d].devices[%d].parameters[%d]", i, j, k))
				if err != nil {
					return nil, err
				}
				dn.Parameters = append(dn.Parameters, pe)
			}
			node.Devices = append(node.Devices, dn)
		}
		tracks = append(tracks, node)
	}

	return &Snapshot{tracks: tracks}, nil
}

func normalizeEntry(index *int, name *string, field string) (Entry, error) {
	if index == nil {
		return Entry{}, &SnapshotParseError{Field: field + ".index", Reason: "missing"}
	}
	if *index < 0 {
		return Entry{}, &SnapshotParseError{Field: field + ".index", Reason: "negative"}
	}
	if name == nil {
		return Entry{}, &SnapshotParseError{Field: field + ".name", Reason: "missing"}
	}
	return Entry{Index: *index, Name: *name}, nil
}

// TrackEntries projects the track level of the snapshot.
func (s *Snapshot) TrackEntries() ([]Entry, error) {
	if s.flatLevel != "" {
		if s.flatLevel != "tracks" {
			return nil, &SnapshotParseError{Field: s.flatLevel, Reason: "snapshot carries no track level"}
		}
		return s.flat, nil
	}

	entries := make([]Entry, 0, len(s.tracks))
	for _, t := range s.tracks {
		entries = append(entries, t.Entry)
	}
	return entries, nil
}

// DeviceEntries projects the device level for one track.
//
// Surface-shape snapshots are already scoped to a track by the caller's
// request, so trackIndex is only consulted for diagnostic reports.
func (s *Snapshot) DeviceEntries(trackIndex int) ([]Entry, error) {
	if s.flatLevel != "" {
		if s.flatLevel != "devices" {
			return nil, &SnapshotParseError{Field: s.flatLevel, Reason: "snapshot carries no device level"}
		}
		return s.flat, nil
	}

	for _, t := range s.tracks {
		if t.Index == trackIndex {
			entries := make([]Entry, 0, len(t.Devices))
			for _, d := range t.Devices {
				entries = append(entries, d.Entry)
			}
			return entries, nil
		}
	}
	return nil, &SnapshotParseError{
		Field:  "tracks",
		Reason: fmt.Sprintf("no track with index %d", trackIndex),
	}
}

// ParameterEntries projects the parameter level for one device.
func (s *Snapshot) ParameterEntries(trackIndex, deviceIndex int) ([]Entry, error) {
	if s.flatLevel != "" {
		if s.flatLevel != "parameters" {
			return nil, &SnapshotParseError{Field: s.flatLevel, Reason: "snapshot carries no parameter level"}
		}
		return s.flat, nil
	}

	for _, t := range s.tracks {
		if t.Index != trackIndex {
			continue
		}
		for _, d := range t.Devices {
			if d.Index == deviceIndex {
				return d.Parameters, nil
			}
		}
		return nil, &SnapshotParseError{
			Field:  fmt.Sprintf("tracks[%d].devices", trackIndex),
			Reason: fmt.Sprintf("no device with index %d", deviceIndex),
		}
	}
	return nil, &SnapshotParseError{
		Field:  "tracks",
		Reason: fmt.Sprintf("no track with index %d", trackIndex),
	}
}
