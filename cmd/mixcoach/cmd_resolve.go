// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rankinbc/mixcoach/pkg/ux"
	"github.com/rankinbc/mixcoach/services/coach/resolver"
	"github.com/rankinbc/mixcoach/services/coach/units"
	"github.com/spf13/cobra"
)

func runResolve(cmd *cobra.Command, args []string) {
	if config.SnapshotPath == "" {
		ux.Error("no snapshot configured; set snapshot_path in config.yaml or pass --snapshot")
		os.Exit(1)
	}

	data, err := os.ReadFile(expandPath(config.SnapshotPath))
	if err != nil {
		ux.Error(fmt.Sprintf("reading snapshot: %v", err))
		os.Exit(1)
	}
	snap, err := resolver.ParseSnapshot(data)
	if err != nil {
		ux.Error(fmt.Sprintf("parsing snapshot: %v", err))
		os.Exit(1)
	}

	req := resolver.FixRequest{
		TrackName: args[0],
		Value:     resolveValue,
	}
	if len(args) > 1 {
		req.DeviceName = args[1]
	}
	if len(args) > 2 {
		req.ParameterName = args[2]
	}

	r := resolver.New(nil)
	if err := loadScopes(r, snap, req); err != nil {
		ux.Error(fmt.Sprintf("loading snapshot scopes: %v", err))
		os.Exit(1)
	}

	fix, err := r.ResolveFix(cmd.Context(), req)
	if err != nil {
		var rerr *resolver.ResolutionError
		if errors.As(err, &rerr) && len(rerr.Candidates) > 0 {
			ux.Error(fmt.Sprintf("no %s named %q", rerr.Kind, rerr.Query))
			ux.Muted("closest matches:")
			for _, c := range rerr.Candidates {
				ux.Info(fmt.Sprintf("%s (index %d, score %.2f)", c.Name, c.Index, c.Score))
			}
		} else {
			ux.Error(fmt.Sprintf("resolving: %v", err))
		}
		os.Exit(1)
	}

	ux.Success(fmt.Sprintf("track %q -> index %d", req.TrackName, fix.TrackIndex))
	if fix.DeviceIndex != nil {
		ux.KeyValue("device", fmt.Sprintf("%q -> index %d", req.DeviceName, *fix.DeviceIndex))
	}
	if fix.ParameterIndex != nil {
		unit := units.DetectUnit(req.ParameterName)
		ux.KeyValue("parameter", fmt.Sprintf("%q -> index %d", req.ParameterName, *fix.ParameterIndex))
		if norm, err := units.ToNormalized(unit, fix.Value); err == nil {
			ux.KeyValue("value", fmt.Sprintf("%s = %.4f normalized",
				units.Format(unit, fix.Value), norm))
		}
	}
}

// loadScopes walks the snapshot down the path the request needs:
// tracks always, then devices and parameters as names are given. The
// device scope can only be loaded after the track resolves, because
// devices are keyed by track index.
func loadScopes(r *resolver.Resolver, snap *resolver.Snapshot, req resolver.FixRequest) error {
	if err := r.LoadTracks(snap); err != nil {
		return err
	}
	if req.DeviceName == "" {
		return nil
	}
	trackIndex, ok := r.ResolveTrack(req.TrackName)
	if !ok {
		return nil // ResolveFix reports the miss with candidates
	}
	if err := r.LoadDevices(trackIndex, snap); err != nil {
		return err
	}
	if req.ParameterName == "" {
		return nil
	}
	deviceIndex, ok := r.ResolveDevice(trackIndex, req.DeviceName)
	if !ok {
		return nil
	}
	return r.LoadParameters(trackIndex, deviceIndex, snap)
}
