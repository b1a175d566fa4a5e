// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"github.com/rankinbc/mixcoach/pkg/ux"
	"github.com/rankinbc/mixcoach/services/coach/session"
	"github.com/spf13/cobra"
)

// openEngine loads the session engine, warning (but continuing) when a
// corrupt session file was replaced with a fresh one.
func openEngine() *session.Engine {
	engine, err := session.NewEngine(expandPath(config.SessionPath))
	if err != nil {
		ux.Warning(fmt.Sprintf("session file was unreadable, starting fresh: %v", err))
	}
	return engine
}

func runSessionShow(cmd *cobra.Command, args []string) {
	engine := openEngine()
	summary := engine.Summary()

	ux.Title("Session")
	if summary.SongName != "" {
		ux.KeyValue("song", summary.SongName)
	}
	ux.KeyValue("changes", fmt.Sprintf("%d", summary.TotalChanges))
	ux.KeyValue("undo available", fmt.Sprintf("%t", summary.CanUndo))
	ux.KeyValue("redo available", fmt.Sprintf("%t", summary.CanRedo))
	if summary.Comparing {
		ux.KeyValue("comparing", fmt.Sprintf("side %s", summary.Side))
	}
	if summary.LastChange != nil {
		ux.KeyValue("last change", fmt.Sprintf("%s (%.3f -> %.3f)",
			summary.LastChange.Description,
			summary.LastChange.PreviousValue,
			summary.LastChange.NewValue))
	}
}

func runSessionUndo(cmd *cobra.Command, args []string) {
	engine := openEngine()

	change, ok := engine.GetUndo()
	if !ok {
		ux.Muted("nothing to undo")
		return
	}
	if err := engine.ConfirmUndo(); err != nil {
		ux.Error(fmt.Sprintf("undo failed: %v", err))
		os.Exit(1)
	}
	ux.Success(fmt.Sprintf("undid %q: restore value %.3f",
		change.Description, change.PreviousValue))
}

func runSessionRedo(cmd *cobra.Command, args []string) {
	engine := openEngine()

	change, ok := engine.GetRedo()
	if !ok {
		ux.Muted("nothing to redo")
		return
	}
	if err := engine.ConfirmRedo(); err != nil {
		ux.Error(fmt.Sprintf("redo failed: %v", err))
		os.Exit(1)
	}
	ux.Success(fmt.Sprintf("redid %q: apply value %.3f",
		change.Description, change.NewValue))
}

func runSessionSong(cmd *cobra.Command, args []string) {
	engine := openEngine()
	if err := engine.SetSong(args[0]); err != nil {
		ux.Error(fmt.Sprintf("setting song: %v", err))
		os.Exit(1)
	}
	ux.Success(fmt.Sprintf("song set to %q", args[0]))
}
