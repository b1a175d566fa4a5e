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
	"strings"

	"github.com/rankinbc/mixcoach/pkg/ux"
	"github.com/rankinbc/mixcoach/services/coach/session"
	"github.com/spf13/cobra"
)

func runABStart(cmd *cobra.Command, args []string) {
	engine := openEngine()

	description := abDescription
	if description == "" {
		description = fmt.Sprintf("%s: %.3f vs %.3f", abTrack, abOriginal, abCandidate)
	}

	params := session.StartABParams{
		Description:    description,
		TrackName:      abTrack,
		DeviceName:     abDevice,
		ParameterName:  abParameter,
		OriginalValue:  abOriginal,
		CandidateValue: abCandidate,
	}
	if err := engine.StartAB(params); err != nil {
		ux.Error(fmt.Sprintf("starting comparison: %v", err))
		os.Exit(1)
	}
	ux.Success(fmt.Sprintf("comparing %q, candidate side B active (%.3f)",
		description, abCandidate))
	ux.Muted("use 'mixcoach ab toggle' to switch sides, 'mixcoach ab end --keep A|B' to finish")
}

func runABToggle(cmd *cobra.Command, args []string) {
	engine := openEngine()

	side, value, err := engine.ToggleAB()
	if err != nil {
		ux.Error(fmt.Sprintf("toggling comparison: %v", err))
		os.Exit(1)
	}
	label := "candidate"
	if side == session.SideA {
		label = "original"
	}
	ux.Success(fmt.Sprintf("now auditioning side %s (%s): apply value %.3f",
		side, label, value))
}

func runABEnd(cmd *cobra.Command, args []string) {
	engine := openEngine()

	keep := session.Side(strings.ToUpper(abKeep))
	change, err := engine.EndAB(keep)
	if err != nil {
		ux.Error(fmt.Sprintf("ending comparison: %v", err))
		os.Exit(1)
	}
	if change == nil {
		ux.Success("kept the original, no change recorded")
		return
	}
	ux.Success(fmt.Sprintf("kept the candidate: recorded %q (%.3f -> %.3f)",
		change.Description, change.PreviousValue, change.NewValue))
}
