// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	sessionPath  string
	profilePath  string
	snapshotPath string
	plainOutput  bool

	// ab start flags
	abTrack       string
	abDevice      string
	abParameter   string
	abOriginal    float64
	abCandidate   float64
	abDescription string

	// ab end flags
	abKeep string

	// analyze flags
	analyzeLabel string
	analyzeTop   int

	// resolve flags
	resolveValue float64

	rootCmd = &cobra.Command{
		Use:   "mixcoach",
		Short: "A cli for session-based mix coaching against reference profiles",
		Long: `Mixcoach tracks mix changes in a durable session with undo/redo
				and A/B comparison, resolves human track/device/parameter names
				against control-surface snapshots, and reports how far a mix
				sits from a reference profile.`,
	}

	// --- Session ---
	sessionCmd = &cobra.Command{
		Use:   "session",
		Short: "Inspect and manipulate the coaching session",
	}
	sessionShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show a summary of the current session",
		Run:   runSessionShow, // Defined in cmd_session.go
	}
	sessionUndoCmd = &cobra.Command{
		Use:   "undo",
		Short: "Undo the most recent change",
		Run:   runSessionUndo,
	}
	sessionRedoCmd = &cobra.Command{
		Use:   "redo",
		Short: "Redo the most recently undone change",
		Run:   runSessionRedo,
	}
	sessionSongCmd = &cobra.Command{
		Use:   "song [name]",
		Short: "Set the song name for the current session",
		Args:  cobra.ExactArgs(1),
		Run:   runSessionSong,
	}

	// --- A/B Comparison ---
	abCmd = &cobra.Command{
		Use:   "ab",
		Short: "Run an A/B comparison of a candidate change",
	}
	abStartCmd = &cobra.Command{
		Use:   "start",
		Short: "Start comparing a candidate value against the original",
		Run:   runABStart, // Defined in cmd_ab.go
	}
	abToggleCmd = &cobra.Command{
		Use:   "toggle",
		Short: "Switch between the original (A) and candidate (B) sides",
		Run:   runABToggle,
	}
	abEndCmd = &cobra.Command{
		Use:   "end",
		Short: "End the comparison, keeping side A or B",
		Run:   runABEnd,
	}

	// --- Analysis ---
	analyzeCmd = &cobra.Command{
		Use:   "analyze [metrics.json]",
		Short: "Compare measured mix metrics against a reference profile",
		Args:  cobra.ExactArgs(1),
		Run:   runAnalyze, // Defined in cmd_analyze.go
	}

	// --- Resolution ---
	resolveCmd = &cobra.Command{
		Use:   "resolve [track] [device] [parameter]",
		Short: "Resolve human names to snapshot indices",
		Args:  cobra.RangeArgs(1, 3),
		Run:   runResolve, // Defined in cmd_resolve.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "",
		"session file path (overrides config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&plainOutput, "plain", false,
		"plain machine-friendly output without styling")

	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionUndoCmd)
	sessionCmd.AddCommand(sessionRedoCmd)
	sessionCmd.AddCommand(sessionSongCmd)

	rootCmd.AddCommand(abCmd)
	abCmd.AddCommand(abStartCmd)
	abCmd.AddCommand(abToggleCmd)
	abCmd.AddCommand(abEndCmd)
	abStartCmd.Flags().StringVar(&abTrack, "track", "", "target track name")
	abStartCmd.Flags().StringVar(&abDevice, "device", "", "target device name")
	abStartCmd.Flags().StringVar(&abParameter, "param", "", "target parameter name")
	abStartCmd.Flags().Float64Var(&abOriginal, "original", 0, "current value (side A)")
	abStartCmd.Flags().Float64Var(&abCandidate, "candidate", 0, "value to audition (side B)")
	abStartCmd.Flags().StringVar(&abDescription, "desc", "", "what is being compared")
	_ = abStartCmd.MarkFlagRequired("track")
	_ = abStartCmd.MarkFlagRequired("original")
	_ = abStartCmd.MarkFlagRequired("candidate")
	abEndCmd.Flags().StringVar(&abKeep, "keep", "B", "side to keep (A or B)")

	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&profilePath, "profile", "",
		"reference profile path (overrides config.yaml)")
	analyzeCmd.Flags().StringVar(&analyzeLabel, "label", "user", "label for the analyzed mix")
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", 3, "number of prioritized gaps to highlight")

	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVar(&snapshotPath, "snapshot", "",
		"snapshot file path (overrides config.yaml)")
	resolveCmd.Flags().Float64Var(&resolveValue, "value", 0, "value to carry through resolution")
}
