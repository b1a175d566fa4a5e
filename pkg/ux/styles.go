// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides rich terminal output styling for the mixcoach CLI.
package ux

import (
	"os"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// mixcoach color palette - studio warmth over a dark console
var (
	ColorAmberBright = lipgloss.Color("#F5B041") // bright amber - highlights
	ColorAmber       = lipgloss.Color("#E67E22") // primary amber - brand
	ColorViolet      = lipgloss.Color("#9B59B6") // violet - interactive accents
	ColorSlate       = lipgloss.Color("#5D6D7E") // slate - muted text, borders

	// Semantic colors
	ColorGood     = lipgloss.Color("#2ECC71") // green for on-target
	ColorMinor    = lipgloss.Color("#A9DFBF") // pale green for minor drift
	ColorModerate = lipgloss.Color("#F4D03F") // gold for moderate drift
	ColorMajor    = lipgloss.Color("#E67E22") // amber for significant drift
	ColorCritical = lipgloss.Color("#E74C3C") // red for critical drift
	ColorSuccess  = lipgloss.Color("#2ECC71")
	ColorWarning  = lipgloss.Color("#F4D03F")
	ColorError    = lipgloss.Color("#E74C3C")
)

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style

	Box        lipgloss.Style
	WarningBox lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorAmberBright),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorAmber),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorSlate),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorAmberBright).Bold(true),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorAmber).
		Padding(0, 1),
	WarningBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorWarning).
		Padding(0, 1),
}

// severityStyles maps severity names to their display style.
var severityStyles = map[string]lipgloss.Style{
	"good":        lipgloss.NewStyle().Foreground(ColorGood),
	"minor":       lipgloss.NewStyle().Foreground(ColorMinor),
	"moderate":    lipgloss.NewStyle().Foreground(ColorModerate),
	"significant": lipgloss.NewStyle().Foreground(ColorMajor).Bold(true),
	"critical":    lipgloss.NewStyle().Foreground(ColorCritical).Bold(true),
}

// SeverityStyle returns the style for a severity name. Unknown names
// get the muted style.
func SeverityStyle(severity string) lipgloss.Style {
	if s, ok := severityStyles[severity]; ok {
		return s
	}
	return Styles.Muted
}

// plain is true when styled output is disabled.
var plain atomic.Bool

func init() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		plain.Store(true)
	}
	if os.Getenv("NO_COLOR") != "" {
		plain.Store(true)
	}
}

// SetPlain forces plain (unstyled, machine-friendly) output on or off.
// Overrides the TTY auto-detection.
func SetPlain(v bool) {
	plain.Store(v)
}

// Plain reports whether plain output is active.
func Plain() bool {
	return plain.Load()
}
