// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"fmt"
	"os"
	"strings"
)

// Icon provides themed status glyphs.
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
	IconNote    Icon = "♪"
)

// Render returns the icon with its semantic styling.
func (i Icon) Render() string {
	if Plain() {
		return string(i)
	}
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	default:
		return string(i)
	}
}

// Title prints a styled section title.
func Title(text string) {
	if Plain() {
		fmt.Println(text)
		return
	}
	fmt.Println(Styles.Title.Render(text))
}

// Success prints a success message with a checkmark.
func Success(text string) {
	if Plain() {
		fmt.Fprintf(os.Stdout, "OK: %s\n", text)
		return
	}
	fmt.Printf("%s %s\n", IconSuccess.Render(), Styles.Success.Render(text))
}

// Warning prints a warning message.
func Warning(text string) {
	if Plain() {
		fmt.Fprintf(os.Stderr, "WARN: %s\n", text)
		return
	}
	fmt.Printf("%s %s\n", IconWarning.Render(), Styles.Warning.Render(text))
}

// Error prints an error message.
func Error(text string) {
	if Plain() {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", text)
		return
	}
	fmt.Printf("%s %s\n", IconError.Render(), Styles.Error.Render(text))
}

// Info prints an informational line.
func Info(text string) {
	if Plain() {
		fmt.Println(text)
		return
	}
	fmt.Printf("%s %s\n", Styles.Muted.Render("│"), text)
}

// Muted prints secondary text.
func Muted(text string) {
	if Plain() {
		fmt.Println(text)
		return
	}
	fmt.Println(Styles.Muted.Render(text))
}

// Box prints titled content in a rounded box.
func Box(title, content string) {
	if Plain() {
		fmt.Printf("%s: %s\n", title, content)
		return
	}
	boxStyle := Styles.Box.Width(60)
	titleLine := Styles.Title.Render(title)
	fmt.Println(boxStyle.Render(titleLine + "\n" + content))
}

// KeyValue prints an aligned key: value line.
func KeyValue(key, value string) {
	if Plain() {
		fmt.Printf("%s\t%s\n", key, value)
		return
	}
	fmt.Printf("  %s %s\n", Styles.Muted.Render(key+":"), value)
}

// SeverityLine prints a gap report row: a severity tag, the feature,
// and supporting detail.
func SeverityLine(severity, feature, detail string) {
	if Plain() {
		fmt.Printf("%s\t%s\t%s\n", strings.ToUpper(severity), feature, detail)
		return
	}
	tag := SeverityStyle(severity).Render(fmt.Sprintf("%-11s", severity))
	fmt.Printf("  %s %s  %s\n", tag, Styles.Bold.Render(feature), Styles.Muted.Render(detail))
}

// SeveritySummary prints per-bucket gap counts on one line.
func SeveritySummary(counts map[string]int) {
	order := []string{"critical", "significant", "moderate", "minor", "good"}
	if Plain() {
		parts := make([]string, 0, len(order))
		for _, severity := range order {
			parts = append(parts, fmt.Sprintf("%s=%d", severity, counts[severity]))
		}
		fmt.Printf("SUMMARY: %s\n", strings.Join(parts, " "))
		return
	}
	parts := make([]string, 0, len(order))
	for _, severity := range order {
		if counts[severity] == 0 {
			continue
		}
		parts = append(parts,
			SeverityStyle(severity).Render(fmt.Sprintf("%d %s", counts[severity], severity)))
	}
	if len(parts) == 0 {
		fmt.Println(Styles.Muted.Render("  no gaps"))
		return
	}
	fmt.Printf("\n  %s\n", strings.Join(parts, Styles.Muted.Render("  ")))
}
