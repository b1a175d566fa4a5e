// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"os"
	"path/filepath"
)

// Config is the CLI configuration loaded from config.yaml.
type Config struct {
	// SessionPath is where the session file lives.
	SessionPath string `yaml:"session_path"`

	// ProfilePath is the default reference profile for analyze.
	ProfilePath string `yaml:"profile_path"`

	// SnapshotPath is the default snapshot file for resolve.
	SnapshotPath string `yaml:"snapshot_path"`

	// LogLevel is debug, info, warn, or error.
	LogLevel string `yaml:"log_level"`

	// LogDir enables file logging when set.
	LogDir string `yaml:"log_dir"`

	// Plain forces unstyled machine-friendly output.
	Plain bool `yaml:"plain"`
}

// applyDefaults fills unset fields with their defaults.
func (c *Config) applyDefaults() {
	if c.SessionPath == "" {
		c.SessionPath = "~/.mixcoach/session.json"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
