// Copyright (C) 2025 rankinbc
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"log"
	"os"

	"github.com/rankinbc/mixcoach/pkg/logging"
	"github.com/rankinbc/mixcoach/pkg/ux"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	config Config
	logger *logging.Logger
)

func main() {
	// Execute the root command. Cobra handles parsing the arguments.
	if err := rootCmd.Execute(); err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}
	if logger != nil {
		_ = logger.Close()
	}
}

func init() {
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		configPath := "config.yaml"
		if yamlFile, err := os.ReadFile(configPath); err == nil {
			if err := yaml.Unmarshal(yamlFile, &config); err != nil {
				log.Fatalf("Error parsing config.yaml: %v", err)
			}
		}
		config.applyDefaults()

		// Flags override the config file
		if sessionPath != "" {
			config.SessionPath = sessionPath
		}
		if profilePath != "" {
			config.ProfilePath = profilePath
		}
		if snapshotPath != "" {
			config.SnapshotPath = snapshotPath
		}
		if plainOutput {
			config.Plain = true
		}
		if config.Plain {
			ux.SetPlain(true)
		}

		logger = logging.New(logging.Config{
			Level:   logging.ParseLevel(config.LogLevel),
			LogDir:  config.LogDir,
			Service: "mixcoach",
		})
	}
}
