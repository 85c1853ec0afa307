// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mockhire/mockhire/pkg/ux"
)

// serviceURL is the base URL of the interview service, shared by every
// subcommand.
var serviceURL string

// plainOutput disables styled output for scripting.
var plainOutput bool

var rootCmd = &cobra.Command{
	Use:   "mockhire",
	Short: "Operator CLI for the MockHire interview service",
	Long: `mockhire drives the interview service API from the command line.

Use it to manage job policies, inspect sessions, and check service health:

  mockhire health
  mockhire policy publish <policy-id>
  mockhire sessions list <job-id> --status COMPLETED`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if plainOutput {
			ux.SetPlain(true)
		}
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func init() {
	defaultURL := os.Getenv("MOCKHIRE_SERVICE_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8085"
	}
	rootCmd.PersistentFlags().StringVar(&serviceURL, "service-url", defaultURL,
		"Base URL of the interview service")
	rootCmd.PersistentFlags().BoolVar(&plainOutput, "plain", false,
		"Disable styled output")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(policyCmd)
	rootCmd.AddCommand(sessionsCmd)
}
