// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mockhire/mockhire/pkg/ux"
)

var policyJSONOutput bool

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Manage job interview policies",
}

// policyShowCmd prints a policy, draft or published.
var policyShowCmd = &cobra.Command{
	Use:   "show <policy-id>",
	Short: "Show a job policy",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var p map[string]any
		if err := callService("GET", "/v1/policies/"+args[0], nil, &p); err != nil {
			ux.Error(err.Error())
			os.Exit(1)
		}
		printPolicy(p)
	},
}

// policyPublishCmd freezes the AI-sensitive fields and opens the job to
// candidates.
var policyPublishCmd = &cobra.Command{
	Use:   "publish <policy-id>",
	Short: "Publish a draft policy, freezing its interview parameters",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var p map[string]any
		if err := callService("POST", "/v1/policies/"+args[0]+"/publish", nil, &p); err != nil {
			ux.Error(err.Error())
			os.Exit(1)
		}
		ux.Success(fmt.Sprintf("Published policy %s (version %v)", args[0], p["version"]))
	},
}

var policyCloseCmd = &cobra.Command{
	Use:   "close <policy-id>",
	Short: "Close a published policy to new sessions",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := callService("POST", "/v1/policies/"+args[0]+"/close", nil, nil); err != nil {
			ux.Error(err.Error())
			os.Exit(1)
		}
		ux.Success(fmt.Sprintf("Closed policy %s", args[0]))
	},
}

func printPolicy(p map[string]any) {
	if policyJSONOutput {
		data, _ := json.MarshalIndent(p, "", "  ")
		fmt.Println(string(data))
		return
	}
	ux.Title(fmt.Sprintf("Policy %v", p["id"]))
	fmt.Printf("  Status:        %v\n", p["status"])
	if v, ok := p["version"]; ok && v != "" {
		fmt.Printf("  Version:       %v\n", v)
	}
	fmt.Printf("  Questions:     %v-%v\n", p["min_questions"], p["max_questions"])
	fmt.Printf("  Model:         %v\n", p["model_id"])
	fmt.Printf("  Deadline:      %v\n", p["deadline"])
}

func init() {
	policyShowCmd.Flags().BoolVar(&policyJSONOutput, "json", false,
		"Output as JSON for scripting")

	policyCmd.AddCommand(policyShowCmd)
	policyCmd.AddCommand(policyPublishCmd)
	policyCmd.AddCommand(policyCloseCmd)
}
