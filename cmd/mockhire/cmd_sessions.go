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
	"net/url"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mockhire/mockhire/pkg/ux"
)

var (
	sessionsStatus      string
	sessionsInterrupted bool
	sessionsResult      string
	sessionsSearch      string
	sessionsJSONOutput  bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect interview sessions",
}

// sessionsListCmd lists a job's sessions with the dashboard filters.
//
// # Examples
//
//	mockhire sessions list job-42
//	mockhire sessions list job-42 --status COMPLETED,EVALUATED
//	mockhire sessions list job-42 --interrupted
//	mockhire sessions list job-42 --search dana@example.com
var sessionsListCmd = &cobra.Command{
	Use:   "list <job-id>",
	Short: "List sessions for a job",
	Args:  cobra.ExactArgs(1),
	Run:   runSessionsList,
}

func runSessionsList(cmd *cobra.Command, args []string) {
	q := url.Values{}
	if sessionsStatus != "" {
		q.Set("status", sessionsStatus)
	}
	if sessionsInterrupted {
		q.Set("interrupted", "true")
	}
	if sessionsResult != "" {
		q.Set("result", sessionsResult)
	}
	if sessionsSearch != "" {
		q.Set("search", sessionsSearch)
	}

	path := "/v1/jobs/" + args[0] + "/sessions"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp struct {
		Sessions []struct {
			SessionID    string `json:"session_id"`
			CandidateRef string `json:"candidate_ref"`
			Status       string `json:"status"`
			Mode         string `json:"mode"`
			Questions    int    `json:"question_count"`
			Answered     int    `json:"answered_count"`
			Interrupted  bool   `json:"interrupted"`
			Result       string `json:"result"`
		} `json:"sessions"`
		Count int `json:"count"`
	}
	if err := callService("GET", path, nil, &resp); err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}

	if sessionsJSONOutput {
		data, _ := json.MarshalIndent(resp.Sessions, "", "  ")
		fmt.Println(string(data))
		return
	}

	if resp.Count == 0 {
		ux.Muted("No sessions matched.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tCANDIDATE\tSTATUS\tMODE\tQ\tANSWERED\tRESULT")
	for _, s := range resp.Sessions {
		status := ux.SessionStatus(s.Status)
		if s.Interrupted && s.Status != "INTERRUPTED" {
			status += "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\n",
			s.SessionID, s.CandidateRef, status, s.Mode, s.Questions, s.Answered, ux.Result(s.Result))
	}
	w.Flush()
	fmt.Printf("\n%d session(s)\n", resp.Count)
}

func init() {
	sessionsListCmd.Flags().StringVar(&sessionsStatus, "status", "",
		"Comma-separated status filter (APPLIED,IN_PROGRESS,COMPLETED,INTERRUPTED,EVALUATED)")
	sessionsListCmd.Flags().BoolVar(&sessionsInterrupted, "interrupted", false,
		"Only interrupted sessions")
	sessionsListCmd.Flags().StringVar(&sessionsResult, "result", "",
		"Evaluation result filter (PASS, FAIL, PENDING)")
	sessionsListCmd.Flags().StringVar(&sessionsSearch, "search", "",
		"Candidate search: exact for emails, partial for names")
	sessionsListCmd.Flags().BoolVar(&sessionsJSONOutput, "json", false,
		"Output as JSON for scripting")

	sessionsCmd.AddCommand(sessionsListCmd)
}
