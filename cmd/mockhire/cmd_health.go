// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mockhire/mockhire/pkg/ux"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check whether the interview service is up",
	Run:   runHealthCommand,
}

func runHealthCommand(cmd *cobra.Command, args []string) {
	var status struct {
		Status  string `json:"status"`
		Service string `json:"service"`
	}
	if err := callService("GET", "/health", nil, &status); err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}
	ux.Success(fmt.Sprintf("%s service is %s (%s)", status.Service, status.Status, serviceURL))
}
