// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal output styling for the MockHire CLI.
package ux

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
)

// MockHire color palette - warm interview-room ambers and slate.
var (
	ColorAmber   = lipgloss.Color("#F5A623") // Primary brand color
	ColorGold    = lipgloss.Color("#D99000") // Secondary accents
	ColorSlate   = lipgloss.Color("#5C6B73") // Muted text, borders
	ColorSuccess = lipgloss.Color("#27AE60") // Green for pass/ok
	ColorWarning = lipgloss.Color("#F4D03F") // Amber for warnings
	ColorError   = lipgloss.Color("#E74C3C") // Red for fail/errors
)

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Title   lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(ColorAmber),
	Bold:    lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Foreground(ColorSlate),
	Success: lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning: lipgloss.NewStyle().Foreground(ColorWarning),
	Error:   lipgloss.NewStyle().Foreground(ColorError),
}

// plainMode disables styling for scripts and CI logs. Set via SetPlain
// or the NO_COLOR convention at init.
var plainMode atomic.Bool

func init() {
	if os.Getenv("NO_COLOR") != "" {
		plainMode.Store(true)
	}
}

// SetPlain toggles unstyled output.
func SetPlain(plain bool) {
	plainMode.Store(plain)
}

// Plain reports whether styling is disabled.
func Plain() bool {
	return plainMode.Load()
}

// Title prints a styled heading.
func Title(text string) {
	if Plain() {
		fmt.Println(text)
		return
	}
	fmt.Println(Styles.Title.Render(text))
}

// Success prints a success line with a checkmark.
func Success(text string) {
	if Plain() {
		fmt.Printf("OK: %s\n", text)
		return
	}
	fmt.Printf("%s %s\n", Styles.Success.Render("✓"), text)
}

// Warning prints a warning line.
func Warning(text string) {
	if Plain() {
		fmt.Fprintf(os.Stderr, "WARN: %s\n", text)
		return
	}
	fmt.Printf("%s %s\n", Styles.Warning.Render("⚠"), Styles.Warning.Render(text))
}

// Error prints an error line to stderr.
func Error(text string) {
	if Plain() {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", text)
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", Styles.Error.Render("✗"), Styles.Error.Render(text))
}

// Muted prints secondary text.
func Muted(text string) {
	if Plain() {
		fmt.Println(text)
		return
	}
	fmt.Println(Styles.Muted.Render(text))
}

// SessionStatus renders a session status with its lifecycle color:
// green for EVALUATED, amber for live states, red for INTERRUPTED.
func SessionStatus(status string) string {
	if Plain() {
		return status
	}
	switch status {
	case "EVALUATED":
		return Styles.Success.Render(status)
	case "INTERRUPTED":
		return Styles.Error.Render(status)
	case "IN_PROGRESS":
		return Styles.Warning.Render(status)
	default:
		return Styles.Muted.Render(status)
	}
}

// Result renders a PASS/FAIL/PENDING verdict with semantic color.
func Result(result string) string {
	if Plain() {
		return result
	}
	switch result {
	case "PASS":
		return Styles.Success.Render(result)
	case "FAIL":
		return Styles.Error.Render(result)
	default:
		return Styles.Muted.Render(result)
	}
}
