// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation for user-supplied
// identifiers. Candidate references and search terms end up in storage
// keys and query filters, so they are validated before use.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// candidate references are either an email address or a display name.
// The pattern rejects control characters and key-delimiter bytes that
// would corrupt storage keys.
var candidateRefPattern = regexp.MustCompile(`^[^\x00-\x1f:]{1,254}$`)

// emailPattern is a deliberately loose email shape check: one @ with
// non-empty local part and a dotted domain. Deliverability is not this
// package's problem.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateCandidateRef checks a candidate reference before it is stored.
//
// Valid references:
//   - 1-254 characters after trimming
//   - no control characters
//   - no ":" (reserved as the storage key delimiter)
func ValidateCandidateRef(ref string) error {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return fmt.Errorf("candidate reference cannot be empty")
	}
	if !candidateRefPattern.MatchString(trimmed) {
		return fmt.Errorf("invalid candidate reference %q (1-254 chars, no control characters or ':')", ref)
	}
	return nil
}

// IsEmailShaped reports whether a candidate reference looks like an
// email address.
func IsEmailShaped(s string) bool {
	return emailPattern.MatchString(s)
}

// NormalizeSearchTerm trims and lowercases a search term for
// case-insensitive matching.
func NormalizeSearchTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// MatchesCandidate applies the two-mode candidate search. Terms
// containing an "@" carry email intent and must match the reference
// exactly, so a partial email never matches; anything else is a
// substring match against the name. Both modes are case-insensitive.
func MatchesCandidate(ref, term string) bool {
	ref = NormalizeSearchTerm(ref)
	term = NormalizeSearchTerm(term)
	if strings.Contains(term, "@") {
		return ref == term
	}
	return strings.Contains(ref, term)
}
