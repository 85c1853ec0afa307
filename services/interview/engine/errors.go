// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import "errors"

// Sentinel errors for the engine package.
var (
	// ErrNotFound indicates an unknown session or job id. Surfaced
	// directly to the caller; no retry implied.
	ErrNotFound = errors.New("session or job not found")

	// ErrPolicyViolation indicates an invalid state transition, a
	// premature early exit, or a mode rule violation. Rejected
	// synchronously with zero side effects; the caller must correct the
	// request, not retry blindly.
	ErrPolicyViolation = errors.New("policy violation")

	// ErrInvalidMode indicates an unrecognized interview mode.
	ErrInvalidMode = errors.New("invalid interview mode")

	// ErrInvalidCandidate indicates a malformed candidate reference.
	ErrInvalidCandidate = errors.New("invalid candidate reference")

	// ErrInvalidOutcome indicates an evaluation result without a PASS or
	// FAIL outcome.
	ErrInvalidOutcome = errors.New("evaluation outcome must be PASS or FAIL")
)
