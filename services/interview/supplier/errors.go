// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package supplier

import "errors"

// Generation failure classes. Every provider error is mapped onto exactly
// one of these; all of them are recovered locally by the fallback chain
// and never surface past the engine except as warning-level logs.
var (
	// ErrTimeout indicates the provider exceeded its bounded call window.
	ErrTimeout = errors.New("generation timed out")

	// ErrSchemaInvalid indicates the provider's output failed schema
	// validation.
	ErrSchemaInvalid = errors.New("generation output failed schema validation")

	// ErrSafetyViolation indicates the provider refused or filtered the
	// request on safety grounds.
	ErrSafetyViolation = errors.New("generation output violated safety policy")

	// ErrUnavailable indicates the provider could not be reached or is
	// overloaded.
	ErrUnavailable = errors.New("generation provider unavailable")

	// ErrNoCandidates indicates a strategy had nothing to offer for this
	// request. A plain signal, not a policy judgment.
	ErrNoCandidates = errors.New("no question candidates available")
)

// IsGenerationFailure reports whether err is one of the typed generation
// failure classes.
func IsGenerationFailure(err error) bool {
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrSchemaInvalid) ||
		errors.Is(err, ErrSafetyViolation) ||
		errors.Is(err, ErrUnavailable)
}
