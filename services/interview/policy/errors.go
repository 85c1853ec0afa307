// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package policy

import "errors"

// Sentinel errors for the policy package.
var (
	// ErrNotFound indicates the requested job policy does not exist.
	ErrNotFound = errors.New("job policy not found")

	// ErrValidation indicates a policy update or publish failed
	// validation. No partial write occurs.
	ErrValidation = errors.New("policy validation failed")

	// ErrFrozenField indicates an attempt to mutate an AI-sensitive field
	// after publish.
	ErrFrozenField = errors.New("policy field is frozen after publish")

	// ErrNotPublished indicates an operation that requires a published
	// policy (snapshots, session starts) hit a draft or closed one.
	ErrNotPublished = errors.New("job policy is not published")
)
