// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import "time"

// SessionFilters narrows an admin session listing. The zero value matches
// every session for the job.
type SessionFilters struct {
	// Statuses restricts results to the given status set. Empty means
	// all statuses.
	Statuses []SessionStatus `json:"statuses,omitempty"`

	// IsInterrupted is an alias filter that unions INTERRUPTED into the
	// status set. It never conflicts with an explicit status filter.
	IsInterrupted bool `json:"is_interrupted,omitempty"`

	// From and To bound StartedAt. Sessions without a StartedAt (still
	// APPLIED) are excluded whenever either bound is present.
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`

	// Result filters by evaluation outcome. Meaningful only for
	// EVALUATED sessions; all others report PENDING.
	Result Outcome `json:"result,omitempty"`

	// Search is free text: exact match on email-shaped tokens, partial
	// match on names. Must be at least 2 characters when present.
	Search string `json:"search,omitempty"`
}

// SessionSummary is the read-model DTO returned by the admin query
// service. It is decoupled from SessionRecord: internal state never
// crosses the query boundary.
type SessionSummary struct {
	SessionID     string        `json:"session_id"`
	JobID         string        `json:"job_id"`
	CandidateRef  string        `json:"candidate_ref"`
	Status        SessionStatus `json:"status"`
	Mode          InterviewMode `json:"mode"`
	QuestionCount int           `json:"question_count"`
	AnsweredCount int           `json:"answered_count"`
	NoAnswerCount int           `json:"no_answer_count"`
	Interrupted   bool          `json:"interrupted"`
	Result        Outcome       `json:"result"`
	StartedAt     *time.Time    `json:"started_at,omitempty"`
	EndedAt       *time.Time    `json:"ended_at,omitempty"`
}
