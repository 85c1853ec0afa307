// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes holds the value objects shared across the interview
// service: job policies, session records, question-bank entries, and the
// admin query DTOs.
//
// Everything in this package is plain data. Behavior (lifecycle rules,
// state transitions, fallback decisions) lives in the component packages
// that own each aggregate.
package datatypes

import (
	"encoding/json"
	"time"
)

// SessionStatus represents a state in the session lifecycle state machine.
//
// Valid transitions are enforced by the engine's state machine. Invalid
// transitions are rejected with ErrPolicyViolation.
type SessionStatus string

const (
	// StatusApplied is the initial state after StartSession.
	StatusApplied SessionStatus = "APPLIED"

	// StatusInProgress means the interview is live and questions are
	// being served.
	StatusInProgress SessionStatus = "IN_PROGRESS"

	// StatusCompleted means the question-complete condition was met.
	StatusCompleted SessionStatus = "COMPLETED"

	// StatusInterrupted means the session was aborted mid-flight.
	// Terminal for Actual mode, resumable for Practice mode.
	StatusInterrupted SessionStatus = "INTERRUPTED"

	// StatusEvaluated is the final state after evaluation. Always
	// terminal.
	StatusEvaluated SessionStatus = "EVALUATED"
)

// String returns the string representation of the status.
func (s SessionStatus) String() string {
	return string(s)
}

// AllSessionStatuses returns every valid session status.
func AllSessionStatuses() []SessionStatus {
	return []SessionStatus{
		StatusApplied,
		StatusInProgress,
		StatusCompleted,
		StatusInterrupted,
		StatusEvaluated,
	}
}

// QuestionSource tells where a session question came from.
type QuestionSource string

const (
	// SourceGenerated means the generation provider produced the question.
	SourceGenerated QuestionSource = "GENERATED"

	// SourceStatic means the question came from the question bank or the
	// built-in safe set.
	SourceStatic QuestionSource = "STATIC"
)

// Question origin labels recorded in QuestionOrigin.Origin.
const (
	OriginGenerator = "generator"
	OriginBank      = "bank"
	OriginBuiltin   = "builtin"
)

// ResolutionTrigger identifies which of the three triggers resolved a
// question. Exactly one trigger resolves any given question index.
type ResolutionTrigger string

const (
	// TriggerAnswer is an explicit answer-submitted signal.
	TriggerAnswer ResolutionTrigger = "answer"

	// TriggerTimeLimit is per-question time-limit expiry.
	TriggerTimeLimit ResolutionTrigger = "time_limit"

	// TriggerSilence is silence-timeout expiry.
	TriggerSilence ResolutionTrigger = "silence_timeout"
)

// QuestionOrigin carries minimal provenance for a question: identifiers
// and hashes only, never a context dump. For generated questions it names
// the model and policy version; for static questions it names the bank
// entry (by id, with no live reference).
type QuestionOrigin struct {
	// Origin is "generator", "bank", or "builtin".
	Origin string `json:"origin"`

	// ModelID is the generation model, for generated questions.
	ModelID string `json:"model_id,omitempty"`

	// PolicyVersion is the frozen policy version the generation context
	// was built from.
	PolicyVersion string `json:"policy_version,omitempty"`

	// ReferenceHash fingerprints the generation context.
	ReferenceHash string `json:"reference_hash,omitempty"`

	// BankEntryID is the question-bank entry id, for bank questions.
	// Audit only: the text below is a copy, not a reference.
	BankEntryID string `json:"bank_entry_id,omitempty"`

	// CreatedAt is when the question was produced.
	CreatedAt time.Time `json:"created_at"`
}

// SessionQuestion is a self-contained value object appended to a session.
// Once appended it is immutable apart from resolution bookkeeping, and it
// carries no reference back to the question bank: it stays fully
// interpretable even if the bank entry is later soft-deleted.
type SessionQuestion struct {
	// Index is the 0-based position in the session.
	Index int `json:"index"`

	// Text is the full question text, copied by value.
	Text string `json:"text"`

	// Source is GENERATED or STATIC.
	Source QuestionSource `json:"source"`

	// Origin is the provenance metadata.
	Origin QuestionOrigin `json:"origin"`

	// Answer is the candidate's answer, if any was registered.
	Answer string `json:"answer,omitempty"`

	// IsNoAnswer is true when the question resolved with no speech or
	// text registered at all. Flagged for evaluation penalty.
	IsNoAnswer bool `json:"is_no_answer"`

	// Resolved is true once exactly one trigger has resolved this index.
	Resolved bool `json:"resolved"`

	// ResolvedBy is the trigger that won.
	ResolvedBy ResolutionTrigger `json:"resolved_by,omitempty"`

	// AskedAt is when the question was served.
	AskedAt time.Time `json:"asked_at"`

	// ResolvedAt is when the question was resolved.
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// Outcome is the pass/fail verdict of an evaluation.
type Outcome string

const (
	// OutcomePass means the candidate passed.
	OutcomePass Outcome = "PASS"

	// OutcomeFail means the candidate failed.
	OutcomeFail Outcome = "FAIL"

	// OutcomePending is reported for sessions not yet evaluated. It is
	// never stored; it only appears in query DTOs.
	OutcomePending Outcome = "PENDING"
)

// EvaluationResult is the opaque product of the evaluation collaborator.
// The engine stores it verbatim; only Outcome is interpreted (for admin
// filtering).
type EvaluationResult struct {
	// Outcome is PASS or FAIL.
	Outcome Outcome `json:"outcome"`

	// Summary is a short human-readable verdict.
	Summary string `json:"summary,omitempty"`

	// Payload is the evaluator's full output, uninterpreted.
	Payload json.RawMessage `json:"payload,omitempty"`

	// EvaluatedAt is when the evaluation completed.
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// SessionRecord is the persistent state of one interview session. It is
// mutated exclusively by the engine while the per-session lock is held,
// and archived once it reaches EVALUATED.
type SessionRecord struct {
	// ID is the unique session identifier.
	ID string `json:"id"`

	// JobID is the job posting this session applied to.
	JobID string `json:"job_id"`

	// CandidateRef identifies the candidate (account id or email).
	CandidateRef string `json:"candidate_ref"`

	// Status is the lifecycle state.
	Status SessionStatus `json:"status"`

	// Config is the instance-locked policy copy. Immutable for the
	// session's entire lifetime.
	Config SessionConfig `json:"config"`

	// Questions is the ordered, append-only question log.
	Questions []SessionQuestion `json:"questions"`

	// CurrentIndex is the index of the question being asked, or the
	// next one to ask after a resume.
	CurrentIndex int `json:"current_index"`

	// Interrupted is set when the session has ever been interrupted.
	Interrupted bool `json:"interrupted"`

	// InterruptReason records why, for audit.
	InterruptReason string `json:"interrupt_reason,omitempty"`

	// EarlyExitRecommended is set when the evaluation collaborator has
	// recommended ending the session early. Honored only at or above the
	// minimum question count.
	EarlyExitRecommended bool `json:"early_exit_recommended"`

	// Evaluation is the final result, once EVALUATED.
	Evaluation *EvaluationResult `json:"evaluation,omitempty"`

	// StartedAt is when Begin succeeded. Nil while APPLIED.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// EndedAt is when the session reached COMPLETED or INTERRUPTED.
	EndedAt *time.Time `json:"ended_at,omitempty"`

	// CreatedAt is when StartSession created the record.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is bumped on every persisted mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the record. The engine mutates clones and
// persists them whole, so a failed command never leaves a partial write
// behind.
func (r *SessionRecord) Clone() *SessionRecord {
	cp := *r
	cp.Config = r.Config.Clone()
	cp.Questions = make([]SessionQuestion, len(r.Questions))
	copy(cp.Questions, r.Questions)
	for i := range cp.Questions {
		if r.Questions[i].ResolvedAt != nil {
			t := *r.Questions[i].ResolvedAt
			cp.Questions[i].ResolvedAt = &t
		}
	}
	if r.Evaluation != nil {
		ev := *r.Evaluation
		ev.Payload = append(json.RawMessage(nil), r.Evaluation.Payload...)
		cp.Evaluation = &ev
	}
	if r.StartedAt != nil {
		t := *r.StartedAt
		cp.StartedAt = &t
	}
	if r.EndedAt != nil {
		t := *r.EndedAt
		cp.EndedAt = &t
	}
	return &cp
}

// CurrentQuestion returns the question at CurrentIndex, or nil when no
// question is in flight.
func (r *SessionRecord) CurrentQuestion() *SessionQuestion {
	if r.CurrentIndex < 0 || r.CurrentIndex >= len(r.Questions) {
		return nil
	}
	return &r.Questions[r.CurrentIndex]
}

// AnsweredCount returns how many questions resolved with answer content.
func (r *SessionRecord) AnsweredCount() int {
	n := 0
	for i := range r.Questions {
		if r.Questions[i].Resolved && !r.Questions[i].IsNoAnswer {
			n++
		}
	}
	return n
}

// ResolvedCount returns how many questions have resolved. Both silence
// cases count toward the minimum-question floor.
func (r *SessionRecord) ResolvedCount() int {
	n := 0
	for i := range r.Questions {
		if r.Questions[i].Resolved {
			n++
		}
	}
	return n
}
