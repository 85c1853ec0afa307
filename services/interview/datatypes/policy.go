// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import "time"

// PolicyStatus represents the lifecycle state of a job policy.
//
// Status only ever advances Draft -> Published -> Closed. There is no
// backward transition.
type PolicyStatus string

const (
	// PolicyDraft is the initial state. All fields are editable.
	PolicyDraft PolicyStatus = "DRAFT"

	// PolicyPublished means the AI-sensitive fields are frozen and
	// sessions may be started against this policy.
	PolicyPublished PolicyStatus = "PUBLISHED"

	// PolicyClosed means no further sessions may be started.
	PolicyClosed PolicyStatus = "CLOSED"
)

// String returns the string representation of the status.
func (s PolicyStatus) String() string {
	return string(s)
}

// InterviewMode distinguishes a real interview from a practice run.
type InterviewMode string

const (
	// ModeActual is a real interview. Interruption is terminal.
	ModeActual InterviewMode = "ACTUAL"

	// ModePractice is a rehearsal. Interrupted sessions may resume.
	ModePractice InterviewMode = "PRACTICE"
)

// ValidInterviewModes contains the accepted interview mode values.
var ValidInterviewModes = []InterviewMode{ModeActual, ModePractice}

// InterruptedEvaluationPolicy decides how an interrupted Actual-mode
// session is treated at evaluation time. The original design left this
// undecided, so it is a per-policy setting rather than engine behavior.
type InterruptedEvaluationPolicy string

const (
	// EvaluatePartial evaluates an interrupted session on whatever
	// answers were collected before the interruption.
	EvaluatePartial InterruptedEvaluationPolicy = "PARTIAL"

	// EvaluateExclude rejects evaluation of interrupted sessions.
	EvaluateExclude InterruptedEvaluationPolicy = "EXCLUDE"
)

// WeightRange bounds an evaluation weight for one scoring dimension.
type WeightRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// JobPolicy is the interview configuration template attached to a job
// posting.
//
// Fields are partitioned into two groups. The AI-sensitive group (question
// counts, timers, weights, model selection, required questions, result
// exposure, interrupted-evaluation handling, tags) freezes permanently the
// moment the policy is published. The remaining fields stay editable until
// the policy is closed.
//
// Thread Safety:
//
//	JobPolicy is a plain value object. Synchronization is the
//	responsibility of the owning PolicyStore.
type JobPolicy struct {
	// ID is the unique policy identifier (also the job posting id).
	ID string `json:"id"`

	// Status is the lifecycle state.
	Status PolicyStatus `json:"status"`

	// MinQuestions is the minimum number of questions before any early
	// exit is honored. Frozen at publish.
	MinQuestions int `json:"min_questions"`

	// MaxQuestions caps the session length. Frozen at publish.
	MaxQuestions int `json:"max_questions"`

	// QuestionTimeLimit is the per-question answering window. Frozen at
	// publish.
	QuestionTimeLimit time.Duration `json:"question_time_limit"`

	// SilenceTimeout is how long the engine waits through candidate
	// silence before auto-advancing. Frozen at publish.
	SilenceTimeout time.Duration `json:"silence_timeout"`

	// EvaluationWeights bounds the scoring weights per dimension
	// (e.g. "communication", "technical"). Frozen at publish.
	EvaluationWeights map[string]WeightRange `json:"evaluation_weights,omitempty"`

	// RequiredQuestionIDs lists bank entries that must be asked.
	// Frozen at publish.
	RequiredQuestionIDs []string `json:"required_question_ids,omitempty"`

	// ModelID selects the generation model. Frozen at publish.
	ModelID string `json:"model_id"`

	// Tags steer question-bank candidate selection. Frozen at publish.
	Tags []string `json:"tags,omitempty"`

	// ResultExposure is how long after session end the candidate may view
	// results. Frozen at publish.
	ResultExposure time.Duration `json:"result_exposure"`

	// InterruptedEvaluation decides evaluation of interrupted Actual-mode
	// sessions. Frozen at publish.
	InterruptedEvaluation InterruptedEvaluationPolicy `json:"interrupted_evaluation"`

	// Deadline is the application deadline. Editable until Closed.
	Deadline time.Time `json:"deadline,omitzero"`

	// Description is free text shown to applicants. Editable until Closed.
	Description string `json:"description,omitempty"`

	// Version identifies the frozen field set. Assigned at publish.
	Version string `json:"version,omitempty"`

	// CreatedAt is when the draft was created.
	CreatedAt time.Time `json:"created_at"`

	// PublishedAt is when the policy was published, if ever.
	PublishedAt *time.Time `json:"published_at,omitempty"`

	// ClosedAt is when the policy was closed, if ever.
	ClosedAt *time.Time `json:"closed_at,omitempty"`
}

// Clone returns a deep copy of the policy with no shared references.
func (p *JobPolicy) Clone() *JobPolicy {
	cp := *p
	cp.EvaluationWeights = cloneWeights(p.EvaluationWeights)
	cp.RequiredQuestionIDs = cloneStrings(p.RequiredQuestionIDs)
	cp.Tags = cloneStrings(p.Tags)
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		cp.PublishedAt = &t
	}
	if p.ClosedAt != nil {
		t := *p.ClosedAt
		cp.ClosedAt = &t
	}
	return &cp
}

// JobPolicySnapshot is a value-copied capture of a policy's frozen fields,
// taken once at publish. Many sessions derive their config from one
// snapshot; none may mutate it.
type JobPolicySnapshot struct {
	// PolicyID is the originating policy id.
	PolicyID string `json:"policy_id"`

	// PolicyVersion identifies the frozen field set.
	PolicyVersion string `json:"policy_version"`

	// TakenAt is when the snapshot was captured.
	TakenAt time.Time `json:"taken_at"`

	MinQuestions          int                         `json:"min_questions"`
	MaxQuestions          int                         `json:"max_questions"`
	QuestionTimeLimit     time.Duration               `json:"question_time_limit"`
	SilenceTimeout        time.Duration               `json:"silence_timeout"`
	EvaluationWeights     map[string]WeightRange      `json:"evaluation_weights,omitempty"`
	RequiredQuestionIDs   []string                    `json:"required_question_ids,omitempty"`
	ModelID               string                      `json:"model_id"`
	Tags                  []string                    `json:"tags,omitempty"`
	ResultExposure        time.Duration               `json:"result_exposure"`
	InterruptedEvaluation InterruptedEvaluationPolicy `json:"interrupted_evaluation"`
}

// Clone returns a deep copy of the snapshot with no shared references.
func (s *JobPolicySnapshot) Clone() *JobPolicySnapshot {
	cp := *s
	cp.EvaluationWeights = cloneWeights(s.EvaluationWeights)
	cp.RequiredQuestionIDs = cloneStrings(s.RequiredQuestionIDs)
	cp.Tags = cloneStrings(s.Tags)
	return &cp
}

// SessionConfig is the per-session deep copy of a policy snapshot, created
// once at session start and never mutated afterward. A session holds no
// live reference back to the JobPolicy or its snapshot, so later edits or
// even deletion of the posting cannot reach an in-flight or archived
// session.
type SessionConfig struct {
	// PolicyID is the originating policy id, kept for audit only.
	PolicyID string `json:"policy_id"`

	// PolicyVersion identifies which frozen field set this config copied.
	PolicyVersion string `json:"policy_version"`

	// Mode is the interview mode chosen at session start.
	Mode InterviewMode `json:"mode"`

	MinQuestions          int                         `json:"min_questions"`
	MaxQuestions          int                         `json:"max_questions"`
	QuestionTimeLimit     time.Duration               `json:"question_time_limit"`
	SilenceTimeout        time.Duration               `json:"silence_timeout"`
	EvaluationWeights     map[string]WeightRange      `json:"evaluation_weights,omitempty"`
	RequiredQuestionIDs   []string                    `json:"required_question_ids,omitempty"`
	ModelID               string                      `json:"model_id"`
	Tags                  []string                    `json:"tags,omitempty"`
	ResultExposure        time.Duration               `json:"result_exposure"`
	InterruptedEvaluation InterruptedEvaluationPolicy `json:"interrupted_evaluation"`
}

// SessionConfigFrom builds a fresh SessionConfig by value-copying the
// snapshot. Every reference-typed field is cloned so the config shares no
// memory with the snapshot.
func SessionConfigFrom(snap *JobPolicySnapshot, mode InterviewMode) SessionConfig {
	return SessionConfig{
		PolicyID:              snap.PolicyID,
		PolicyVersion:         snap.PolicyVersion,
		Mode:                  mode,
		MinQuestions:          snap.MinQuestions,
		MaxQuestions:          snap.MaxQuestions,
		QuestionTimeLimit:     snap.QuestionTimeLimit,
		SilenceTimeout:        snap.SilenceTimeout,
		EvaluationWeights:     cloneWeights(snap.EvaluationWeights),
		RequiredQuestionIDs:   cloneStrings(snap.RequiredQuestionIDs),
		ModelID:               snap.ModelID,
		Tags:                  cloneStrings(snap.Tags),
		ResultExposure:        snap.ResultExposure,
		InterruptedEvaluation: snap.InterruptedEvaluation,
	}
}

// Clone returns a deep copy of the config.
func (c SessionConfig) Clone() SessionConfig {
	cp := c
	cp.EvaluationWeights = cloneWeights(c.EvaluationWeights)
	cp.RequiredQuestionIDs = cloneStrings(c.RequiredQuestionIDs)
	cp.Tags = cloneStrings(c.Tags)
	return cp
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneWeights(in map[string]WeightRange) map[string]WeightRange {
	if in == nil {
		return nil
	}
	out := make(map[string]WeightRange, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
