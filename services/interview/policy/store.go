// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package policy owns the job-policy lifecycle and the freeze-at-publish
// guarantee.
//
// A policy is created as a draft, edited freely, then published. Publish
// is irreversible: it validates and permanently freezes the AI-sensitive
// fields, captures the publish-time snapshot sessions will copy from, and
// flips the status to PUBLISHED. Closing a policy stops new sessions
// without touching existing ones.
//
// The state only advances DRAFT -> PUBLISHED -> CLOSED. Any update that
// would touch a frozen field after publish fails with ErrFrozenField and
// leaves the stored policy byte-for-byte unchanged.
package policy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mockhire/mockhire/services/interview/datatypes"
	"github.com/mockhire/mockhire/services/interview/store"
)

// Store manages job policies on top of a Repository.
//
// Thread Safety:
//
//	Store is safe for concurrent use. Lifecycle mutations are serialized
//	by an internal mutex; reads go straight to the repository.
type Store struct {
	mu     sync.Mutex
	repo   store.Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a policy store over the given repository.
func NewStore(repo store.Repository, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Draft carries the initial field values for a new policy. Everything is
// still editable until publish.
type Draft struct {
	MinQuestions          int
	MaxQuestions          int
	QuestionTimeLimit     time.Duration
	SilenceTimeout        time.Duration
	EvaluationWeights     map[string]datatypes.WeightRange
	RequiredQuestionIDs   []string
	ModelID               string
	Tags                  []string
	ResultExposure        time.Duration
	InterruptedEvaluation datatypes.InterruptedEvaluationPolicy
	Deadline              time.Time
	Description           string
}

// Update carries partial field changes. Nil pointers mean "leave
// unchanged". The first group freezes at publish; Deadline and
// Description stay editable until the policy closes.
type Update struct {
	MinQuestions          *int
	MaxQuestions          *int
	QuestionTimeLimit     *time.Duration
	SilenceTimeout        *time.Duration
	EvaluationWeights     map[string]datatypes.WeightRange
	RequiredQuestionIDs   []string
	ModelID               *string
	Tags                  []string
	ResultExposure        *time.Duration
	InterruptedEvaluation *datatypes.InterruptedEvaluationPolicy

	Deadline    *time.Time
	Description *string
}

// touchesFrozen reports whether the update names any AI-sensitive field.
func (u *Update) touchesFrozen() bool {
	return u.MinQuestions != nil ||
		u.MaxQuestions != nil ||
		u.QuestionTimeLimit != nil ||
		u.SilenceTimeout != nil ||
		u.EvaluationWeights != nil ||
		u.RequiredQuestionIDs != nil ||
		u.ModelID != nil ||
		u.Tags != nil ||
		u.ResultExposure != nil ||
		u.InterruptedEvaluation != nil
}

// CreateDraft creates a new policy in DRAFT state.
//
// Inputs:
//
//	d - Initial field values. Validated only at publish time, so an
//	    incomplete draft is fine.
//
// Outputs:
//
//	*datatypes.JobPolicy - The persisted draft.
//	error - Non-nil on repository failure.
func (s *Store) CreateDraft(ctx context.Context, d Draft) (*datatypes.JobPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &datatypes.JobPolicy{
		ID:                    uuid.NewString(),
		Status:                datatypes.PolicyDraft,
		MinQuestions:          d.MinQuestions,
		MaxQuestions:          d.MaxQuestions,
		QuestionTimeLimit:     d.QuestionTimeLimit,
		SilenceTimeout:        d.SilenceTimeout,
		EvaluationWeights:     d.EvaluationWeights,
		RequiredQuestionIDs:   d.RequiredQuestionIDs,
		ModelID:               d.ModelID,
		Tags:                  d.Tags,
		ResultExposure:        d.ResultExposure,
		InterruptedEvaluation: d.InterruptedEvaluation,
		Deadline:              d.Deadline,
		Description:           d.Description,
		CreatedAt:             s.now(),
	}
	if p.InterruptedEvaluation == "" {
		p.InterruptedEvaluation = datatypes.EvaluatePartial
	}
	if err := s.repo.SavePolicy(ctx, p); err != nil {
		return nil, fmt.Errorf("save draft policy: %w", err)
	}
	s.logger.Info("policy draft created", "policy_id", p.ID)
	return p.Clone(), nil
}

// Get loads a policy by id.
func (s *Store) Get(ctx context.Context, id string) (*datatypes.JobPolicy, error) {
	p, err := s.repo.GetPolicy(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return p, nil
}

// UpdatePolicy applies a partial update.
//
// Description:
//
//	All changes are applied to an in-memory clone and validated before
//	anything is written, so a rejected update never leaves a partial
//	write behind. Once the policy is published, an update naming any
//	frozen field fails with ErrFrozenField; Deadline and Description stay
//	editable until the policy is CLOSED.
//
// Outputs:
//
//	*datatypes.JobPolicy - The updated policy.
//	error - ErrNotFound, ErrFrozenField, or ErrValidation.
func (s *Store) UpdatePolicy(ctx context.Context, id string, u Update) (*datatypes.JobPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch p.Status {
	case datatypes.PolicyClosed:
		return nil, fmt.Errorf("%w: policy %s is closed", ErrValidation, id)
	case datatypes.PolicyPublished:
		if u.touchesFrozen() {
			return nil, fmt.Errorf("%w: policy %s", ErrFrozenField, id)
		}
	}

	next := p.Clone()
	applyUpdate(next, u)
	if err := s.repo.SavePolicy(ctx, next); err != nil {
		return nil, fmt.Errorf("save policy update: %w", err)
	}
	return next, nil
}

func applyUpdate(p *datatypes.JobPolicy, u Update) {
	if u.MinQuestions != nil {
		p.MinQuestions = *u.MinQuestions
	}
	if u.MaxQuestions != nil {
		p.MaxQuestions = *u.MaxQuestions
	}
	if u.QuestionTimeLimit != nil {
		p.QuestionTimeLimit = *u.QuestionTimeLimit
	}
	if u.SilenceTimeout != nil {
		p.SilenceTimeout = *u.SilenceTimeout
	}
	if u.EvaluationWeights != nil {
		p.EvaluationWeights = u.EvaluationWeights
	}
	if u.RequiredQuestionIDs != nil {
		p.RequiredQuestionIDs = u.RequiredQuestionIDs
	}
	if u.ModelID != nil {
		p.ModelID = *u.ModelID
	}
	if u.Tags != nil {
		p.Tags = u.Tags
	}
	if u.ResultExposure != nil {
		p.ResultExposure = *u.ResultExposure
	}
	if u.InterruptedEvaluation != nil {
		p.InterruptedEvaluation = *u.InterruptedEvaluation
	}
	if u.Deadline != nil {
		p.Deadline = *u.Deadline
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
}

// Publish freezes the policy and captures its snapshot.
//
// Description:
//
//	Validates every AI-sensitive field, assigns the policy version,
//	captures the publish-time snapshot sessions will copy from, and
//	flips DRAFT -> PUBLISHED. Irreversible. Fails if the policy is not
//	currently a draft.
//
// Outputs:
//
//	*datatypes.JobPolicy - The published policy.
//	error - ErrNotFound, or ErrValidation with the failing field.
func (s *Store) Publish(ctx context.Context, id string) (*datatypes.JobPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != datatypes.PolicyDraft {
		return nil, fmt.Errorf("%w: publish requires DRAFT, policy %s is %s", ErrValidation, id, p.Status)
	}
	if err := validateFrozenFields(p); err != nil {
		return nil, err
	}

	now := s.now()
	next := p.Clone()
	next.Status = datatypes.PolicyPublished
	next.Version = uuid.NewString()
	next.PublishedAt = &now

	snap := TakeSnapshot(next)
	if err := s.repo.SaveSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("save policy snapshot: %w", err)
	}
	if err := s.repo.SavePolicy(ctx, next); err != nil {
		return nil, fmt.Errorf("save published policy: %w", err)
	}

	s.logger.Info("policy published",
		"policy_id", next.ID,
		"policy_version", next.Version,
		"min_questions", next.MinQuestions,
		"max_questions", next.MaxQuestions)
	return next, nil
}

// ClosePolicy advances PUBLISHED -> CLOSED. No further sessions may start
// against a closed policy; existing sessions are untouched.
func (s *Store) ClosePolicy(ctx context.Context, id string) (*datatypes.JobPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != datatypes.PolicyPublished {
		return nil, fmt.Errorf("%w: close requires PUBLISHED, policy %s is %s", ErrValidation, id, p.Status)
	}

	now := s.now()
	next := p.Clone()
	next.Status = datatypes.PolicyClosed
	next.ClosedAt = &now
	if err := s.repo.SavePolicy(ctx, next); err != nil {
		return nil, fmt.Errorf("save closed policy: %w", err)
	}
	s.logger.Info("policy closed", "policy_id", id)
	return next, nil
}

// SnapshotForSession returns the publish-time snapshot for a job, for the
// engine to copy into a fresh SessionConfig.
//
// Outputs:
//
//	*datatypes.JobPolicySnapshot - The frozen snapshot.
//	error - ErrNotFound if the policy does not exist, ErrNotPublished if
//	        it is a draft or closed.
func (s *Store) SnapshotForSession(ctx context.Context, jobID string) (*datatypes.JobPolicySnapshot, error) {
	p, err := s.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if p.Status != datatypes.PolicyPublished {
		return nil, fmt.Errorf("%w: policy %s is %s", ErrNotPublished, jobID, p.Status)
	}
	snap, err := s.repo.GetSnapshot(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: snapshot for %s", ErrNotFound, jobID)
		}
		return nil, err
	}
	return snap, nil
}

func validateFrozenFields(p *datatypes.JobPolicy) error {
	if p.MinQuestions < 1 {
		return fmt.Errorf("%w: min_questions must be at least 1", ErrValidation)
	}
	if p.MaxQuestions < p.MinQuestions {
		return fmt.Errorf("%w: max_questions %d below min_questions %d",
			ErrValidation, p.MaxQuestions, p.MinQuestions)
	}
	if p.QuestionTimeLimit <= 0 {
		return fmt.Errorf("%w: question_time_limit must be positive", ErrValidation)
	}
	if p.SilenceTimeout <= 0 {
		return fmt.Errorf("%w: silence_timeout must be positive", ErrValidation)
	}
	if p.ModelID == "" {
		return fmt.Errorf("%w: model_id must not be empty", ErrValidation)
	}
	switch p.InterruptedEvaluation {
	case datatypes.EvaluatePartial, datatypes.EvaluateExclude:
	default:
		return fmt.Errorf("%w: interrupted_evaluation must be PARTIAL or EXCLUDE", ErrValidation)
	}
	for dim, wr := range p.EvaluationWeights {
		if wr.Min < 0 || wr.Max > 1 || wr.Min > wr.Max {
			return fmt.Errorf("%w: weight range for %q must satisfy 0 <= min <= max <= 1",
				ErrValidation, dim)
		}
	}
	return nil
}
