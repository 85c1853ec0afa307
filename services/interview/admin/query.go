// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package admin is the read-only query side for recruiters and
// administrators. It never touches the per-session concurrency guard:
// listings read committed state directly from the repository, so a
// query during a live answer submission returns the last committed
// snapshot instead of waiting or failing.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/mockhire/mockhire/pkg/validation"
	"github.com/mockhire/mockhire/services/interview/datatypes"
	"github.com/mockhire/mockhire/services/interview/store"
)

// ErrSearchTooShort rejects free-text searches under 2 characters.
var ErrSearchTooShort = errors.New("search term must be at least 2 characters")

const minSearchLength = 2

// Query serves admin session listings.
//
// Thread Safety:
//
//	Query is stateless above the repository and safe for concurrent use.
type Query struct {
	repo   store.Repository
	logger *slog.Logger
}

// NewQuery creates a query service over the given repository.
func NewQuery(repo store.Repository, logger *slog.Logger) *Query {
	if logger == nil {
		logger = slog.Default()
	}
	return &Query{repo: repo, logger: logger}
}

// ListSessions returns summaries of a job's sessions, newest first.
//
// Description:
//
//	All filters combine with AND. The interrupted alias unions the
//	INTERRUPTED status into the status set rather than conflicting with
//	it. Date bounds apply to StartedAt, so sessions that never started
//	are excluded whenever a bound is present. The result filter matches
//	evaluation outcome, with every non-evaluated session reporting
//	PENDING. Free text matches the candidate reference: exact for
//	email-shaped terms, substring otherwise, both case-insensitive.
//
// Outputs:
//
//	[]datatypes.SessionSummary - Matching sessions as decoupled DTOs.
//	error - ErrSearchTooShort for a sub-minimum search term, otherwise
//	repository failures.
func (q *Query) ListSessions(ctx context.Context, jobID string, f datatypes.SessionFilters) ([]datatypes.SessionSummary, error) {
	search := strings.TrimSpace(f.Search)
	if search != "" && len([]rune(search)) < minSearchLength {
		return nil, fmt.Errorf("%w: %q", ErrSearchTooShort, search)
	}

	records, err := q.repo.ListSessionsByJob(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	statuses := f.Statuses
	if f.IsInterrupted && !containsStatus(statuses, datatypes.StatusInterrupted) {
		statuses = append(append([]datatypes.SessionStatus{}, statuses...), datatypes.StatusInterrupted)
	}

	summaries := make([]datatypes.SessionSummary, 0, len(records))
	for _, rec := range records {
		if len(statuses) > 0 && !containsStatus(statuses, rec.Status) {
			continue
		}
		if (f.From != nil || f.To != nil) && rec.StartedAt == nil {
			continue
		}
		if f.From != nil && rec.StartedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && rec.StartedAt.After(*f.To) {
			continue
		}
		if f.Result != "" && resultOf(rec) != f.Result {
			continue
		}
		if search != "" && !validation.MatchesCandidate(rec.CandidateRef, search) {
			continue
		}
		summaries = append(summaries, summarize(rec))
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i].StartedAt, summaries[j].StartedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	q.logger.Debug("admin session listing",
		"job_id", jobID, "total", len(records), "matched", len(summaries))
	return summaries, nil
}

// GetSummary returns a single session as a summary DTO.
func (q *Query) GetSummary(ctx context.Context, sessionID string) (*datatypes.SessionSummary, error) {
	rec, err := q.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s := summarize(rec)
	return &s, nil
}

// resultOf reports the listed outcome: the recorded one for EVALUATED
// sessions, PENDING for everything else.
func resultOf(rec *datatypes.SessionRecord) datatypes.Outcome {
	if rec.Status == datatypes.StatusEvaluated && rec.Evaluation != nil {
		return rec.Evaluation.Outcome
	}
	return datatypes.OutcomePending
}

func containsStatus(set []datatypes.SessionStatus, s datatypes.SessionStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// summarize maps a record onto the read DTO. Question texts, origins and
// raw evaluation payloads deliberately never cross this boundary.
func summarize(rec *datatypes.SessionRecord) datatypes.SessionSummary {
	noAnswer := 0
	for i := range rec.Questions {
		if rec.Questions[i].Resolved && rec.Questions[i].IsNoAnswer {
			noAnswer++
		}
	}
	return datatypes.SessionSummary{
		SessionID:     rec.ID,
		JobID:         rec.JobID,
		CandidateRef:  rec.CandidateRef,
		Status:        rec.Status,
		Mode:          rec.Config.Mode,
		QuestionCount: len(rec.Questions),
		AnsweredCount: rec.AnsweredCount(),
		NoAnswerCount: noAnswer,
		Interrupted:   rec.Interrupted,
		Result:        resultOf(rec),
		StartedAt:     rec.StartedAt,
		EndedAt:       rec.EndedAt,
	}
}
