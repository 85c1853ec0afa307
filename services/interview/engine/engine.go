// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package engine is the interview session orchestration core: the state
// machine that owns a session's lifecycle and the only component allowed
// to mutate session state.
//
// Every command runs under the per-session concurrency guard: at most one
// command executes per session at a time, acquisition is fail-fast, and
// commands against different sessions are fully independent. Each command
// mutates a loaded copy of the record and persists it whole on success,
// so a rejected command leaves no partial mutation behind.
//
// Per-question timers (time limit, silence timeout) are single-shot
// cancellable tasks. Exactly one trigger (explicit answer, time-limit
// expiry, or silence-timeout expiry) resolves any question index;
// whichever fires first wins and cancels the rest before the session lock
// is released, so a second trigger for the same index is a no-op.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mockhire/mockhire/pkg/validation"
	"github.com/mockhire/mockhire/services/interview/datatypes"
	"github.com/mockhire/mockhire/services/interview/lock"
	"github.com/mockhire/mockhire/services/interview/policy"
	"github.com/mockhire/mockhire/services/interview/store"
	"github.com/mockhire/mockhire/services/interview/supplier"
)

// SilenceKind distinguishes the two silence conditions.
type SilenceKind string

const (
	// SilencePostAnswer means the candidate answered, then stayed silent
	// instead of confirming. A SilenceWarning is emitted before the
	// auto-advance and the question keeps is_no_answer=false.
	SilencePostAnswer SilenceKind = "POST_ANSWER"

	// SilenceNoAnswer means no speech or text was registered at all.
	// The engine auto-advances without a warning and the question is
	// flagged is_no_answer=true for evaluation penalty.
	SilenceNoAnswer SilenceKind = "NO_ANSWER"
)

// Timer retry tuning. A timer callback that finds the session lock held
// backs off briefly and retries; losing outright is safe because question
// resolution is idempotent per index.
const (
	timerAcquireAttempts = 3
	timerAcquireBackoff  = 25 * time.Millisecond
)

// Engine orchestrates interview sessions.
//
// Thread Safety:
//
//	Engine is safe for concurrent use. Per-session serialization comes
//	from the concurrency guard, not from locking inside Engine.
type Engine struct {
	repo     store.Repository
	policies *policy.Store
	supplier *supplier.Supplier
	guard    lock.Guard
	states   *StateMachine
	timers   *timerRegistry
	events   EventSink
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an engine.
//
// Inputs:
//
//	repo - Session persistence.
//	policies - Policy store for publish-time snapshots.
//	sup - Question supplier (generation -> bank -> builtin chain).
//	guard - Per-session concurrency guard.
//	events - Event sink. Nil falls back to log-only events.
//	logger - Structured logger. Nil falls back to slog.Default().
func New(repo store.Repository, policies *policy.Store, sup *supplier.Supplier,
	guard lock.Guard, events EventSink, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if events == nil {
		events = &LogSink{Logger: logger}
	}
	return &Engine{
		repo:     repo,
		policies: policies,
		supplier: sup,
		guard:    guard,
		states:   NewStateMachine(),
		timers:   newTimerRegistry(),
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// StartSession creates a session in APPLIED state for a published job.
//
// Description:
//
//	Loads the publish-time policy snapshot and deep-copies it into a
//	fresh SessionConfig, the instance lock. From here on the session is
//	isolated from any change to the job posting or the question bank.
//
// Outputs:
//
//	*datatypes.SessionRecord - The created session.
//	error - ErrNotFound if the job is absent or not published,
//	        ErrInvalidMode for an unknown mode, ErrInvalidCandidate for
//	        a malformed candidate reference.
func (e *Engine) StartSession(ctx context.Context, jobID, candidateRef string, mode datatypes.InterviewMode) (*datatypes.SessionRecord, error) {
	if mode != datatypes.ModeActual && mode != datatypes.ModePractice {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if err := validation.ValidateCandidateRef(candidateRef); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCandidate, err)
	}

	snap, err := e.policies.SnapshotForSession(ctx, jobID)
	if err != nil {
		if errors.Is(err, policy.ErrNotFound) || errors.Is(err, policy.ErrNotPublished) {
			return nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
		}
		return nil, err
	}

	now := e.now()
	rec := &datatypes.SessionRecord{
		ID:           uuid.NewString(),
		JobID:        jobID,
		CandidateRef: candidateRef,
		Status:       datatypes.StatusApplied,
		Config:       datatypes.SessionConfigFrom(snap, mode),
		CurrentIndex: -1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := e.repo.SaveSession(ctx, rec); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	e.logger.Info("session started",
		"session_id", rec.ID,
		"job_id", jobID,
		"mode", string(mode),
		"policy_version", rec.Config.PolicyVersion)
	return rec, nil
}

// GetSession loads a session without acquiring the guard. Read-only.
func (e *Engine) GetSession(ctx context.Context, sessionID string) (*datatypes.SessionRecord, error) {
	rec, err := e.repo.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
		}
		return nil, err
	}
	return rec, nil
}

// Begin transitions APPLIED -> IN_PROGRESS, serves the first question and
// arms its timers.
func (e *Engine) Begin(ctx context.Context, sessionID string) (*datatypes.SessionRecord, error) {
	return e.command(ctx, sessionID, func(rec *datatypes.SessionRecord) (postCommit, error) {
		if err := e.states.Transition(rec, datatypes.StatusInProgress); err != nil {
			return nil, err
		}
		now := e.now()
		rec.StartedAt = &now
		if err := e.serveNext(ctx, rec); err != nil {
			return nil, err
		}
		return e.armCurrent(rec), nil
	})
}

// SubmitAnswer resolves the active question with an explicit answer.
//
// Description:
//
//	Records the answer, resolves the current question via the answer
//	trigger, cancels the question's timers, then either advances to the
//	next question or completes the session. An empty answer still counts
//	as one completed question toward the minimum, flagged is_no_answer.
func (e *Engine) SubmitAnswer(ctx context.Context, sessionID, answer string) (*datatypes.SessionRecord, error) {
	return e.command(ctx, sessionID, func(rec *datatypes.SessionRecord) (postCommit, error) {
		if rec.Status != datatypes.StatusInProgress {
			return nil, fmt.Errorf("%w: submit requires IN_PROGRESS, session is %s",
				ErrPolicyViolation, rec.Status)
		}
		return e.resolveCurrent(ctx, rec, datatypes.TriggerAnswer, answer, answer == "")
	})
}

// SignalSilence reports a silence timeout observed by the media pipeline.
//
// Description:
//
//	Post-answer silence carries the unconfirmed transcript: the engine
//	emits a SilenceWarning event before auto-advancing and keeps
//	is_no_answer=false. No-answer silence advances immediately with no
//	warning and flags the question for evaluation penalty. Either case
//	counts as one completed question toward the minimum.
func (e *Engine) SignalSilence(ctx context.Context, sessionID string, kind SilenceKind, transcript string) (*datatypes.SessionRecord, error) {
	if kind != SilencePostAnswer && kind != SilenceNoAnswer {
		return nil, fmt.Errorf("%w: unknown silence kind %q", ErrPolicyViolation, kind)
	}
	return e.command(ctx, sessionID, func(rec *datatypes.SessionRecord) (postCommit, error) {
		if rec.Status != datatypes.StatusInProgress {
			return nil, fmt.Errorf("%w: silence signal requires IN_PROGRESS, session is %s",
				ErrPolicyViolation, rec.Status)
		}
		if kind == SilencePostAnswer {
			cur := rec.CurrentQuestion()
			if cur != nil && !cur.Resolved {
				e.events.Emit(Event{
					Type:          EventSilenceWarning,
					SessionID:     rec.ID,
					Mode:          rec.Config.Mode,
					QuestionIndex: cur.Index,
					At:            e.now(),
				})
			}
			return e.resolveCurrent(ctx, rec, datatypes.TriggerSilence, transcript, false)
		}
		return e.resolveCurrent(ctx, rec, datatypes.TriggerSilence, "", true)
	})
}

// Interrupt transitions IN_PROGRESS -> INTERRUPTED and cancels all armed
// timers. Terminal for Actual mode; resumable for Practice mode.
func (e *Engine) Interrupt(ctx context.Context, sessionID, reason string) (*datatypes.SessionRecord, error) {
	return e.command(ctx, sessionID, func(rec *datatypes.SessionRecord) (postCommit, error) {
		if err := e.states.Transition(rec, datatypes.StatusInterrupted); err != nil {
			return nil, err
		}
		now := e.now()
		rec.Interrupted = true
		rec.InterruptReason = reason
		rec.EndedAt = &now
		e.timers.cancelSession(rec.ID)

		e.events.Emit(Event{
			Type:          EventSessionInterrupted,
			SessionID:     rec.ID,
			Mode:          rec.Config.Mode,
			QuestionIndex: rec.CurrentIndex,
			At:            now,
		})
		e.logger.Info("session interrupted",
			"session_id", rec.ID, "mode", string(rec.Config.Mode), "reason", reason)
		return nil, nil
	})
}

// Resume returns a Practice-mode INTERRUPTED session to IN_PROGRESS at
// the next unanswered question, with fresh timers. Resuming an
// Actual-mode interruption is rejected regardless of caller identity.
func (e *Engine) Resume(ctx context.Context, sessionID string) (*datatypes.SessionRecord, error) {
	return e.command(ctx, sessionID, func(rec *datatypes.SessionRecord) (postCommit, error) {
		if rec.Status != datatypes.StatusInterrupted {
			return nil, fmt.Errorf("%w: resume requires INTERRUPTED, session is %s",
				ErrPolicyViolation, rec.Status)
		}
		if rec.Config.Mode != datatypes.ModePractice {
			return nil, fmt.Errorf("%w: %s mode interruption is terminal",
				ErrPolicyViolation, rec.Config.Mode)
		}
		if err := e.states.Transition(rec, datatypes.StatusInProgress); err != nil {
			return nil, err
		}
		rec.EndedAt = nil

		cur := rec.CurrentQuestion()
		if cur == nil || cur.Resolved {
			if err := e.serveNext(ctx, rec); err != nil {
				return nil, err
			}
		} else {
			// Re-ask the in-flight question; timers are re-armed fresh,
			// never carried over from before the interruption.
			cur.AskedAt = e.now()
		}
		e.logger.Info("session resumed", "session_id", rec.ID, "index", rec.CurrentIndex)
		return e.armCurrent(rec), nil
	})
}

// RecommendEarlyExit records an early-exit recommendation from the
// evaluation collaborator.
//
// Description:
//
//	The engine never decides an early exit internally: below the
//	minimum question count the recommendation is remembered but not
//	honored, and the session keeps advancing. At or above the minimum,
//	the session completes immediately.
func (e *Engine) RecommendEarlyExit(ctx context.Context, sessionID string) (*datatypes.SessionRecord, error) {
	return e.command(ctx, sessionID, func(rec *datatypes.SessionRecord) (postCommit, error) {
		if rec.Status != datatypes.StatusInProgress {
			return nil, fmt.Errorf("%w: early exit requires IN_PROGRESS, session is %s",
				ErrPolicyViolation, rec.Status)
		}
		rec.EarlyExitRecommended = true
		if rec.ResolvedCount() >= rec.Config.MinQuestions {
			return nil, e.complete(rec)
		}
		e.logger.Info("early exit recommended below minimum, continuing",
			"session_id", rec.ID,
			"resolved", rec.ResolvedCount(),
			"min_questions", rec.Config.MinQuestions)
		return nil, nil
	})
}

// CompleteEvaluation transitions {COMPLETED, INTERRUPTED} -> EVALUATED
// with the collaborator's result.
//
// Description:
//
//	For an interrupted Actual-mode session the frozen policy decides:
//	EXCLUDE rejects evaluation with ErrPolicyViolation, PARTIAL
//	evaluates on the answers collected before the interruption.
func (e *Engine) CompleteEvaluation(ctx context.Context, sessionID string, result datatypes.EvaluationResult) (*datatypes.SessionRecord, error) {
	if result.Outcome != datatypes.OutcomePass && result.Outcome != datatypes.OutcomeFail {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidOutcome, result.Outcome)
	}
	return e.command(ctx, sessionID, func(rec *datatypes.SessionRecord) (postCommit, error) {
		if rec.Status == datatypes.StatusInterrupted &&
			rec.Config.Mode == datatypes.ModeActual &&
			rec.Config.InterruptedEvaluation == datatypes.EvaluateExclude {
			return nil, fmt.Errorf("%w: interrupted sessions are excluded from evaluation by policy %s",
				ErrPolicyViolation, rec.Config.PolicyID)
		}
		if err := e.states.Transition(rec, datatypes.StatusEvaluated); err != nil {
			return nil, err
		}
		res := result
		res.EvaluatedAt = e.now()
		rec.Evaluation = &res
		e.logger.Info("session evaluated",
			"session_id", rec.ID, "outcome", string(res.Outcome))
		return nil, nil
	})
}

// postCommit runs after a successful save, while the session lock is
// still held. Used to arm timers so they only exist for persisted state.
type postCommit func()

// command is the scoped-acquisition wrapper every mutating operation runs
// through: acquire the guard, load, mutate a copy, persist whole, release.
// Release runs on every exit path. A business error persists nothing.
func (e *Engine) command(ctx context.Context, sessionID string, fn func(*datatypes.SessionRecord) (postCommit, error)) (*datatypes.SessionRecord, error) {
	token, err := e.guard.TryAcquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := e.guard.Release(ctx, token); err != nil {
			e.logger.Error("release session lock", "session_id", sessionID, "error", err)
		}
	}()

	rec, err := e.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	post, err := fn(rec)
	if err != nil {
		return nil, err
	}

	rec.UpdatedAt = e.now()
	if err := e.repo.SaveSession(ctx, rec); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	if post != nil {
		post()
	}
	return rec, nil
}

// resolveCurrent resolves the active question with exactly one trigger
// and decides whether to advance or complete.
//
// Idempotent per index: if the current question is already resolved (a
// competing trigger won first) this is a no-op and the record is
// unchanged.
func (e *Engine) resolveCurrent(ctx context.Context, rec *datatypes.SessionRecord,
	trigger datatypes.ResolutionTrigger, answer string, noAnswer bool) (postCommit, error) {

	cur := rec.CurrentQuestion()
	if cur == nil || cur.Resolved {
		return nil, nil
	}

	now := e.now()
	cur.Answer = answer
	cur.IsNoAnswer = noAnswer
	cur.Resolved = true
	cur.ResolvedBy = trigger
	cur.ResolvedAt = &now
	e.timers.cancelIndex(rec.ID, cur.Index)

	resolved := rec.ResolvedCount()
	switch {
	case resolved >= rec.Config.MaxQuestions:
		return nil, e.complete(rec)
	case rec.EarlyExitRecommended && resolved >= rec.Config.MinQuestions:
		return nil, e.complete(rec)
	default:
		if err := e.serveNext(ctx, rec); err != nil {
			return nil, err
		}
		return e.armCurrent(rec), nil
	}
}

// complete transitions to COMPLETED and cancels any armed timers.
func (e *Engine) complete(rec *datatypes.SessionRecord) error {
	if err := e.states.Transition(rec, datatypes.StatusCompleted); err != nil {
		return err
	}
	now := e.now()
	rec.EndedAt = &now
	e.timers.cancelSession(rec.ID)
	e.events.Emit(Event{
		Type:          EventSessionCompleted,
		SessionID:     rec.ID,
		Mode:          rec.Config.Mode,
		QuestionIndex: rec.CurrentIndex,
		At:            now,
	})
	e.logger.Info("session completed",
		"session_id", rec.ID, "questions", len(rec.Questions))
	return nil
}

// serveNext asks the supplier for the next question and appends it. The
// supplier's chain ends in the built-in safe set, so a live session never
// stalls here; what can fail is only the repository underneath the bank.
func (e *Engine) serveNext(ctx context.Context, rec *datatypes.SessionRecord) error {
	used := make(map[string]bool)
	asked := make([]string, 0, len(rec.Questions))
	for i := range rec.Questions {
		if id := rec.Questions[i].Origin.BankEntryID; id != "" {
			used[id] = true
		}
		asked = append(asked, rec.Questions[i].Text)
	}

	cand, err := e.supplier.NextQuestion(ctx, &supplier.Request{
		SessionID:   rec.ID,
		Index:       len(rec.Questions),
		Config:      rec.Config,
		UsedBankIDs: used,
		AskedTexts:  asked,
	})
	if err != nil {
		return fmt.Errorf("next question: %w", err)
	}

	q := datatypes.SessionQuestion{
		Index:   len(rec.Questions),
		Text:    cand.Text,
		Source:  cand.Source,
		Origin:  cand.Origin,
		AskedAt: e.now(),
	}
	rec.Questions = append(rec.Questions, q)
	rec.CurrentIndex = q.Index
	return nil
}

// armCurrent returns a post-commit hook arming the time-limit and
// silence-timeout timers for the current question.
func (e *Engine) armCurrent(rec *datatypes.SessionRecord) postCommit {
	sessionID := rec.ID
	index := rec.CurrentIndex
	timeLimit := rec.Config.QuestionTimeLimit
	silence := rec.Config.SilenceTimeout
	return func() {
		e.timers.arm(sessionID, index, timeLimit, func() {
			e.handleExpiry(sessionID, index, datatypes.TriggerTimeLimit)
		})
		e.timers.arm(sessionID, index, silence, func() {
			e.handleExpiry(sessionID, index, datatypes.TriggerSilence)
		})
	}
}

// handleExpiry is the timer callback path. It runs as a command of its
// own: it must win the session lock like any other command. If the lock
// is held it backs off and retries a few times; giving up is safe because
// the in-flight command either resolved this index (and cancelled us) or
// a later trigger will.
func (e *Engine) handleExpiry(sessionID string, index int, trigger datatypes.ResolutionTrigger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for attempt := 0; attempt < timerAcquireAttempts; attempt++ {
		_, err := e.command(ctx, sessionID, func(rec *datatypes.SessionRecord) (postCommit, error) {
			if rec.Status != datatypes.StatusInProgress {
				return nil, nil
			}
			if rec.CurrentIndex != index {
				// The index already resolved and the session moved on.
				return nil, nil
			}
			cur := rec.CurrentQuestion()
			noAnswer := cur == nil || cur.Answer == ""
			if trigger == datatypes.TriggerTimeLimit {
				e.logger.Info("question time limit expired",
					"session_id", sessionID, "index", index)
			} else {
				e.logger.Info("silence timeout expired",
					"session_id", sessionID, "index", index)
			}
			return e.resolveCurrent(ctx, rec, trigger, "", noAnswer)
		})
		if err == nil {
			return
		}
		if errors.Is(err, lock.ErrLocked) {
			time.Sleep(timerAcquireBackoff << attempt)
			continue
		}
		if errors.Is(err, ErrNotFound) {
			return
		}
		e.logger.Error("timer expiry command failed",
			"session_id", sessionID, "index", index, "error", err)
		return
	}
	e.logger.Warn("timer expiry lost lock race, relying on idempotent resolution",
		"session_id", sessionID, "index", index)
}
