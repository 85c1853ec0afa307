// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mockhire/mockhire/services/interview/datatypes"
	"github.com/mockhire/mockhire/services/interview/lock"
	"github.com/mockhire/mockhire/services/interview/policy"
	"github.com/mockhire/mockhire/services/interview/store"
	"github.com/mockhire/mockhire/services/interview/supplier"
)

// stubStrategy serves deterministic question texts and never fails.
type stubStrategy struct{}

func (s *stubStrategy) Name() string { return "stub" }

func (s *stubStrategy) Next(_ context.Context, req *supplier.Request) (*supplier.Candidate, error) {
	return &supplier.Candidate{
		Text:   fmt.Sprintf("stub question %d", req.Index),
		Source: datatypes.SourceStatic,
		Origin: datatypes.QuestionOrigin{PolicyVersion: req.Config.PolicyVersion},
	}, nil
}

// captureSink records emitted events for assertions.
type captureSink struct {
	mu     sync.Mutex
	events []Event
}

func (c *captureSink) Emit(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *captureSink) byType(t EventType) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Event
	for _, ev := range c.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

type testEnv struct {
	engine   *Engine
	repo     *store.MemoryRepository
	policies *policy.Store
	guard    *lock.MemoryGuard
	sink     *captureSink
}

// newTestEnv builds an engine over in-memory collaborators with one
// published policy for jobID. Timer durations are long enough that
// nothing fires during a test unless the test triggers expiry itself.
func newTestEnv(t *testing.T, jobID string, mutate func(*policy.Draft)) *testEnv {
	t.Helper()
	ctx := context.Background()

	repo := store.NewMemoryRepository()
	policies := policy.NewStore(repo, nil)
	guard := lock.NewMemoryGuard()
	sink := &captureSink{}
	sup := supplier.NewSupplierWithStrategies(nil, &stubStrategy{})

	d := policy.Draft{
		MinQuestions:      2,
		MaxQuestions:      4,
		QuestionTimeLimit: time.Hour,
		SilenceTimeout:    time.Hour,
		EvaluationWeights: map[string]datatypes.WeightRange{
			"technical": {Min: 0.4, Max: 0.6},
		},
		ModelID:               "gpt-4o",
		Tags:                  []string{"backend"},
		ResultExposure:        24 * time.Hour,
		InterruptedEvaluation: datatypes.EvaluatePartial,
		Deadline:              time.Now().Add(30 * 24 * time.Hour),
	}
	if mutate != nil {
		mutate(&d)
	}

	created, err := policies.CreateDraft(ctx, d)
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	// Pin the id so tests can reference the job directly.
	created.ID = jobID
	if err := repo.SavePolicy(ctx, created); err != nil {
		t.Fatalf("SavePolicy: %v", err)
	}
	if _, err := policies.Publish(ctx, jobID); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	return &testEnv{
		engine:   New(repo, policies, sup, guard, sink, nil),
		repo:     repo,
		policies: policies,
		guard:    guard,
		sink:     sink,
	}
}

// startInProgress creates and begins a session, returning its id.
func (env *testEnv) startInProgress(t *testing.T, jobID string, mode datatypes.InterviewMode) string {
	t.Helper()
	ctx := context.Background()
	rec, err := env.engine.StartSession(ctx, jobID, "cand-1", mode)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := env.engine.Begin(ctx, rec.ID); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	return rec.ID
}

func TestStartSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "job-1", nil)

	tests := []struct {
		name      string
		jobID     string
		candidate string
		mode      datatypes.InterviewMode
		wantErr   error
	}{
		{"actual mode against published job", "job-1", "cand-1", datatypes.ModeActual, nil},
		{"practice mode against published job", "job-1", "cand-1", datatypes.ModePractice, nil},
		{"unknown job", "no-such-job", "cand-1", datatypes.ModeActual, ErrNotFound},
		{"unknown mode", "job-1", "cand-1", datatypes.InterviewMode("SHADOW"), ErrInvalidMode},
		{"empty candidate reference", "job-1", "  ", datatypes.ModeActual, ErrInvalidCandidate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := env.engine.StartSession(ctx, tt.jobID, tt.candidate, tt.mode)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("StartSession: %v", err)
			}
			if rec.Status != datatypes.StatusApplied {
				t.Errorf("status = %s, want APPLIED", rec.Status)
			}
			if rec.CurrentIndex != -1 {
				t.Errorf("current index = %d, want -1", rec.CurrentIndex)
			}
			if rec.Config.PolicyVersion == "" {
				t.Error("config missing policy version")
			}
		})
	}
}

func TestStartSessionRejectsDraftPolicy(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "job-1", nil)

	draft, err := env.policies.CreateDraft(ctx, policy.Draft{MinQuestions: 1, MaxQuestions: 2})
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	if _, err := env.engine.StartSession(ctx, draft.ID, "cand-1", datatypes.ModeActual); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for unpublished job", err)
	}
}

func TestConfigIsolatedFromLaterPolicyEdits(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "job-1", nil)

	rec, err := env.engine.StartSession(ctx, "job-1", "cand-1", datatypes.ModeActual)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	beforeWeights := rec.Config.EvaluationWeights["technical"]
	beforeTags := len(rec.Config.Tags)

	// Published policies refuse frozen-field updates through the store,
	// so this rewrites the stored policy underneath the session via the
	// repository directly.
	p, err := env.repo.GetPolicy(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetPolicy: %v", err)
	}
	p.EvaluationWeights["technical"] = datatypes.WeightRange{Min: 0, Max: 1}
	p.Tags = append(p.Tags, "frontend")
	if err := env.repo.SavePolicy(ctx, p); err != nil {
		t.Fatalf("SavePolicy: %v", err)
	}

	got, err := env.engine.GetSession(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Config.EvaluationWeights["technical"] != beforeWeights {
		t.Errorf("session weights moved with the policy rewrite: %+v -> %+v",
			beforeWeights, got.Config.EvaluationWeights["technical"])
	}
	if len(got.Config.Tags) != beforeTags {
		t.Errorf("session tags = %d, want %d untouched by the policy rewrite",
			len(got.Config.Tags), beforeTags)
	}
}

func TestResumeRequiresInterrupted(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "job-1", nil)

	// Practice mode, so only the status guard can reject.
	rec, err := env.engine.StartSession(ctx, "job-1", "cand-1", datatypes.ModePractice)
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}

	if _, err := env.engine.Resume(ctx, rec.ID); !errors.Is(err, ErrPolicyViolation) {
		t.Fatalf("Resume on APPLIED err = %v, want ErrPolicyViolation", err)
	}

	got, err := env.engine.GetSession(ctx, rec.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Status != datatypes.StatusApplied {
		t.Errorf("status = %s, want still APPLIED", got.Status)
	}
	if got.StartedAt != nil || len(got.Questions) != 0 {
		t.Errorf("StartedAt = %v questions = %d, want no interview side effects",
			got.StartedAt, len(got.Questions))
	}
}

func TestBeginServesFirstQuestion(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "job-1", nil)
	id := env.startInProgress(t, "job-1", datatypes.ModeActual)

	rec, err := env.engine.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if rec.Status != datatypes.StatusInProgress {
		t.Fatalf("status = %s, want IN_PROGRESS", rec.Status)
	}
	if len(rec.Questions) != 1 || rec.CurrentIndex != 0 {
		t.Fatalf("questions = %d current = %d, want 1 question at index 0",
			len(rec.Questions), rec.CurrentIndex)
	}
	if rec.StartedAt == nil {
		t.Error("StartedAt not set")
	}
}

func TestSubmitAnswerAdvances(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "job-1", nil)
	id := env.startInProgress(t, "job-1", datatypes.ModeActual)

	rec, err := env.engine.SubmitAnswer(ctx, id, "my answer")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	q0 := rec.Questions[0]
	if !q0.Resolved || q0.ResolvedBy != datatypes.TriggerAnswer {
		t.Errorf("q0 resolved=%v by=%s, want resolved by answer", q0.Resolved, q0.ResolvedBy)
	}
	if q0.IsNoAnswer {
		t.Error("q0 flagged no-answer despite explicit answer")
	}
	if rec.CurrentIndex != 1 || len(rec.Questions) != 2 {
		t.Errorf("current = %d questions = %d, want advanced to index 1",
			rec.CurrentIndex, len(rec.Questions))
	}
}

func TestEmptyAnswerCountsAsNoAnswer(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "job-1", nil)
	id := env.startInProgress(t, "job-1", datatypes.ModeActual)

	rec, err := env.engine.SubmitAnswer(ctx, id, "")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	q0 := rec.Questions[0]
	if !q0.Resolved || !q0.IsNoAnswer {
		t.Errorf("q0 resolved=%v noAnswer=%v, want resolved and flagged", q0.Resolved, q0.IsNoAnswer)
	}
	if rec.ResolvedCount() != 1 {
		t.Errorf("resolved count = %d, want 1 (empty answer still counts)", rec.ResolvedCount())
	}
}

func TestMaxQuestionsCompletes(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "job-1", nil)
	id := env.startInProgress(t, "job-1", datatypes.ModeActual)

	var rec *datatypes.SessionRecord
	var err error
	for i := 0; i < 4; i++ {
		rec, err = env.engine.SubmitAnswer(ctx, id, fmt.Sprintf("answer %d", i))
		if err != nil {
			t.Fatalf("SubmitAnswer %d: %v", i, err)
		}
	}
	if rec.Status != datatypes.StatusCompleted {
		t.Fatalf("status = %s, want COMPLETED after max questions", rec.Status)
	}
	if len(rec.Questions) != 4 {
		t.Errorf("questions = %d, want exactly max", len(rec.Questions))
	}
	if got := env.sink.byType(EventSessionCompleted); len(got) != 1 {
		t.Errorf("completed events = %d, want 1", len(got))
	}
	// No further submissions accepted.
	if _, err := env.engine.SubmitAnswer(ctx, id, "late"); !errors.Is(err, ErrPolicyViolation) {
		t.Errorf("post-completion submit err = %v, want ErrPolicyViolation", err)
	}
}

func TestEarlyExitBelowMinimumIsDeferred(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "job-1", nil)
	id := env.startInProgress(t, "job-1", datatypes.ModeActual)

	// Zero questions resolved, minimum is 2: the recommendation is
	// remembered but the session keeps going.
	rec, err := env.engine.RecommendEarlyExit(ctx, id)
	if err != nil {
		t.Fatalf("RecommendEarlyExit: %v", err)
	}
	if rec.Status != datatypes.StatusInProgress {
		t.Fatalf("status = %s, want still IN_PROGRESS below minimum", rec.Status)
	}
	if !rec.EarlyExitRecommended {
		t.Fatal("recommendation not recorded")
	}

	// First resolution: still below the floor.
	rec, err = env.engine.SubmitAnswer(ctx, id, "a1")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if rec.Status != datatypes.StatusInProgress {
		t.Fatalf("status = %s, want IN_PROGRESS at 1 of 2 minimum", rec.Status)
	}

	// Second resolution crosses the floor with the flag standing.
	rec, err = env.engine.SubmitAnswer(ctx, id, "a2")
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if rec.Status != datatypes.StatusCompleted {
		t.Fatalf("status = %s, want COMPLETED once minimum reached", rec.Status)
	}
}

func TestEarlyExitAtMinimumCompletesImmediately(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "job-1", nil)
	id := env.startInProgress(t, "job-1", datatypes.ModeActual)

	for i := 0; i < 2; i++ {
		if _, err := env.engine.SubmitAnswer(ctx, id, "a"); err != nil {
			t.Fatalf("SubmitAnswer: %v", err)
		}
	}
	rec, err := env.engine.RecommendEarlyExit(ctx, id)
	if err != nil {
		t.Fatalf("RecommendEarlyExit: %v", err)
	}
	if rec.Status != datatypes.StatusCompleted {
		t.Fatalf("status = %s, want COMPLETED at minimum", rec.Status)
	}
}

func TestSilencePostAnswerWarnsAndAdvances(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "job-1", nil)
	id := env.startInProgress(t, "job-1", datatypes.ModeActual)

	rec, err := env.engine.SignalSilence(ctx, id, SilencePostAnswer, "partial transcript")
	if err != nil {
		t.Fatalf("SignalSilence: %v", err)
	}
	q0 := rec.Questions[0]
	if !q0.Resolved || q0.ResolvedBy != datatypes.TriggerSilence {
		t.Errorf("q0 resolved=%v by=%s, want resolved by silence", q0.Resolved, q0.ResolvedBy)
	}
	if q0.IsNoAnswer {
		t.Error("post-answer silence must not flag no-answer")
	}
	if q0.Answer != "partial transcript" {
		t.Errorf("answer = %q, want the unconfirmed transcript recorded", q0.Answer)
	}
	if got := env.sink.byType(EventSilenceWarning); len(got) != 1 {
		t.Errorf("silence warnings = %d, want 1", len(got))
	}
}

func TestSilenceNoAnswerAdvancesWithoutWarning(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "job-1", nil)
	id := env.startInProgress(t, "job-1", datatypes.ModeActual)

	rec, err := env.engine.SignalSilence(ctx, id, SilenceNoAnswer, "")
	if err != nil {
		t.Fatalf("SignalSilence: %v", err)
	}
	q0 := rec.Questions[0]
	if !q0.Resolved || !q0.IsNoAnswer {
		t.Errorf("q0 resolved=%v noAnswer=%v, want resolved and flagged", q0.Resolved, q0.IsNoAnswer)
	}
	if got := env.sink.byType(EventSilenceWarning); len(got) != 0 {
		t.Errorf("silence warnings = %d, want none for no-answer silence", len(got))
	}
	if rec.CurrentIndex != 1 {
		t.Errorf("current = %d, want advanced", rec.CurrentIndex)
	}
}

func TestResolutionIdempotentPerIndex(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "job-1", nil)
	id := env.startInProgress(t, "job-1", datatypes.ModeActual)

	if _, err := env.engine.SubmitAnswer(ctx, id, "first"); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	// A stale expiry for index 0 must be a no-op: the session already
	// moved to index 1 and q0 keeps its answer resolution.
	env.engine.handleExpiry(id, 0, datatypes.TriggerTimeLimit)

	rec, err := env.engine.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if rec.Questions[0].ResolvedBy != datatypes.TriggerAnswer {
		t.Errorf("q0 resolvedBy = %s, want the original answer trigger", rec.Questions[0].ResolvedBy)
	}
	if rec.Questions[0].Answer != "first" {
		t.Errorf("q0 answer = %q, want untouched", rec.Questions[0].Answer)
	}
	if rec.CurrentIndex != 1 {
		t.Errorf("current = %d, want 1", rec.CurrentIndex)
	}
}

func TestTimeLimitExpiryResolvesCurrent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "job-1", nil)
	id := env.startInProgress(t, "job-1", datatypes.ModeActual)

	env.engine.handleExpiry(id, 0, datatypes.TriggerTimeLimit)

	rec, err := env.engine.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	q0 := rec.Questions[0]
	if !q0.Resolved || q0.ResolvedBy != datatypes.TriggerTimeLimit {
		t.Errorf("q0 resolved=%v by=%s, want resolved by time limit", q0.Resolved, q0.ResolvedBy)
	}
	if !q0.IsNoAnswer {
		t.Error("expiry with no answer must flag no-answer")
	}
	if rec.CurrentIndex != 1 {
		t.Errorf("current = %d, want advanced to 1", rec.CurrentIndex)
	}
}

func TestInterruptModes(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		mode      datatypes.InterviewMode
		resumeErr error
	}{
		{"actual mode interruption is terminal", datatypes.ModeActual, ErrPolicyViolation},
		{"practice mode interruption resumes", datatypes.ModePractice, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, "job-1", nil)
			id := env.startInProgress(t, "job-1", tt.mode)

			rec, err := env.engine.Interrupt(ctx, id, "network loss")
			if err != nil {
				t.Fatalf("Interrupt: %v", err)
			}
			if rec.Status != datatypes.StatusInterrupted || !rec.Interrupted {
				t.Fatalf("status = %s interrupted = %v, want INTERRUPTED", rec.Status, rec.Interrupted)
			}

			rec, err = env.engine.Resume(ctx, id)
			if tt.resumeErr != nil {
				if !errors.Is(err, tt.resumeErr) {
					t.Fatalf("Resume err = %v, want %v", err, tt.resumeErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resume: %v", err)
			}
			if rec.Status != datatypes.StatusInProgress {
				t.Fatalf("status = %s, want IN_PROGRESS after resume", rec.Status)
			}
			if rec.EndedAt != nil {
				t.Error("EndedAt not cleared on resume")
			}
			// The in-flight question is re-asked, not re-generated.
			if len(rec.Questions) != 1 || rec.Questions[0].Resolved {
				t.Errorf("questions = %d resolved = %v, want same unresolved question",
					len(rec.Questions), rec.Questions[0].Resolved)
			}
		})
	}
}

func TestCompleteEvaluation(t *testing.T) {
	ctx := context.Background()

	completeActual := func(t *testing.T, env *testEnv) string {
		id := env.startInProgress(t, "job-1", datatypes.ModeActual)
		for i := 0; i < 4; i++ {
			if _, err := env.engine.SubmitAnswer(ctx, id, "a"); err != nil {
				t.Fatalf("SubmitAnswer: %v", err)
			}
		}
		return id
	}

	t.Run("pass outcome on completed session", func(t *testing.T) {
		env := newTestEnv(t, "job-1", nil)
		id := completeActual(t, env)
		rec, err := env.engine.CompleteEvaluation(ctx, id, datatypes.EvaluationResult{
			Outcome: datatypes.OutcomePass,
			Summary: "strong fundamentals",
		})
		if err != nil {
			t.Fatalf("CompleteEvaluation: %v", err)
		}
		if rec.Status != datatypes.StatusEvaluated {
			t.Fatalf("status = %s, want EVALUATED", rec.Status)
		}
		if rec.Evaluation == nil || rec.Evaluation.Outcome != datatypes.OutcomePass {
			t.Error("evaluation result not recorded")
		}
	})

	t.Run("pending outcome rejected", func(t *testing.T) {
		env := newTestEnv(t, "job-1", nil)
		id := completeActual(t, env)
		_, err := env.engine.CompleteEvaluation(ctx, id, datatypes.EvaluationResult{
			Outcome: datatypes.OutcomePending,
		})
		if !errors.Is(err, ErrInvalidOutcome) {
			t.Fatalf("err = %v, want ErrInvalidOutcome", err)
		}
	})

	t.Run("interrupted actual with partial policy evaluates", func(t *testing.T) {
		env := newTestEnv(t, "job-1", nil)
		id := env.startInProgress(t, "job-1", datatypes.ModeActual)
		if _, err := env.engine.SubmitAnswer(ctx, id, "a"); err != nil {
			t.Fatalf("SubmitAnswer: %v", err)
		}
		if _, err := env.engine.Interrupt(ctx, id, "dropped"); err != nil {
			t.Fatalf("Interrupt: %v", err)
		}
		rec, err := env.engine.CompleteEvaluation(ctx, id, datatypes.EvaluationResult{
			Outcome: datatypes.OutcomeFail,
		})
		if err != nil {
			t.Fatalf("CompleteEvaluation: %v", err)
		}
		if rec.Status != datatypes.StatusEvaluated {
			t.Fatalf("status = %s, want EVALUATED", rec.Status)
		}
	})

	t.Run("interrupted actual with exclude policy rejected", func(t *testing.T) {
		env := newTestEnv(t, "job-1", func(d *policy.Draft) {
			d.InterruptedEvaluation = datatypes.EvaluateExclude
		})
		id := env.startInProgress(t, "job-1", datatypes.ModeActual)
		if _, err := env.engine.Interrupt(ctx, id, "dropped"); err != nil {
			t.Fatalf("Interrupt: %v", err)
		}
		_, err := env.engine.CompleteEvaluation(ctx, id, datatypes.EvaluationResult{
			Outcome: datatypes.OutcomeFail,
		})
		if !errors.Is(err, ErrPolicyViolation) {
			t.Fatalf("err = %v, want ErrPolicyViolation", err)
		}
	})
}

func TestCommandFailsFastWhenLocked(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "job-1", nil)
	id := env.startInProgress(t, "job-1", datatypes.ModeActual)

	token, err := env.guard.TryAcquire(ctx, id)
	if err != nil {
		t.Fatalf("TryAcquire: %v", err)
	}
	defer env.guard.Release(ctx, token)

	start := time.Now()
	_, err = env.engine.SubmitAnswer(ctx, id, "blocked")
	elapsed := time.Since(start)

	if !errors.Is(err, lock.ErrLocked) {
		t.Fatalf("err = %v, want ErrLocked", err)
	}
	if elapsed > 100*time.Millisecond {
		t.Errorf("rejection took %v, want immediate fail-fast", elapsed)
	}
}

func TestCommandsOnDifferentSessionsIndependent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "job-1", nil)
	a := env.startInProgress(t, "job-1", datatypes.ModeActual)
	b := env.startInProgress(t, "job-1", datatypes.ModeActual)

	token, err := env.guard.TryAcquire(ctx, a)
	if err != nil {
		t.Fatalf("TryAcquire: %v", err)
	}
	defer env.guard.Release(ctx, token)

	if _, err := env.engine.SubmitAnswer(ctx, b, "fine"); err != nil {
		t.Fatalf("session b blocked by session a's lock: %v", err)
	}
}

func TestRejectedCommandLeavesNoPartialState(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, "job-1", nil)
	id := env.startInProgress(t, "job-1", datatypes.ModeActual)

	before, err := env.engine.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}

	// Resume against IN_PROGRESS is an invalid transition.
	if _, err := env.engine.Resume(ctx, id); !errors.Is(err, ErrPolicyViolation) {
		t.Fatalf("err = %v, want ErrPolicyViolation", err)
	}

	after, err := env.engine.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Error("rejected command persisted a mutation")
	}
}
