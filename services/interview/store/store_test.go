// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mockhire/mockhire/services/interview/datatypes"
)

// Both backends satisfy one Repository contract, so the suite runs
// against each.
func repositories(t *testing.T) map[string]Repository {
	t.Helper()

	bdg, err := OpenBadgerInMemory()
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = bdg.Close() })

	return map[string]Repository{
		"memory": NewMemoryRepository(),
		"badger": bdg,
	}
}

func sampleSession(id, jobID string) *datatypes.SessionRecord {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &datatypes.SessionRecord{
		ID:           id,
		JobID:        jobID,
		CandidateRef: "cand-1",
		Status:       datatypes.StatusInProgress,
		Config: datatypes.SessionConfig{
			PolicyID:      jobID,
			PolicyVersion: "v1",
			Mode:          datatypes.ModeActual,
			MinQuestions:  2,
			MaxQuestions:  5,
		},
		Questions: []datatypes.SessionQuestion{
			{Index: 0, Text: "q0", Source: datatypes.SourceStatic, Resolved: true,
				ResolvedBy: datatypes.TriggerAnswer, Answer: "a0", AskedAt: now},
		},
		CurrentIndex: 0,
		StartedAt:    &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			rec := sampleSession("s-1", "job-1")
			if err := repo.SaveSession(ctx, rec); err != nil {
				t.Fatalf("SaveSession: %v", err)
			}

			got, err := repo.GetSession(ctx, "s-1")
			if err != nil {
				t.Fatalf("GetSession: %v", err)
			}
			if got.Status != datatypes.StatusInProgress || got.CandidateRef != "cand-1" {
				t.Errorf("loaded session = %+v", got)
			}
			if len(got.Questions) != 1 || got.Questions[0].Answer != "a0" {
				t.Errorf("question log = %+v", got.Questions)
			}
			if got.Config.PolicyVersion != "v1" {
				t.Errorf("config version = %s", got.Config.PolicyVersion)
			}

			if _, err := repo.GetSession(ctx, "nope"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("missing session err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestLoadedSessionIsACopy(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			if err := repo.SaveSession(ctx, sampleSession("s-1", "job-1")); err != nil {
				t.Fatalf("SaveSession: %v", err)
			}

			first, err := repo.GetSession(ctx, "s-1")
			if err != nil {
				t.Fatalf("GetSession: %v", err)
			}
			first.Questions[0].Answer = "tampered"
			first.Status = datatypes.StatusEvaluated

			second, err := repo.GetSession(ctx, "s-1")
			if err != nil {
				t.Fatalf("GetSession: %v", err)
			}
			if second.Questions[0].Answer != "a0" || second.Status != datatypes.StatusInProgress {
				t.Error("mutating a loaded record must not affect stored state")
			}
		})
	}
}

func TestListSessionsByJob(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			for _, rec := range []*datatypes.SessionRecord{
				sampleSession("s-1", "job-1"),
				sampleSession("s-2", "job-1"),
				sampleSession("s-3", "job-2"),
			} {
				if err := repo.SaveSession(ctx, rec); err != nil {
					t.Fatalf("SaveSession: %v", err)
				}
			}

			got, err := repo.ListSessionsByJob(ctx, "job-1")
			if err != nil {
				t.Fatalf("ListSessionsByJob: %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("len = %d, want 2", len(got))
			}

			empty, err := repo.ListSessionsByJob(ctx, "job-none")
			if err != nil {
				t.Fatalf("ListSessionsByJob: %v", err)
			}
			if len(empty) != 0 {
				t.Errorf("unknown job returned %d sessions", len(empty))
			}
		})
	}
}

func TestSaveSessionReplaces(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			rec := sampleSession("s-1", "job-1")
			if err := repo.SaveSession(ctx, rec); err != nil {
				t.Fatalf("SaveSession: %v", err)
			}

			rec.Status = datatypes.StatusCompleted
			if err := repo.SaveSession(ctx, rec); err != nil {
				t.Fatalf("SaveSession replace: %v", err)
			}

			got, err := repo.GetSession(ctx, "s-1")
			if err != nil {
				t.Fatalf("GetSession: %v", err)
			}
			if got.Status != datatypes.StatusCompleted {
				t.Errorf("status = %s, want COMPLETED", got.Status)
			}

			// The job index must not duplicate the rewritten session.
			list, err := repo.ListSessionsByJob(ctx, "job-1")
			if err != nil {
				t.Fatalf("ListSessionsByJob: %v", err)
			}
			if len(list) != 1 {
				t.Errorf("len = %d after rewrite, want 1", len(list))
			}
		})
	}
}

func TestPolicyAndSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			p := &datatypes.JobPolicy{
				ID:                    "job-1",
				Status:                datatypes.PolicyPublished,
				Version:               "v1",
				MinQuestions:          2,
				MaxQuestions:          6,
				QuestionTimeLimit:     time.Minute,
				SilenceTimeout:        20 * time.Second,
				ModelID:               "gpt-4o",
				InterruptedEvaluation: datatypes.EvaluatePartial,
				CreatedAt:             time.Now(),
			}
			if err := repo.SavePolicy(ctx, p); err != nil {
				t.Fatalf("SavePolicy: %v", err)
			}
			got, err := repo.GetPolicy(ctx, "job-1")
			if err != nil {
				t.Fatalf("GetPolicy: %v", err)
			}
			if got.Version != "v1" || got.MaxQuestions != 6 {
				t.Errorf("policy = %+v", got)
			}

			snap := &datatypes.JobPolicySnapshot{
				PolicyID:      "job-1",
				PolicyVersion: "v1",
				MinQuestions:  2,
				MaxQuestions:  6,
				TakenAt:       time.Now(),
			}
			if err := repo.SaveSnapshot(ctx, snap); err != nil {
				t.Fatalf("SaveSnapshot: %v", err)
			}
			gotSnap, err := repo.GetSnapshot(ctx, "job-1")
			if err != nil {
				t.Fatalf("GetSnapshot: %v", err)
			}
			if gotSnap.PolicyVersion != "v1" {
				t.Errorf("snapshot = %+v", gotSnap)
			}

			if _, err := repo.GetPolicy(ctx, "nope"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("missing policy err = %v", err)
			}
			if _, err := repo.GetSnapshot(ctx, "nope"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("missing snapshot err = %v", err)
			}
		})
	}
}

func TestLoadedSnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			snap := &datatypes.JobPolicySnapshot{
				PolicyID:      "job-1",
				PolicyVersion: "v1",
				EvaluationWeights: map[string]datatypes.WeightRange{
					"technical": {Min: 0.4, Max: 0.6},
				},
				RequiredQuestionIDs: []string{"q-1"},
				Tags:                []string{"backend"},
				TakenAt:             time.Now(),
			}
			if err := repo.SaveSnapshot(ctx, snap); err != nil {
				t.Fatalf("SaveSnapshot: %v", err)
			}

			// Mutating what the caller saved or loaded must not reach
			// the stored snapshot.
			snap.EvaluationWeights["technical"] = datatypes.WeightRange{Min: 0, Max: 1}
			first, err := repo.GetSnapshot(ctx, "job-1")
			if err != nil {
				t.Fatalf("GetSnapshot: %v", err)
			}
			first.EvaluationWeights["technical"] = datatypes.WeightRange{Min: 0, Max: 1}
			first.RequiredQuestionIDs[0] = "tampered"
			first.Tags[0] = "tampered"

			got, err := repo.GetSnapshot(ctx, "job-1")
			if err != nil {
				t.Fatalf("GetSnapshot: %v", err)
			}
			if w := got.EvaluationWeights["technical"]; w.Min != 0.4 || w.Max != 0.6 {
				t.Errorf("weights = %+v, want the values stored at save time", w)
			}
			if got.RequiredQuestionIDs[0] != "q-1" || got.Tags[0] != "backend" {
				t.Errorf("required = %q tags = %q, want untouched",
					got.RequiredQuestionIDs[0], got.Tags[0])
			}
		})
	}
}

func TestBankEntrySoftDelete(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			e := &datatypes.QuestionBankEntry{
				ID:        "q-1",
				Text:      "Describe a production incident you handled.",
				Tags:      []string{"behavioral"},
				Status:    datatypes.BankEntryActive,
				CreatedAt: time.Now(),
			}
			if err := repo.SaveBankEntry(ctx, e); err != nil {
				t.Fatalf("SaveBankEntry: %v", err)
			}

			at := time.Now()
			if err := repo.SoftDeleteBankEntry(ctx, "q-1", at); err != nil {
				t.Fatalf("SoftDeleteBankEntry: %v", err)
			}

			// Tombstoned entries stay retrievable by id.
			got, err := repo.GetBankEntry(ctx, "q-1")
			if err != nil {
				t.Fatalf("GetBankEntry after delete: %v", err)
			}
			if got.Status != datatypes.BankEntryDeleted || got.DeletedAt == nil {
				t.Errorf("entry after delete = %+v", got)
			}
			if got.Text == "" {
				t.Error("tombstone must keep the text for audit")
			}

			all, err := repo.ListBankEntries(ctx)
			if err != nil {
				t.Fatalf("ListBankEntries: %v", err)
			}
			if len(all) != 1 {
				t.Errorf("len = %d, want tombstoned entry listed", len(all))
			}

			if err := repo.SoftDeleteBankEntry(ctx, "nope", at); !errors.Is(err, ErrNotFound) {
				t.Fatalf("delete missing err = %v, want ErrNotFound", err)
			}
		})
	}
}
