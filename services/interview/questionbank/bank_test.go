// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package questionbank

import (
	"context"
	"errors"
	"testing"

	"github.com/mockhire/mockhire/services/interview/datatypes"
	"github.com/mockhire/mockhire/services/interview/store"
)

func newBank(t *testing.T) *Bank {
	t.Helper()
	return NewBank(store.NewMemoryRepository(), nil)
}

func TestAddAndGet(t *testing.T) {
	ctx := context.Background()
	b := newBank(t)

	e, err := b.Add(ctx, "Walk me through a system you designed.", []string{"design"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if e.ID == "" || e.Status != datatypes.BankEntryActive {
		t.Errorf("entry = %+v", e)
	}

	got, err := b.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Text != e.Text {
		t.Errorf("text = %q, want %q", got.Text, e.Text)
	}

	if _, err := b.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing entry err = %v, want ErrNotFound", err)
	}
}

func TestAddRejectsEmptyText(t *testing.T) {
	b := newBank(t)
	if _, err := b.Add(context.Background(), "", nil); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("err = %v, want ErrEmptyText", err)
	}
}

func TestSoftDeleteKeepsEntryRetrievable(t *testing.T) {
	ctx := context.Background()
	b := newBank(t)

	e, err := b.Add(ctx, "Tell me about a conflict on your team.", []string{"behavioral"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.SoftDelete(ctx, e.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	got, err := b.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("Get after delete: %v", err)
	}
	if got.Status != datatypes.BankEntryDeleted || got.DeletedAt == nil {
		t.Errorf("entry after delete = %+v", got)
	}

	// Idempotent: deleting again succeeds and keeps the first DeletedAt.
	first := *got.DeletedAt
	if err := b.SoftDelete(ctx, e.ID); err != nil {
		t.Fatalf("second SoftDelete: %v", err)
	}
	again, _ := b.Get(ctx, e.ID)
	if !again.DeletedAt.Equal(first) {
		t.Error("repeat delete must not move DeletedAt")
	}

	if err := b.SoftDelete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete missing err = %v, want ErrNotFound", err)
	}
}

func TestCandidates(t *testing.T) {
	ctx := context.Background()
	b := newBank(t)

	design, _ := b.Add(ctx, "design question", []string{"design", "backend"})
	behavioral, _ := b.Add(ctx, "behavioral question", []string{"behavioral"})
	untagged, _ := b.Add(ctx, "untagged question", nil)
	deleted, _ := b.Add(ctx, "deleted question", []string{"design"})
	if err := b.SoftDelete(ctx, deleted.ID); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	tests := []struct {
		name    string
		tags    []string
		exclude map[string]bool
		want    map[string]bool
	}{
		{
			name: "no tags matches every active entry",
			want: map[string]bool{design.ID: true, behavioral.ID: true, untagged.ID: true},
		},
		{
			name: "tag overlap",
			tags: []string{"design"},
			want: map[string]bool{design.ID: true},
		},
		{
			name: "multiple policy tags widen the match",
			tags: []string{"design", "behavioral"},
			want: map[string]bool{design.ID: true, behavioral.ID: true},
		},
		{
			name:    "exclusion removes already-served entries",
			tags:    []string{"design"},
			exclude: map[string]bool{design.ID: true},
			want:    map[string]bool{},
		},
		{
			name: "no overlap yields empty without error",
			tags: []string{"frontend"},
			want: map[string]bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Candidates(ctx, tt.tags, tt.exclude)
			if err != nil {
				t.Fatalf("Candidates: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for _, e := range got {
				if !tt.want[e.ID] {
					t.Errorf("unexpected candidate %s (%q)", e.ID, e.Text)
				}
			}
		})
	}
}
