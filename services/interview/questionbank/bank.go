// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package questionbank is the soft-deletable catalog of static interview
// questions.
//
// The bank is a passive candidate supplier: it answers queries and
// signals plain success or failure, never policy judgments. Deleting an
// entry only sets a tombstone; the entry disappears from new candidate
// queries but stays retrievable by id so historical sessions that copied
// its text remain auditable. No hard-delete path exists.
package questionbank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mockhire/mockhire/services/interview/datatypes"
	"github.com/mockhire/mockhire/services/interview/store"
)

// Sentinel errors for the questionbank package.
var (
	// ErrNotFound indicates the requested entry does not exist.
	ErrNotFound = errors.New("question bank entry not found")

	// ErrEmptyText indicates an attempt to add an entry with no text.
	ErrEmptyText = errors.New("question text must not be empty")
)

// Bank manages the question catalog on top of a Repository.
//
// Thread Safety:
//
//	Bank is safe for concurrent use; it holds no state beyond the
//	repository handle.
type Bank struct {
	repo   store.Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewBank creates a question bank over the given repository.
func NewBank(repo store.Repository, logger *slog.Logger) *Bank {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bank{repo: repo, logger: logger, now: time.Now}
}

// Add creates an active entry with the given text and tags.
func (b *Bank) Add(ctx context.Context, text string, tags []string) (*datatypes.QuestionBankEntry, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	e := &datatypes.QuestionBankEntry{
		ID:        uuid.NewString(),
		Text:      text,
		Tags:      tags,
		Status:    datatypes.BankEntryActive,
		CreatedAt: b.now(),
	}
	if err := b.repo.SaveBankEntry(ctx, e); err != nil {
		return nil, fmt.Errorf("save bank entry: %w", err)
	}
	return e.Clone(), nil
}

// Get retrieves an entry by id regardless of tombstone status, so audits
// of historical sessions keep working after a delete.
func (b *Bank) Get(ctx context.Context, id string) (*datatypes.QuestionBankEntry, error) {
	e, err := b.repo.GetBankEntry(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return e, nil
}

// SoftDelete tombstones an entry. Idempotent: deleting a deleted entry
// succeeds without changing its original DeletedAt.
func (b *Bank) SoftDelete(ctx context.Context, id string) error {
	e, err := b.Get(ctx, id)
	if err != nil {
		return err
	}
	if e.Status == datatypes.BankEntryDeleted {
		return nil
	}
	if err := b.repo.SoftDeleteBankEntry(ctx, id, b.now()); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return err
	}
	b.logger.Info("bank entry soft-deleted", "entry_id", id)
	return nil
}

// Candidates returns active entries matching the policy tags, excluding
// ids already used in the session.
//
// Description:
//
//	Tag matching is any-overlap: an entry qualifies when it shares at
//	least one tag with the policy, or when the policy has no tags at
//	all. Tombstoned entries never appear, which is what makes soft
//	delete non-retroactive: old sessions keep their copied text while
//	new candidate sets move on.
//
// Inputs:
//
//	tags - Policy tags steering selection. Empty means any entry.
//	exclude - Entry ids already served in the session.
//
// Outputs:
//
//	[]*datatypes.QuestionBankEntry - Matching active entries, possibly
//	empty. An empty result is a plain signal, not an error.
func (b *Bank) Candidates(ctx context.Context, tags []string, exclude map[string]bool) ([]*datatypes.QuestionBankEntry, error) {
	entries, err := b.repo.ListBankEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bank entries: %w", err)
	}

	var out []*datatypes.QuestionBankEntry
	for _, e := range entries {
		if e.Status != datatypes.BankEntryActive {
			continue
		}
		if exclude[e.ID] {
			continue
		}
		if len(tags) > 0 && !hasOverlap(e.Tags, tags) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func hasOverlap(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
