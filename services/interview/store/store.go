// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package store persists the interview aggregates: session records, job
// policies, policy snapshots, and question-bank entries.
//
// The Repository interface is the logical shape required by the
// orchestration core; the physical technology behind it is an
// implementation choice. Two backends are provided: an in-memory map store
// for tests and single-process development, and an embedded BadgerDB
// store for durable deployments.
//
// Soft delete is the only delete: question-bank entries are tombstoned,
// never removed, so historical sessions that copied their text stay
// auditable.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/mockhire/mockhire/services/interview/datatypes"
)

// Sentinel errors for the store package.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrClosed indicates the store has been closed.
	ErrClosed = errors.New("store is closed")
)

// Repository is the persistence contract consumed by the orchestration
// core.
//
// Thread Safety:
//
//	Implementations must be safe for concurrent use. Reads return deep
//	copies; callers never observe shared mutable state.
type Repository interface {
	// SaveSession persists a session record, replacing any prior version.
	SaveSession(ctx context.Context, rec *datatypes.SessionRecord) error

	// GetSession loads a session by id. Returns ErrNotFound if absent.
	GetSession(ctx context.Context, id string) (*datatypes.SessionRecord, error)

	// ListSessionsByJob returns every session for a job, active and
	// archived alike, in unspecified order.
	ListSessionsByJob(ctx context.Context, jobID string) ([]*datatypes.SessionRecord, error)

	// SavePolicy persists a job policy.
	SavePolicy(ctx context.Context, p *datatypes.JobPolicy) error

	// GetPolicy loads a job policy by id. Returns ErrNotFound if absent.
	GetPolicy(ctx context.Context, id string) (*datatypes.JobPolicy, error)

	// SaveSnapshot persists the publish-time snapshot for a policy.
	SaveSnapshot(ctx context.Context, snap *datatypes.JobPolicySnapshot) error

	// GetSnapshot loads the snapshot for a policy id. Returns
	// ErrNotFound if the policy was never published.
	GetSnapshot(ctx context.Context, policyID string) (*datatypes.JobPolicySnapshot, error)

	// SaveBankEntry persists a question-bank entry.
	SaveBankEntry(ctx context.Context, e *datatypes.QuestionBankEntry) error

	// GetBankEntry loads an entry by id regardless of tombstone status.
	// Returns ErrNotFound if absent.
	GetBankEntry(ctx context.Context, id string) (*datatypes.QuestionBankEntry, error)

	// ListBankEntries returns every entry, tombstoned ones included.
	// Callers apply status filtering.
	ListBankEntries(ctx context.Context) ([]*datatypes.QuestionBankEntry, error)

	// SoftDeleteBankEntry tombstones an entry. Returns ErrNotFound if
	// absent. There is no hard-delete operation.
	SoftDeleteBankEntry(ctx context.Context, id string, at time.Time) error
}
