// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"sync"
	"time"

	"github.com/mockhire/mockhire/services/interview/datatypes"
)

// MemoryRepository is a map-backed Repository for tests and
// single-process development.
//
// Thread Safety:
//
//	MemoryRepository is safe for concurrent use. All reads and writes
//	deep-copy, so callers never share memory with the store.
type MemoryRepository struct {
	mu        sync.RWMutex
	sessions  map[string]*datatypes.SessionRecord
	policies  map[string]*datatypes.JobPolicy
	snapshots map[string]*datatypes.JobPolicySnapshot
	bank      map[string]*datatypes.QuestionBankEntry
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions:  make(map[string]*datatypes.SessionRecord),
		policies:  make(map[string]*datatypes.JobPolicy),
		snapshots: make(map[string]*datatypes.JobPolicySnapshot),
		bank:      make(map[string]*datatypes.QuestionBankEntry),
	}
}

// SaveSession persists a deep copy of the record.
func (m *MemoryRepository) SaveSession(_ context.Context, rec *datatypes.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[rec.ID] = rec.Clone()
	return nil
}

// GetSession loads a session by id.
func (m *MemoryRepository) GetSession(_ context.Context, id string) (*datatypes.SessionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

// ListSessionsByJob returns copies of every session for the job.
func (m *MemoryRepository) ListSessionsByJob(_ context.Context, jobID string) ([]*datatypes.SessionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*datatypes.SessionRecord
	for _, rec := range m.sessions {
		if rec.JobID == jobID {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

// SavePolicy persists a deep copy of the policy.
func (m *MemoryRepository) SavePolicy(_ context.Context, p *datatypes.JobPolicy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.policies[p.ID] = p.Clone()
	return nil
}

// GetPolicy loads a policy by id.
func (m *MemoryRepository) GetPolicy(_ context.Context, id string) (*datatypes.JobPolicy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.policies[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

// SaveSnapshot persists a deep copy of the publish-time snapshot.
func (m *MemoryRepository) SaveSnapshot(_ context.Context, snap *datatypes.JobPolicySnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[snap.PolicyID] = snap.Clone()
	return nil
}

// GetSnapshot loads the snapshot for a policy id.
func (m *MemoryRepository) GetSnapshot(_ context.Context, policyID string) (*datatypes.JobPolicySnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap, ok := m.snapshots[policyID]
	if !ok {
		return nil, ErrNotFound
	}
	return snap.Clone(), nil
}

// SaveBankEntry persists a deep copy of the entry.
func (m *MemoryRepository) SaveBankEntry(_ context.Context, e *datatypes.QuestionBankEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bank[e.ID] = e.Clone()
	return nil
}

// GetBankEntry loads an entry by id regardless of tombstone status.
func (m *MemoryRepository) GetBankEntry(_ context.Context, id string) (*datatypes.QuestionBankEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.bank[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e.Clone(), nil
}

// ListBankEntries returns copies of every entry.
func (m *MemoryRepository) ListBankEntries(_ context.Context) ([]*datatypes.QuestionBankEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*datatypes.QuestionBankEntry, 0, len(m.bank))
	for _, e := range m.bank {
		out = append(out, e.Clone())
	}
	return out, nil
}

// SoftDeleteBankEntry tombstones an entry in place.
func (m *MemoryRepository) SoftDeleteBankEntry(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.bank[id]
	if !ok {
		return ErrNotFound
	}
	e.Status = datatypes.BankEntryDeleted
	e.DeletedAt = &at
	return nil
}
