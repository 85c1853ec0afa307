// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lock

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryGuard is a map-backed Guard for single-process deployments.
//
// Thread Safety:
//
//	MemoryGuard is safe for concurrent use. The critical section is a
//	single map operation, so TryAcquire completes in constant time
//	whether or not the lock is held.
type MemoryGuard struct {
	mu      sync.Mutex
	holders map[string]string
}

// NewMemoryGuard creates an empty in-memory guard.
func NewMemoryGuard() *MemoryGuard {
	return &MemoryGuard{holders: make(map[string]string)}
}

// TryAcquire implements Guard.
func (g *MemoryGuard) TryAcquire(_ context.Context, sessionID string) (Token, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, held := g.holders[sessionID]; held {
		return Token{}, fmt.Errorf("%w: session %s", ErrLocked, sessionID)
	}
	id := uuid.NewString()
	g.holders[sessionID] = id
	return Token{SessionID: sessionID, ID: id}, nil
}

// Release implements Guard.
func (g *MemoryGuard) Release(_ context.Context, token Token) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	holder, held := g.holders[token.SessionID]
	if !held || holder != token.ID {
		return fmt.Errorf("%w: session %s", ErrInvalidToken, token.SessionID)
	}
	delete(g.holders, token.SessionID)
	return nil
}
