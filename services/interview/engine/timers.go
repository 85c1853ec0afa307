// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"sync"
	"time"
)

// timerRegistry tracks the single-shot, cancellable timers armed per
// question index. For any session, cancellation for a resolved index runs
// inside the command that resolved it, while the session lock is still
// held, so a stale timer can never fire after a later command observes
// the session.
//
// Thread Safety:
//
//	timerRegistry is safe for concurrent use.
type timerRegistry struct {
	mu     sync.Mutex
	timers map[string]map[int][]*time.Timer
}

func newTimerRegistry() *timerRegistry {
	return &timerRegistry{timers: make(map[string]map[int][]*time.Timer)}
}

// arm schedules fn after d for the given session and question index.
func (r *timerRegistry) arm(sessionID string, index int, d time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byIndex, ok := r.timers[sessionID]
	if !ok {
		byIndex = make(map[int][]*time.Timer)
		r.timers[sessionID] = byIndex
	}
	byIndex[index] = append(byIndex[index], time.AfterFunc(d, fn))
}

// cancelIndex stops every pending timer for one question index.
func (r *timerRegistry) cancelIndex(sessionID string, index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byIndex, ok := r.timers[sessionID]
	if !ok {
		return
	}
	for _, t := range byIndex[index] {
		t.Stop()
	}
	delete(byIndex, index)
	if len(byIndex) == 0 {
		delete(r.timers, sessionID)
	}
}

// cancelSession stops every pending timer for the session.
func (r *timerRegistry) cancelSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, timers := range r.timers[sessionID] {
		for _, t := range timers {
			t.Stop()
		}
	}
	delete(r.timers, sessionID)
}
