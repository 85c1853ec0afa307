// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"fmt"

	"github.com/mockhire/mockhire/services/interview/datatypes"
)

// StateMachine enforces the session lifecycle transition graph:
//
//	APPLIED     → IN_PROGRESS   : begin (one-shot)
//	IN_PROGRESS → COMPLETED     : all questions done or valid early exit
//	IN_PROGRESS → INTERRUPTED   : interrupt (terminal for Actual mode)
//	INTERRUPTED → IN_PROGRESS   : resume (Practice mode only)
//	COMPLETED   → EVALUATED     : evaluate (terminal)
//	INTERRUPTED → EVALUATED     : evaluate (terminal)
//
// EVALUATED is always terminal. Any transition not in the graph is
// rejected with ErrPolicyViolation; mode-dependent rules (Practice-only
// resume) are enforced by the engine on top of the graph.
//
// Thread Safety:
//
//	StateMachine is immutable after construction and safe for
//	concurrent use.
type StateMachine struct {
	transitions map[datatypes.SessionStatus]map[datatypes.SessionStatus]bool
}

// NewStateMachine creates the state machine with all valid transitions.
func NewStateMachine() *StateMachine {
	sm := &StateMachine{
		transitions: make(map[datatypes.SessionStatus]map[datatypes.SessionStatus]bool),
	}
	for _, s := range datatypes.AllSessionStatuses() {
		sm.transitions[s] = make(map[datatypes.SessionStatus]bool)
	}

	sm.addTransition(datatypes.StatusApplied, datatypes.StatusInProgress)
	sm.addTransition(datatypes.StatusInProgress, datatypes.StatusCompleted)
	sm.addTransition(datatypes.StatusInProgress, datatypes.StatusInterrupted)
	sm.addTransition(datatypes.StatusInterrupted, datatypes.StatusInProgress)
	sm.addTransition(datatypes.StatusCompleted, datatypes.StatusEvaluated)
	sm.addTransition(datatypes.StatusInterrupted, datatypes.StatusEvaluated)

	return sm
}

func (sm *StateMachine) addTransition(from, to datatypes.SessionStatus) {
	sm.transitions[from][to] = true
}

// CanTransition checks whether from -> to is in the graph.
func (sm *StateMachine) CanTransition(from, to datatypes.SessionStatus) bool {
	if toMap, ok := sm.transitions[from]; ok {
		return toMap[to]
	}
	return false
}

// Transition moves a record to the target status or fails with
// ErrPolicyViolation, leaving the record untouched.
func (sm *StateMachine) Transition(rec *datatypes.SessionRecord, to datatypes.SessionStatus) error {
	if !sm.CanTransition(rec.Status, to) {
		return fmt.Errorf("%w: invalid transition %s -> %s", ErrPolicyViolation, rec.Status, to)
	}
	rec.Status = to
	return nil
}

// ValidTransitionsFrom returns all valid target statuses from a state.
func (sm *StateMachine) ValidTransitionsFrom(from datatypes.SessionStatus) []datatypes.SessionStatus {
	var out []datatypes.SessionStatus
	for to, ok := range sm.transitions[from] {
		if ok {
			out = append(out, to)
		}
	}
	return out
}
