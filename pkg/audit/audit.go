// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package audit records security-relevant events for compliance.
//
// Interview sessions carry hiring decisions, so every lifecycle mutation
// (policy publish, session start, interruption, evaluation) produces an
// audit event. Events carry identifiers only: no question texts, no
// answers, no evaluation payloads.
//
// # Event Types
//
// Events are named "category.action" for filtering:
//   - Policy: "policy.publish", "policy.close"
//   - Session: "session.start", "session.complete", "session.interrupt",
//     "session.resume", "session.evaluate"
//   - Bank: "bank.add", "bank.delete"
//
// # Thread Safety
//
// All Auditor implementations must be safe for concurrent use.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Event is one security-relevant occurrence.
type Event struct {
	// EventType categorizes the event, formatted "category.action".
	EventType string `json:"event_type"`

	// Timestamp is when the event occurred, in UTC. Recorders fill a
	// zero timestamp with the current time.
	Timestamp time.Time `json:"timestamp"`

	// Actor identifies who performed the action. "engine" for
	// timer-driven mutations, "anonymous" when unauthenticated.
	Actor string `json:"actor"`

	// ResourceType is the aggregate involved: "policy", "session",
	// "bank_entry".
	ResourceType string `json:"resource_type"`

	// ResourceID is the specific aggregate instance.
	ResourceID string `json:"resource_id"`

	// Outcome is "success", "rejected", or "error".
	Outcome string `json:"outcome"`

	// Metadata holds event-specific identifiers. Never raw content.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Auditor records audit events.
type Auditor interface {
	// Record persists one event. Implementations should be fast or
	// asynchronous; a slow auditor delays session commands.
	Record(ctx context.Context, ev Event)

	// Flush persists anything buffered. Called on shutdown.
	Flush(ctx context.Context) error
}

// NopAuditor discards every event. The default for local development.
type NopAuditor struct{}

// Record discards the event.
func (NopAuditor) Record(context.Context, Event) {}

// Flush is a no-op.
func (NopAuditor) Flush(context.Context) error { return nil }

// SlogAuditor writes events to a structured logger, which routes them
// into the service log stream where retention policy already applies.
type SlogAuditor struct {
	logger *slog.Logger
}

// NewSlogAuditor creates an auditor over the given logger. A nil logger
// uses slog.Default.
func NewSlogAuditor(logger *slog.Logger) *SlogAuditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAuditor{logger: logger}
}

// Record implements Auditor.
func (a *SlogAuditor) Record(ctx context.Context, ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	a.logger.InfoContext(ctx, "audit",
		"event_type", ev.EventType,
		"actor", ev.Actor,
		"resource_type", ev.ResourceType,
		"resource_id", ev.ResourceID,
		"outcome", ev.Outcome,
		"metadata", ev.Metadata)
}

// Flush implements Auditor. Slog handlers flush on write.
func (a *SlogAuditor) Flush(context.Context) error { return nil }

// MemoryAuditor keeps events in memory. For tests and for the local
// single-process deployment where an operator inspects the trail through
// the process itself.
type MemoryAuditor struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryAuditor creates an empty in-memory auditor.
func NewMemoryAuditor() *MemoryAuditor {
	return &MemoryAuditor{}
}

// Record implements Auditor.
func (a *MemoryAuditor) Record(_ context.Context, ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

// Flush implements Auditor.
func (a *MemoryAuditor) Flush(context.Context) error { return nil }

// Events returns a copy of everything recorded so far, oldest first.
func (a *MemoryAuditor) Events() []Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Event, len(a.events))
	copy(out, a.events)
	return out
}

// ByType returns recorded events of one type, oldest first.
func (a *MemoryAuditor) ByType(eventType string) []Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []Event
	for _, ev := range a.events {
		if ev.EventType == eventType {
			out = append(out, ev)
		}
	}
	return out
}

var (
	_ Auditor = NopAuditor{}
	_ Auditor = (*SlogAuditor)(nil)
	_ Auditor = (*MemoryAuditor)(nil)
)
