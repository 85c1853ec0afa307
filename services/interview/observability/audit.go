// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mockhire/mockhire/pkg/audit"
	"github.com/mockhire/mockhire/services/interview/engine"
)

// AuditSink forwards engine lifecycle events to the audit trail, then
// chains to the next sink. Events carry identifiers only, so nothing
// candidate-authored reaches the trail.
type AuditSink struct {
	Auditor audit.Auditor
	Next    engine.EventSink
}

// Emit implements engine.EventSink.
func (s *AuditSink) Emit(ev engine.Event) {
	if s.Auditor != nil {
		s.Auditor.Record(context.Background(), audit.Event{
			EventType:    auditType(ev.Type),
			Timestamp:    ev.At,
			Actor:        "engine",
			ResourceType: "session",
			ResourceID:   ev.SessionID,
			Outcome:      "success",
			Metadata: map[string]any{
				"mode":           string(ev.Mode),
				"question_index": ev.QuestionIndex,
			},
		})
	}
	if s.Next != nil {
		s.Next.Emit(ev)
	}
}

// AuditMiddleware records every mutating HTTP request after it finishes.
// Reads are not audited; the trail covers writes to policies, sessions,
// and the question bank. The actor is taken from the X-Actor header when
// present, the convention used by the recruiter dashboard's gateway.
func AuditMiddleware(auditor audit.Auditor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		c.Next()

		actor := c.GetHeader("X-Actor")
		if actor == "" {
			actor = "anonymous"
		}
		outcome := "success"
		switch {
		case c.Writer.Status() >= 500:
			outcome = "error"
		case c.Writer.Status() >= 400:
			outcome = "rejected"
		}
		auditor.Record(c.Request.Context(), audit.Event{
			EventType: "http." + c.Request.Method,
			Timestamp: time.Now().UTC(),
			Actor:     actor,
			// FullPath keeps the route template, not candidate-supplied
			// path values.
			ResourceType: c.FullPath(),
			ResourceID:   c.Param("sessionId") + c.Param("policyId") + c.Param("entryId"),
			Outcome:      outcome,
			Metadata:     map[string]any{"status": c.Writer.Status()},
		})
	}
}

func auditType(t engine.EventType) string {
	switch t {
	case engine.EventSessionCompleted:
		return "session.complete"
	case engine.EventSessionInterrupted:
		return "session.interrupt"
	case engine.EventSilenceWarning:
		return "session.silence_warning"
	default:
		return "session." + string(t)
	}
}
