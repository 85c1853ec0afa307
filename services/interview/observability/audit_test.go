// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mockhire/mockhire/pkg/audit"
	"github.com/mockhire/mockhire/services/interview/datatypes"
	"github.com/mockhire/mockhire/services/interview/engine"
)

type captureSink struct {
	events []engine.Event
}

func (s *captureSink) Emit(ev engine.Event) {
	s.events = append(s.events, ev)
}

func TestAuditSinkRecordsAndChains(t *testing.T) {
	auditor := audit.NewMemoryAuditor()
	next := &captureSink{}
	sink := &AuditSink{Auditor: auditor, Next: next}

	sink.Emit(engine.Event{
		Type:          engine.EventSessionInterrupted,
		SessionID:     "s-1",
		Mode:          datatypes.ModeActual,
		QuestionIndex: 2,
		At:            time.Now(),
	})

	events := auditor.ByType("session.interrupt")
	if len(events) != 1 {
		t.Fatalf("audit events = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.ResourceID != "s-1" || ev.Actor != "engine" {
		t.Errorf("event = %+v", ev)
	}
	if ev.Metadata["mode"] != "ACTUAL" {
		t.Errorf("metadata = %v", ev.Metadata)
	}
	if len(next.events) != 1 {
		t.Error("sink must chain to the next sink")
	}
}

func TestAuditMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auditor := audit.NewMemoryAuditor()

	router := gin.New()
	router.Use(AuditMiddleware(auditor))
	router.GET("/v1/policies/:policyId", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/v1/policies/:policyId/publish", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/v1/sessions", func(c *gin.Context) { c.Status(http.StatusConflict) })

	// Reads leave no trail.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/policies/job-1", nil))
	if got := len(auditor.Events()); got != 0 {
		t.Fatalf("GET recorded %d events, want 0", got)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/policies/job-1/publish", nil)
	req.Header.Set("X-Actor", "recruiter-7")
	router.ServeHTTP(w, req)

	events := auditor.Events()
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if events[0].Actor != "recruiter-7" || events[0].ResourceID != "job-1" {
		t.Errorf("event = %+v", events[0])
	}
	if events[0].Outcome != "success" {
		t.Errorf("outcome = %s", events[0].Outcome)
	}

	// A 4xx is recorded as rejected with an anonymous actor.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/sessions", nil))
	events = auditor.Events()
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[1].Outcome != "rejected" || events[1].Actor != "anonymous" {
		t.Errorf("event = %+v", events[1])
	}
}
