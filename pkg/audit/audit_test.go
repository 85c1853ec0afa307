// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAuditorRecordsAndFilters(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryAuditor()

	a.Record(ctx, Event{EventType: "session.start", ResourceID: "s-1", Outcome: "success"})
	a.Record(ctx, Event{EventType: "session.interrupt", ResourceID: "s-1", Outcome: "success"})
	a.Record(ctx, Event{EventType: "session.start", ResourceID: "s-2", Outcome: "success"})

	assert.Len(t, a.Events(), 3)

	starts := a.ByType("session.start")
	require.Len(t, starts, 2)
	assert.Equal(t, "s-1", starts[0].ResourceID)
	assert.Equal(t, "s-2", starts[1].ResourceID)
	assert.False(t, starts[0].Timestamp.IsZero(), "zero timestamp must be filled at record time")
}

func TestMemoryAuditorReturnsCopies(t *testing.T) {
	a := NewMemoryAuditor()
	a.Record(context.Background(), Event{EventType: "policy.publish", ResourceID: "job-1"})

	got := a.Events()
	got[0].ResourceID = "tampered"
	assert.Equal(t, "job-1", a.Events()[0].ResourceID,
		"mutating a returned slice must not affect stored events")
}

func TestSlogAuditorEmitsStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	a := NewSlogAuditor(logger)

	a.Record(context.Background(), Event{
		EventType:    "session.evaluate",
		Actor:        "evaluator",
		ResourceType: "session",
		ResourceID:   "s-1",
		Outcome:      "success",
		Metadata:     map[string]any{"outcome": "PASS"},
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "audit", entry["msg"])
	assert.Equal(t, "session.evaluate", entry["event_type"])
	assert.Equal(t, "s-1", entry["resource_id"])
	assert.Equal(t, "success", entry["outcome"])
}

func TestNopAuditorIsSilent(t *testing.T) {
	var a Auditor = NopAuditor{}
	a.Record(context.Background(), Event{EventType: "session.start"})
	assert.NoError(t, a.Flush(context.Background()))
}
