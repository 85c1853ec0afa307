// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package engine

import (
	"log/slog"
	"time"

	"github.com/mockhire/mockhire/services/interview/datatypes"
)

// EventType labels an engine event.
type EventType string

const (
	// EventSilenceWarning is emitted before auto-advancing on
	// post-answer silence. Never emitted for no-answer silence.
	EventSilenceWarning EventType = "silence_warning"

	// EventSessionCompleted is emitted when a session reaches COMPLETED.
	EventSessionCompleted EventType = "session_completed"

	// EventSessionInterrupted is emitted when a session is interrupted.
	EventSessionInterrupted EventType = "session_interrupted"
)

// Event is a notification emitted by the engine for downstream consumers
// (client UIs, audit, alerting).
type Event struct {
	Type          EventType               `json:"type"`
	SessionID     string                  `json:"session_id"`
	Mode          datatypes.InterviewMode `json:"mode"`
	QuestionIndex int                     `json:"question_index"`
	At            time.Time               `json:"at"`
}

// EventSink receives engine events. Emit must not block the command path.
type EventSink interface {
	Emit(ev Event)
}

// LogSink is the default sink: it writes events to the structured log.
type LogSink struct {
	Logger *slog.Logger
}

// Emit implements EventSink.
func (s *LogSink) Emit(ev Event) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("session event",
		"event", string(ev.Type),
		"session_id", ev.SessionID,
		"question_index", ev.QuestionIndex)
}
