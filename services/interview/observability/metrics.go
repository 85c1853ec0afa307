// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides metrics and instrumentation for the
// interview engine.
//
// # Description
//
// This package implements Prometheus metrics for monitoring session
// orchestration. Metrics include:
//   - Session lifecycle counters (started, completed, interrupted, evaluated)
//   - Question supply counters by strategy tier, with fallback tracking
//   - Resolution counters by trigger (answer, time limit, silence)
//   - Command latency histograms and lock rejection counters
//   - Active session gauges
//
// # Integration
//
// Metrics are exposed via /metrics endpoint. Use with Prometheus + Grafana
// for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mockhire/mockhire/services/interview/engine"
)

// Namespace for all metrics
const metricsNamespace = "mockhire"

// Subsystem for session orchestration metrics
const sessionsSubsystem = "sessions"

// SessionMetrics holds all Prometheus metrics for session orchestration.
//
// # Description
//
// Provides counters, histograms, and gauges for monitoring session
// throughput and question supply health. Initialize once at startup via
// InitMetrics().
//
// # Thread Safety
//
// All operations are thread-safe.
type SessionMetrics struct {
	// SessionsStartedTotal counts created sessions.
	// Labels: mode (ACTUAL, PRACTICE)
	SessionsStartedTotal *prometheus.CounterVec

	// SessionsEndedTotal counts sessions reaching a terminal-ish state.
	// Labels: mode, outcome (completed, interrupted, evaluated)
	SessionsEndedTotal *prometheus.CounterVec

	// QuestionsServedTotal counts questions by supplying tier.
	// Labels: tier (generated, bank, builtin)
	QuestionsServedTotal *prometheus.CounterVec

	// FallbacksTotal counts fallbacks past a failed tier.
	// Labels: tier (generated, bank)
	FallbacksTotal *prometheus.CounterVec

	// ResolutionsTotal counts question resolutions by trigger.
	// Labels: trigger (answer, time_limit, silence_timeout), no_answer
	ResolutionsTotal *prometheus.CounterVec

	// SilenceWarningsTotal counts post-answer silence warnings emitted.
	SilenceWarningsTotal prometheus.Counter

	// LockRejectionsTotal counts commands rejected by the session guard.
	// Labels: command
	LockRejectionsTotal *prometheus.CounterVec

	// CommandDurationSeconds measures command latency end to end.
	// Labels: command, status (success, error)
	CommandDurationSeconds *prometheus.HistogramVec

	// ActiveSessions tracks sessions currently IN_PROGRESS.
	// Labels: mode
	ActiveSessions *prometheus.GaugeVec

	// EvaluationsTotal counts recorded evaluations.
	// Labels: outcome (PASS, FAIL)
	EvaluationsTotal *prometheus.CounterVec
}

// DefaultMetrics is the singleton instance of SessionMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *SessionMetrics

// InitMetrics initializes the default metrics instance.
//
// # Description
//
// Creates and registers all Prometheus metrics. Should be called once
// at application startup, after Prometheus registry is available.
//
// # Limitations
//
//   - Panics if called twice (duplicate registration).
func InitMetrics() *SessionMetrics {
	DefaultMetrics = &SessionMetrics{
		SessionsStartedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: sessionsSubsystem,
				Name:      "started_total",
				Help:      "Total sessions created by interview mode",
			},
			[]string{"mode"},
		),

		SessionsEndedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: sessionsSubsystem,
				Name:      "ended_total",
				Help:      "Total sessions reaching completion, interruption or evaluation",
			},
			[]string{"mode", "outcome"},
		),

		QuestionsServedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: sessionsSubsystem,
				Name:      "questions_served_total",
				Help:      "Total questions served by supplying tier",
			},
			[]string{"tier"},
		),

		FallbacksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: sessionsSubsystem,
				Name:      "question_fallbacks_total",
				Help:      "Total question supply fallbacks past a failed tier",
			},
			[]string{"tier"},
		),

		ResolutionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: sessionsSubsystem,
				Name:      "resolutions_total",
				Help:      "Total question resolutions by trigger",
			},
			[]string{"trigger", "no_answer"},
		),

		SilenceWarningsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: sessionsSubsystem,
				Name:      "silence_warnings_total",
				Help:      "Total post-answer silence warnings emitted",
			},
		),

		LockRejectionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: sessionsSubsystem,
				Name:      "lock_rejections_total",
				Help:      "Total commands rejected because the session lock was held",
			},
			[]string{"command"},
		),

		CommandDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: sessionsSubsystem,
				Name:      "command_duration_seconds",
				Help:      "Session command latency in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"command", "status"},
		),

		ActiveSessions: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: sessionsSubsystem,
				Name:      "active",
				Help:      "Sessions currently in progress",
			},
			[]string{"mode"},
		),

		EvaluationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: sessionsSubsystem,
				Name:      "evaluations_total",
				Help:      "Total recorded evaluation outcomes",
			},
			[]string{"outcome"},
		),
	}

	return DefaultMetrics
}

// RecordCommand records a completed session command.
//
// # Inputs
//
//   - command: The command name (begin, submit_answer, interrupt, ...).
//   - seconds: End-to-end latency.
//   - success: Whether the command was accepted.
func (m *SessionMetrics) RecordCommand(command string, seconds float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.CommandDurationSeconds.WithLabelValues(command, status).Observe(seconds)
}

// RecordLockRejection counts a fail-fast lock rejection.
func (m *SessionMetrics) RecordLockRejection(command string) {
	m.LockRejectionsTotal.WithLabelValues(command).Inc()
}

// RecordQuestionServed counts a served question by tier.
func (m *SessionMetrics) RecordQuestionServed(tier string) {
	m.QuestionsServedTotal.WithLabelValues(tier).Inc()
}

// RecordFallback counts a fallback past the named tier.
func (m *SessionMetrics) RecordFallback(tier string) {
	m.FallbacksTotal.WithLabelValues(tier).Inc()
}

// RecordResolution counts a question resolution.
func (m *SessionMetrics) RecordResolution(trigger string, noAnswer bool) {
	na := "false"
	if noAnswer {
		na = "true"
	}
	m.ResolutionsTotal.WithLabelValues(trigger, na).Inc()
}

// SessionStarted increments the started counter and the active gauge.
func (m *SessionMetrics) SessionStarted(mode string) {
	m.SessionsStartedTotal.WithLabelValues(mode).Inc()
}

// SessionActive adjusts the in-progress gauge by delta.
func (m *SessionMetrics) SessionActive(mode string, delta float64) {
	m.ActiveSessions.WithLabelValues(mode).Add(delta)
}

// SessionEnded counts a session reaching the named outcome.
func (m *SessionMetrics) SessionEnded(mode, outcome string) {
	m.SessionsEndedTotal.WithLabelValues(mode, outcome).Inc()
}

// RecordEvaluation counts an evaluation outcome.
func (m *SessionMetrics) RecordEvaluation(outcome string) {
	m.EvaluationsTotal.WithLabelValues(outcome).Inc()
}

// MetricsSink is an engine.EventSink that mirrors engine events into
// Prometheus counters, optionally chaining to another sink.
type MetricsSink struct {
	Metrics *SessionMetrics
	Next    engine.EventSink
}

// Emit implements engine.EventSink.
func (s *MetricsSink) Emit(ev engine.Event) {
	switch ev.Type {
	case engine.EventSilenceWarning:
		s.Metrics.SilenceWarningsTotal.Inc()
	case engine.EventSessionCompleted:
		s.Metrics.SessionEnded(string(ev.Mode), "completed")
	case engine.EventSessionInterrupted:
		s.Metrics.SessionEnded(string(ev.Mode), "interrupted")
	}
	if s.Next != nil {
		s.Next.Emit(ev)
	}
}
