// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mockhire/mockhire/services/interview/datatypes"
	"github.com/mockhire/mockhire/services/interview/engine"
)

type startSessionRequest struct {
	JobID        string `json:"job_id" binding:"required"`
	CandidateRef string `json:"candidate_ref" binding:"required"`
	Mode         string `json:"mode" binding:"required,oneof=ACTUAL PRACTICE"`
}

type answerRequest struct {
	// Answer may be empty: an explicit empty submission still resolves
	// the question, flagged as no-answer.
	Answer string `json:"answer"`
}

type silenceRequest struct {
	Kind       string `json:"kind" binding:"required,oneof=POST_ANSWER NO_ANSWER"`
	Transcript string `json:"transcript"`
}

type interruptRequest struct {
	Reason string `json:"reason"`
}

type evaluationRequest struct {
	Outcome string          `json:"outcome" binding:"required,oneof=PASS FAIL"`
	Summary string          `json:"summary"`
	Payload json.RawMessage `json:"payload"`
}

// sessionView is the client-facing session shape. The active question is
// surfaced directly; full question history stays internal.
type sessionView struct {
	SessionID     string                  `json:"session_id"`
	JobID         string                  `json:"job_id"`
	Status        datatypes.SessionStatus `json:"status"`
	Mode          datatypes.InterviewMode `json:"mode"`
	QuestionIndex int                     `json:"question_index"`
	QuestionText  string                  `json:"question_text,omitempty"`
	QuestionCount int                     `json:"question_count"`
	Interrupted   bool                    `json:"interrupted"`
}

func viewOf(rec *datatypes.SessionRecord) sessionView {
	v := sessionView{
		SessionID:     rec.ID,
		JobID:         rec.JobID,
		Status:        rec.Status,
		Mode:          rec.Config.Mode,
		QuestionIndex: rec.CurrentIndex,
		QuestionCount: len(rec.Questions),
		Interrupted:   rec.Interrupted,
	}
	if cur := rec.CurrentQuestion(); cur != nil && !cur.Resolved &&
		rec.Status == datatypes.StatusInProgress {
		v.QuestionText = cur.Text
	}
	return v
}

func StartSession(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req startSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		rec, err := eng.StartSession(c.Request.Context(), req.JobID, req.CandidateRef,
			datatypes.InterviewMode(req.Mode))
		if err != nil {
			slog.Error("start session failed", "job_id", req.JobID, "error", err)
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, viewOf(rec))
	}
}

func GetSession(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := eng.GetSession(c.Request.Context(), c.Param("sessionId"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOf(rec))
	}
}

func BeginSession(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := eng.Begin(c.Request.Context(), c.Param("sessionId"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOf(rec))
	}
}

func SubmitAnswer(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req answerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		rec, err := eng.SubmitAnswer(c.Request.Context(), c.Param("sessionId"), req.Answer)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOf(rec))
	}
}

func SignalSilence(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req silenceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		rec, err := eng.SignalSilence(c.Request.Context(), c.Param("sessionId"),
			engine.SilenceKind(req.Kind), req.Transcript)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOf(rec))
	}
}

func InterruptSession(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req interruptRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		rec, err := eng.Interrupt(c.Request.Context(), c.Param("sessionId"), req.Reason)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOf(rec))
	}
}

func ResumeSession(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := eng.Resume(c.Request.Context(), c.Param("sessionId"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOf(rec))
	}
}

func RecommendEarlyExit(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := eng.RecommendEarlyExit(c.Request.Context(), c.Param("sessionId"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOf(rec))
	}
}

func CompleteEvaluation(eng *engine.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req evaluationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		rec, err := eng.CompleteEvaluation(c.Request.Context(), c.Param("sessionId"),
			datatypes.EvaluationResult{
				Outcome: datatypes.Outcome(req.Outcome),
				Summary: req.Summary,
				Payload: req.Payload,
			})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, viewOf(rec))
	}
}
