// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mockhire/mockhire/services/interview/datatypes"
	"github.com/mockhire/mockhire/services/interview/policy"
)

// draftRequest is the wire shape for creating a policy draft. Durations
// are seconds, so recruiters and dashboards never deal in nanoseconds.
type draftRequest struct {
	MinQuestions          int                            `json:"min_questions" binding:"required,gt=0"`
	MaxQuestions          int                            `json:"max_questions" binding:"required,gtefield=MinQuestions"`
	QuestionTimeSeconds   int                            `json:"question_time_seconds" binding:"required,gt=0"`
	SilenceTimeoutSeconds int                            `json:"silence_timeout_seconds" binding:"required,gt=0"`
	EvaluationWeights     map[string]datatypes.WeightRange `json:"evaluation_weights"`
	RequiredQuestionIDs   []string                       `json:"required_question_ids"`
	ModelID               string                         `json:"model_id"`
	Tags                  []string                       `json:"tags"`
	ResultExposureSeconds int                            `json:"result_exposure_seconds"`
	InterruptedEvaluation string                         `json:"interrupted_evaluation" binding:"omitempty,oneof=PARTIAL EXCLUDE"`
	Deadline              time.Time                      `json:"deadline"`
	Description           string                         `json:"description"`
}

type updateRequest struct {
	MinQuestions          *int                           `json:"min_questions"`
	MaxQuestions          *int                           `json:"max_questions"`
	QuestionTimeSeconds   *int                           `json:"question_time_seconds"`
	SilenceTimeoutSeconds *int                           `json:"silence_timeout_seconds"`
	EvaluationWeights     map[string]datatypes.WeightRange `json:"evaluation_weights"`
	RequiredQuestionIDs   []string                       `json:"required_question_ids"`
	ModelID               *string                        `json:"model_id"`
	Tags                  []string                       `json:"tags"`
	ResultExposureSeconds *int                           `json:"result_exposure_seconds"`
	InterruptedEvaluation *string                        `json:"interrupted_evaluation" binding:"omitempty,oneof=PARTIAL EXCLUDE"`
	Deadline              *time.Time                     `json:"deadline"`
	Description           *string                        `json:"description"`
}

func CreatePolicy(store *policy.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req draftRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		d := policy.Draft{
			MinQuestions:        req.MinQuestions,
			MaxQuestions:        req.MaxQuestions,
			QuestionTimeLimit:   time.Duration(req.QuestionTimeSeconds) * time.Second,
			SilenceTimeout:      time.Duration(req.SilenceTimeoutSeconds) * time.Second,
			EvaluationWeights:   req.EvaluationWeights,
			RequiredQuestionIDs: req.RequiredQuestionIDs,
			ModelID:             req.ModelID,
			Tags:                req.Tags,
			ResultExposure:      time.Duration(req.ResultExposureSeconds) * time.Second,
			Deadline:            req.Deadline,
			Description:         req.Description,
		}
		if req.InterruptedEvaluation != "" {
			d.InterruptedEvaluation = datatypes.InterruptedEvaluationPolicy(req.InterruptedEvaluation)
		}

		created, err := store.CreateDraft(c.Request.Context(), d)
		if err != nil {
			slog.Error("create policy draft failed", "error", err)
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func GetPolicy(store *policy.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := store.Get(c.Request.Context(), c.Param("policyId"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

func UpdatePolicy(store *policy.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		u := policy.Update{
			MinQuestions:        req.MinQuestions,
			MaxQuestions:        req.MaxQuestions,
			EvaluationWeights:   req.EvaluationWeights,
			RequiredQuestionIDs: req.RequiredQuestionIDs,
			ModelID:             req.ModelID,
			Tags:                req.Tags,
			Deadline:            req.Deadline,
			Description:         req.Description,
		}
		if req.QuestionTimeSeconds != nil {
			d := time.Duration(*req.QuestionTimeSeconds) * time.Second
			u.QuestionTimeLimit = &d
		}
		if req.SilenceTimeoutSeconds != nil {
			d := time.Duration(*req.SilenceTimeoutSeconds) * time.Second
			u.SilenceTimeout = &d
		}
		if req.ResultExposureSeconds != nil {
			d := time.Duration(*req.ResultExposureSeconds) * time.Second
			u.ResultExposure = &d
		}
		if req.InterruptedEvaluation != nil {
			ie := datatypes.InterruptedEvaluationPolicy(*req.InterruptedEvaluation)
			u.InterruptedEvaluation = &ie
		}

		updated, err := store.UpdatePolicy(c.Request.Context(), c.Param("policyId"), u)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func PublishPolicy(store *policy.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("policyId")
		published, err := store.Publish(c.Request.Context(), id)
		if err != nil {
			slog.Error("publish policy failed", "policy_id", id, "error", err)
			writeError(c, err)
			return
		}
		slog.Info("policy published", "policy_id", id, "version", published.Version)
		c.JSON(http.StatusOK, published)
	}
}

func ClosePolicy(store *policy.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		closed, err := store.ClosePolicy(c.Request.Context(), c.Param("policyId"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, closed)
	}
}
