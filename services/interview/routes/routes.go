// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mockhire/mockhire/services/interview/admin"
	"github.com/mockhire/mockhire/services/interview/engine"
	"github.com/mockhire/mockhire/services/interview/handlers"
	"github.com/mockhire/mockhire/services/interview/policy"
	"github.com/mockhire/mockhire/services/interview/questionbank"
)

func SetupRoutes(router *gin.Engine, eng *engine.Engine, policies *policy.Store,
	bank *questionbank.Bank, query *admin.Query) {

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	{
		// Job policy lifecycle
		pol := v1.Group("/policies")
		{
			pol.POST("", handlers.CreatePolicy(policies))
			pol.GET("/:policyId", handlers.GetPolicy(policies))
			pol.PATCH("/:policyId", handlers.UpdatePolicy(policies))
			pol.POST("/:policyId/publish", handlers.PublishPolicy(policies))
			pol.POST("/:policyId/close", handlers.ClosePolicy(policies))
		}

		// Question bank administration
		bankGroup := v1.Group("/bank")
		{
			bankGroup.POST("", handlers.AddBankEntry(bank))
			bankGroup.GET("/:entryId", handlers.GetBankEntry(bank))
			bankGroup.DELETE("/:entryId", handlers.DeleteBankEntry(bank))
		}

		// Candidate session lifecycle
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", handlers.StartSession(eng))
			sessions.GET("/:sessionId", handlers.GetSession(eng))
			sessions.POST("/:sessionId/begin", handlers.BeginSession(eng))
			sessions.POST("/:sessionId/answer", handlers.SubmitAnswer(eng))
			sessions.POST("/:sessionId/silence", handlers.SignalSilence(eng))
			sessions.POST("/:sessionId/interrupt", handlers.InterruptSession(eng))
			sessions.POST("/:sessionId/resume", handlers.ResumeSession(eng))
			sessions.POST("/:sessionId/early-exit", handlers.RecommendEarlyExit(eng))
			sessions.POST("/:sessionId/evaluation", handlers.CompleteEvaluation(eng))
		}

		// Recruiter dashboard reads
		v1.GET("/jobs/:jobId/sessions", handlers.ListJobSessions(query))
	}
}
