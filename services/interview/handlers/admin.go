// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mockhire/mockhire/services/interview/admin"
	"github.com/mockhire/mockhire/services/interview/datatypes"
)

// ListJobSessions serves the recruiter dashboard listing. Filters come
// in as query parameters and combine with AND:
//
//	?status=IN_PROGRESS,COMPLETED
//	?interrupted=true
//	?from=2026-03-01T00:00:00Z&to=2026-03-31T00:00:00Z
//	?result=PASS
//	?search=dana@example.com
func ListJobSessions(query *admin.Query) gin.HandlerFunc {
	return func(c *gin.Context) {
		var f datatypes.SessionFilters

		if raw := c.Query("status"); raw != "" {
			for _, s := range strings.Split(raw, ",") {
				f.Statuses = append(f.Statuses, datatypes.SessionStatus(strings.TrimSpace(s)))
			}
		}
		if raw := c.Query("interrupted"); raw != "" {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "interrupted must be a boolean"})
				return
			}
			f.IsInterrupted = b
		}
		if raw := c.Query("from"); raw != "" {
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "from must be RFC3339"})
				return
			}
			f.From = &ts
		}
		if raw := c.Query("to"); raw != "" {
			ts, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "to must be RFC3339"})
				return
			}
			f.To = &ts
		}
		f.Result = datatypes.Outcome(c.Query("result"))
		f.Search = c.Query("search")

		summaries, err := query.ListSessions(c.Request.Context(), c.Param("jobId"), f)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessions": summaries, "count": len(summaries)})
	}
}

// HealthCheck reports liveness.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "interview"})
}
