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

	"github.com/gin-gonic/gin"

	"github.com/mockhire/mockhire/services/interview/questionbank"
)

type bankEntryRequest struct {
	Text string   `json:"text" binding:"required"`
	Tags []string `json:"tags"`
}

func AddBankEntry(bank *questionbank.Bank) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bankEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		entry, err := bank.Add(c.Request.Context(), req.Text, req.Tags)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, entry)
	}
}

func GetBankEntry(bank *questionbank.Bank) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry, err := bank.Get(c.Request.Context(), c.Param("entryId"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

// DeleteBankEntry tombstones an entry. Sessions that already drew it
// keep their question; it just stops being served to new sessions.
func DeleteBankEntry(bank *questionbank.Bank) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("entryId")
		if err := bank.SoftDelete(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}
		slog.Info("question bank entry deleted", "entry_id", id)
		c.JSON(http.StatusOK, gin.H{"status": "deleted", "entry_id": id})
	}
}
