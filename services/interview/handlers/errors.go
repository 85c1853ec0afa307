// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/mockhire/mockhire/services/interview/admin"
	"github.com/mockhire/mockhire/services/interview/engine"
	"github.com/mockhire/mockhire/services/interview/lock"
	"github.com/mockhire/mockhire/services/interview/policy"
	"github.com/mockhire/mockhire/services/interview/questionbank"
)

// writeError maps domain errors onto HTTP statuses. Unknown errors
// become 500 without leaking internals to the client.
func writeError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors

	switch {
	case errors.Is(err, lock.ErrLocked):
		c.JSON(http.StatusLocked, gin.H{"error": "session is processing another command"})
	case errors.Is(err, engine.ErrNotFound),
		errors.Is(err, policy.ErrNotFound),
		errors.Is(err, questionbank.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, engine.ErrPolicyViolation),
		errors.Is(err, policy.ErrFrozenField),
		errors.Is(err, policy.ErrNotPublished):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, engine.ErrInvalidMode),
		errors.Is(err, engine.ErrInvalidOutcome),
		errors.Is(err, engine.ErrInvalidCandidate),
		errors.Is(err, policy.ErrValidation),
		errors.Is(err, questionbank.ErrEmptyText),
		errors.Is(err, admin.ErrSearchTooShort),
		errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// bindError reports a malformed request body.
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
}
