// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package policy

import (
	"time"

	"github.com/mockhire/mockhire/services/interview/datatypes"
)

// TakeSnapshot captures a fully value-copied snapshot of the policy's
// frozen fields.
//
// Description:
//
//	The snapshot is the explicit copy boundary between the shared,
//	mutable JobPolicy aggregate and everything session-owned. Every
//	reference-typed field is cloned, so the snapshot holds zero live
//	references back to the policy: later edits, closing, or deletion of
//	the posting can never reach data derived from this snapshot.
//
// Inputs:
//
//	p - A policy whose Version is already assigned (publish time).
//
// Outputs:
//
//	*datatypes.JobPolicySnapshot - The reference-free capture.
func TakeSnapshot(p *datatypes.JobPolicy) *datatypes.JobPolicySnapshot {
	cp := p.Clone()
	return &datatypes.JobPolicySnapshot{
		PolicyID:              cp.ID,
		PolicyVersion:         cp.Version,
		TakenAt:               time.Now(),
		MinQuestions:          cp.MinQuestions,
		MaxQuestions:          cp.MaxQuestions,
		QuestionTimeLimit:     cp.QuestionTimeLimit,
		SilenceTimeout:        cp.SilenceTimeout,
		EvaluationWeights:     cp.EvaluationWeights,
		RequiredQuestionIDs:   cp.RequiredQuestionIDs,
		ModelID:               cp.ModelID,
		Tags:                  cp.Tags,
		ResultExposure:        cp.ResultExposure,
		InterruptedEvaluation: cp.InterruptedEvaluation,
	}
}
