// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package supplier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mockhire/mockhire/services/interview/datatypes"
)

// GenerationContext is the input to a generation provider call.
type GenerationContext struct {
	// ModelID is the model selected by the frozen policy.
	ModelID string

	// Tags steer the question topic.
	Tags []string

	// Index is the 0-based question position in the session.
	Index int

	// AskedTexts are prior question texts, for repeat avoidance.
	AskedTexts []string
}

// Provider generates interview questions. Implementations must map every
// failure onto one of the typed classes (ErrTimeout, ErrSchemaInvalid,
// ErrSafetyViolation, ErrUnavailable) and return plain signals only;
// fallback policy belongs to the caller.
type Provider interface {
	Generate(ctx context.Context, gc GenerationContext) (string, error)
}

// generatedStrategy wraps a Provider as the first tier of the chain,
// enforcing the bounded call window.
type generatedStrategy struct {
	provider Provider
	timeout  time.Duration
}

func (g *generatedStrategy) Name() string { return "generator" }

func (g *generatedStrategy) Next(ctx context.Context, req *Request) (*Candidate, error) {
	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	text, err := g.provider.Generate(callCtx, GenerationContext{
		ModelID:    req.Config.ModelID,
		Tags:       req.Config.Tags,
		Index:      req.Index,
		AskedTexts: req.AskedTexts,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		if IsGenerationFailure(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: empty question text", ErrSchemaInvalid)
	}

	return &Candidate{
		Text:   text,
		Source: datatypes.SourceGenerated,
		Origin: datatypes.QuestionOrigin{
			Origin:        datatypes.OriginGenerator,
			ModelID:       req.Config.ModelID,
			PolicyVersion: req.Config.PolicyVersion,
			ReferenceHash: referenceHash(req),
			CreatedAt:     time.Now(),
		},
	}, nil
}
