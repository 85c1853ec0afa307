// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package supplier chooses the next interview question.
//
// The supplier is an ordered list of candidate strategies sharing one
// result type, tried in sequence:
//
//	generation provider (bounded timeout)
//	  -> question bank (active, unused-in-session, tag-matched)
//	  -> built-in safe set (never fails)
//
// Each strategy returns a plain success/failure signal. The engine owns
// the supplier, decides when to ask for a question, and records which
// tier served in the resulting SessionQuestion. A fallback never triggers
// a state transition by itself.
package supplier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/mockhire/mockhire/services/interview/datatypes"
	"github.com/mockhire/mockhire/services/interview/questionbank"
)

// Request carries everything a strategy may need to pick a question.
type Request struct {
	// SessionID identifies the session, for logging and hashing only.
	SessionID string

	// Index is the question index being filled.
	Index int

	// Config is the session's instance-locked policy copy.
	Config datatypes.SessionConfig

	// UsedBankIDs are bank entry ids already served in this session.
	UsedBankIDs map[string]bool

	// AskedTexts are the texts of prior questions, so the generator can
	// avoid repeats.
	AskedTexts []string
}

// Candidate is the shared result type of every strategy.
type Candidate struct {
	Text   string
	Source datatypes.QuestionSource
	Origin datatypes.QuestionOrigin
}

// Strategy is one tier of the fallback chain.
type Strategy interface {
	// Name labels the tier for logs and metrics.
	Name() string

	// Next returns a candidate or a plain failure signal.
	Next(ctx context.Context, req *Request) (*Candidate, error)
}

// Supplier tries its strategies in order. Constructed via NewSupplier the
// final strategy is the built-in safe set, so NextQuestion cannot fail.
//
// Thread Safety:
//
//	Supplier is safe for concurrent use across sessions.
type Supplier struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewSupplier builds the standard three-tier chain.
//
// Inputs:
//
//	provider - Generation provider. May be nil, in which case the chain
//	           starts at the question bank.
//	timeout - Bound on each provider call. The command path never waits
//	          longer than this on external generation.
//	bank - The question bank.
//	logger - Structured logger.
func NewSupplier(provider Provider, timeout time.Duration, bank *questionbank.Bank, logger *slog.Logger) *Supplier {
	if logger == nil {
		logger = slog.Default()
	}
	var strategies []Strategy
	if provider != nil {
		strategies = append(strategies, &generatedStrategy{provider: provider, timeout: timeout})
	}
	strategies = append(strategies,
		&bankStrategy{bank: bank},
		&builtinStrategy{},
	)
	return &Supplier{strategies: strategies, logger: logger}
}

// NewSupplierWithStrategies builds a supplier from an explicit chain.
// The caller is responsible for ending the chain with a strategy that
// always succeeds.
func NewSupplierWithStrategies(logger *slog.Logger, strategies ...Strategy) *Supplier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Supplier{strategies: strategies, logger: logger}
}

// NextQuestion walks the chain and returns the first candidate.
//
// Description:
//
//	Strategy failures are recovered locally: each one is logged at
//	warning level and the next tier is tried. When even the question
//	bank comes back empty the exhaustion is logged at error level for
//	operational alerting, but the built-in tier still serves a valid
//	question. A live session never stalls here.
//
// Outputs:
//
//	*Candidate - The chosen question with provenance. Never nil when the
//	chain ends in the built-in tier.
//	error - Non-nil only for a caller-supplied chain with no absolute
//	fallback.
func (s *Supplier) NextQuestion(ctx context.Context, req *Request) (*Candidate, error) {
	var lastErr error
	for i, strat := range s.strategies {
		cand, err := strat.Next(ctx, req)
		if err == nil {
			if i > 0 {
				s.logger.Warn("question served by fallback tier",
					"session_id", req.SessionID,
					"index", req.Index,
					"tier", strat.Name(),
					"prior_error", fmt.Sprint(lastErr))
			}
			return cand, nil
		}
		lastErr = err
		if i == len(s.strategies)-2 {
			// Next tier is the last line of defense.
			s.logger.Error("question fallback exhausted, serving built-in safe question",
				"session_id", req.SessionID,
				"index", req.Index,
				"tier", strat.Name(),
				"error", err)
		} else {
			s.logger.Warn("question strategy failed, falling back",
				"session_id", req.SessionID,
				"index", req.Index,
				"tier", strat.Name(),
				"error", err)
		}
	}
	return nil, fmt.Errorf("all question strategies failed: %w", lastErr)
}

// referenceHash fingerprints the generation context with identifiers
// only. Recorded in question metadata in place of any context dump.
func referenceHash(req *Request) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d", req.SessionID, req.Config.PolicyVersion, req.Index)
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// bankStrategy serves the first unused active entry matching the policy
// tags.
type bankStrategy struct {
	bank *questionbank.Bank
}

func (b *bankStrategy) Name() string { return "bank" }

func (b *bankStrategy) Next(ctx context.Context, req *Request) (*Candidate, error) {
	candidates, err := b.bank.Candidates(ctx, req.Config.Tags, req.UsedBankIDs)
	if err != nil {
		return nil, fmt.Errorf("query question bank: %w", err)
	}
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	// Required questions first, then catalog order.
	pick := candidates[0]
	for _, c := range candidates {
		if containsID(req.Config.RequiredQuestionIDs, c.ID) {
			pick = c
			break
		}
	}
	return &Candidate{
		Text:   pick.Text,
		Source: datatypes.SourceStatic,
		Origin: datatypes.QuestionOrigin{
			Origin:      datatypes.OriginBank,
			BankEntryID: pick.ID,
			CreatedAt:   time.Now(),
		},
	}, nil
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// builtinQuestions is the engine-bundled safe set. Never externally
// sourced, so this tier cannot fail.
var builtinQuestions = []string{
	"Tell me about a project you are proud of and the part you played in it.",
	"Describe a technical problem you solved recently. How did you approach it?",
	"What would you do differently on your last project if you started it today?",
	"Tell me about a time you disagreed with a teammate. How was it resolved?",
	"How do you decide when a piece of work is done?",
	"Describe a time you had to learn something new under deadline pressure.",
	"What questions would you ask before taking on an unfamiliar codebase?",
	"Tell me about a mistake you made at work and what you changed afterward.",
}

// builtinStrategy always succeeds. It cycles through the safe set by
// question index.
type builtinStrategy struct{}

func (s *builtinStrategy) Name() string { return "builtin" }

func (s *builtinStrategy) Next(_ context.Context, req *Request) (*Candidate, error) {
	text := builtinQuestions[req.Index%len(builtinQuestions)]
	return &Candidate{
		Text:   text,
		Source: datatypes.SourceStatic,
		Origin: datatypes.QuestionOrigin{
			Origin:    datatypes.OriginBuiltin,
			CreatedAt: time.Now(),
		},
	}, nil
}
