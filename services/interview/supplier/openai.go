// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package supplier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

const questionSystemPrompt = "You are an interviewer for a technical job. " +
	"Produce exactly one interview question as a JSON object of the form " +
	`{"question": "..."}. Do not repeat any question you are shown. ` +
	"Keep the question answerable verbally in a few minutes."

// OpenAIProvider generates questions via the OpenAI chat completions API.
//
// Every API failure is classified onto the typed generation errors so the
// fallback chain can react uniformly. A token-bucket limiter caps request
// pressure on the provider across all concurrent sessions.
//
// Thread Safety:
//
//	OpenAIProvider is safe for concurrent use.
type OpenAIProvider struct {
	client  *openai.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewOpenAIProvider creates a provider with the given API key.
//
// Inputs:
//
//	apiKey - OpenAI API key. Must not be empty.
//	rps - Sustained requests per second across all sessions. Zero or
//	      negative disables limiting.
//	logger - Structured logger.
func NewOpenAIProvider(apiKey string, rps float64, logger *slog.Logger) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	var limiter *rate.Limiter
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	}
	return &OpenAIProvider{
		client:  openai.NewClient(apiKey),
		limiter: limiter,
		logger:  logger,
	}, nil
}

// Generate implements Provider.
func (p *OpenAIProvider) Generate(ctx context.Context, gc GenerationContext) (string, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return "", fmt.Errorf("%w: rate limiter wait", ErrTimeout)
			}
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Question %d of the interview.\n", gc.Index+1)
	if len(gc.Tags) > 0 {
		fmt.Fprintf(&sb, "Topic areas: %s.\n", strings.Join(gc.Tags, ", "))
	}
	if len(gc.AskedTexts) > 0 {
		sb.WriteString("Already asked:\n")
		for _, q := range gc.AskedTexts {
			fmt.Fprintf(&sb, "- %s\n", q)
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: gc.ModelID,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: questionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: sb.String()},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrSchemaInvalid)
	}

	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return "", fmt.Errorf("%w: content filtered", ErrSafetyViolation)
	}

	var payload struct {
		Question string `json:"question"`
	}
	if err := json.Unmarshal([]byte(choice.Message.Content), &payload); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSchemaInvalid, err)
	}
	if strings.TrimSpace(payload.Question) == "" {
		return "", fmt.Errorf("%w: empty question field", ErrSchemaInvalid)
	}

	p.logger.Debug("generated interview question",
		"model", gc.ModelID, "index", gc.Index)
	return strings.TrimSpace(payload.Question), nil
}

func classifyOpenAIError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusBadRequest &&
			strings.Contains(strings.ToLower(apiErr.Message), "content"):
			return fmt.Errorf("%w: %v", ErrSafetyViolation, err)
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests,
			apiErr.HTTPStatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
