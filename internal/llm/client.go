// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/tomtom215/travelbuddy/internal/config"
	"github.com/tomtom215/travelbuddy/internal/logging"
	"github.com/tomtom215/travelbuddy/internal/metrics"
	"github.com/tomtom215/travelbuddy/internal/upstream"
)

const defaultOpenAIEndpoint = "https://api.openai.com"

var (
	// ErrNotConfigured is returned when the API key or endpoint is missing.
	ErrNotConfigured = errors.New("llm: not configured")

	// ErrEmptyCompletion is returned when the endpoint answers without choices.
	ErrEmptyCompletion = errors.New("llm: completion has no choices")
)

// Client calls an Azure OpenAI or OpenAI chat completions endpoint.
type Client struct {
	cfg  config.LLMConfig
	http *upstream.Client
}

// NewClient creates a client. An unconfigured client is valid; every call
// returns ErrNotConfigured.
func NewClient(cfg config.LLMConfig, breaker upstream.BreakerConfig) *Client {
	if cfg.Provider == "openai" && cfg.Endpoint == "" {
		cfg.Endpoint = defaultOpenAIEndpoint
	}
	return &Client{
		cfg: cfg,
		http: upstream.NewClient(upstream.Config{
			Name:              "llm",
			Timeout:           cfg.Timeout,
			RequestsPerMinute: cfg.RequestsPerMinute,
			Burst:             burstFor(cfg.RequestsPerMinute),
			Breaker:           breaker,
		}),
	}
}

// burstFor allows short spikes of up to a tenth of the per-minute budget.
func burstFor(rpm int) int {
	if b := rpm / 10; b > 1 {
		return b
	}
	return 1
}

// Configured reports whether calls can be made.
func (c *Client) Configured() bool { return c.cfg.Configured() }

// BreakerState reports the circuit breaker state.
func (c *Client) BreakerState() string { return c.http.BreakerState() }

// Pricing returns the configured USD prices per 1000 prompt and completion tokens.
func (c *Client) Pricing() (prompt, completion float64) {
	return c.cfg.PromptCostPer1K, c.cfg.CompletionCostPer1K
}

// Complete sends messages and returns the first choice.
func (c *Client) Complete(ctx context.Context, messages []Message) (Completion, error) {
	if !c.Configured() {
		return Completion{}, ErrNotConfigured
	}

	req := c.newRequest()
	temp := c.cfg.Temperature
	body := chatRequest{Messages: messages, Temperature: &temp}
	if c.cfg.MaxTokens > 0 {
		maxTokens := c.cfg.MaxTokens
		body.MaxTokens = &maxTokens
	}
	if c.cfg.Provider == "openai" {
		body.Model = c.cfg.Model
	}
	req.JSON(body)

	resp, err := upstream.Do[chatResponse](ctx, c.http, req)
	if err != nil {
		return Completion{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Completion{}, ErrEmptyCompletion
	}

	out := Completion{
		Content:      resp.Choices[0].Message.Content,
		FinishReason: resp.Choices[0].FinishReason,
	}
	if resp.Usage != nil {
		out.Usage = *resp.Usage
	}
	return out, nil
}

// CompleteInto runs Complete and parses the reply into out with ParseInto.
// feature labels the token and parse metrics. Usage is returned even when
// parsing fails, since the tokens were spent.
func (c *Client) CompleteInto(ctx context.Context, feature string, messages []Message, out interface{}) (Usage, error) {
	completion, err := c.Complete(ctx, messages)
	if err != nil {
		return Usage{}, err
	}
	metrics.RecordLLMUsage(feature, completion.Usage.PromptTokens, completion.Usage.CompletionTokens)

	strategy, err := ParseInto(completion.Content, out)
	if err != nil {
		metrics.LLMParseFailures.WithLabelValues(feature).Inc()
		logging.Warn().
			Str("feature", feature).
			Str("finish_reason", completion.FinishReason).
			Err(err).
			Msg("LLM response held no usable JSON")
		return completion.Usage, err
	}
	metrics.LLMParseStrategy.WithLabelValues(string(strategy)).Inc()
	return completion.Usage, nil
}

// newRequest builds the provider-specific endpoint and auth header.
func (c *Client) newRequest() *upstream.Request {
	if c.cfg.Provider == "azure" {
		return upstream.NewRequest(c.cfg.Endpoint, "/openai/deployments/"+url.PathEscape(c.cfg.Deployment)+"/chat/completions").
			Param("api-version", c.cfg.APIVersion).
			Header("api-key", c.cfg.APIKey)
	}
	return upstream.NewRequest(c.cfg.Endpoint, "/v1/chat/completions").
		Header("Authorization", "Bearer "+c.cfg.APIKey)
}
