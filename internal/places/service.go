// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package places

import (
	"context"
	"fmt"

	"github.com/tomtom215/travelbuddy/internal/llm"
)

// LLM is the chat-completion surface the services use.
type LLM interface {
	Configured() bool
	CompleteInto(ctx context.Context, feature string, messages []llm.Message, out interface{}) (llm.Usage, error)
}

// Provider is the Google Places and Geocoding surface the services use.
type Provider interface {
	NearbySearch(ctx context.Context, q NearbyQuery) ([]Place, error)
	TextSearch(ctx context.Context, q TextQuery) ([]Place, error)
	Geocode(ctx context.Context, address string) ([]GeocodeEntry, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) ([]GeocodeEntry, error)
}

var (
	_ LLM      = (*llm.Client)(nil)
	_ Provider = (*GoogleClient)(nil)
)

// SourcesFailedError is returned when neither the model nor Google could
// produce nearby places.
type SourcesFailedError struct {
	AI     error
	Google error
}

func (e *SourcesFailedError) Error() string {
	return fmt.Sprintf("no places source available: ai: %v; google: %v", e.AI, e.Google)
}

// Unwrap exposes both causes to errors.Is and errors.As.
func (e *SourcesFailedError) Unwrap() []error {
	return []error{e.AI, e.Google}
}

// resultStatus mirrors the Google convention for empty answers.
func resultStatus(n int) string {
	if n == 0 {
		return statusZeroResults
	}
	return statusOK
}
