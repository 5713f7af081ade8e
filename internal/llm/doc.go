// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

// Package llm talks to an OpenAI-compatible chat completions endpoint
// (Azure OpenAI or OpenAI) and turns free-form model output into typed values.
//
// Model replies are not guaranteed to be bare JSON. ParseInto tries, in order,
// the whole reply, each ``` fenced block, and each balanced bracket span, and
// decodes the first candidate that fits the target type. If none fits it
// returns a *ParseError and leaves the target untouched.
package llm
