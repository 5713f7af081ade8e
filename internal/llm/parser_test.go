// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package llm

import (
	"errors"
	"strings"
	"testing"
)

type testPlace struct {
	Name     string  `json:"name"`
	Rating   float64 `json:"rating"`
	Category string  `json:"category"`
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     string
		strategy Strategy
	}{
		{
			name:     "bare object",
			raw:      `  {"name":"Galle Fort"}  `,
			want:     `{"name":"Galle Fort"}`,
			strategy: StrategyStrict,
		},
		{
			name:     "bare array",
			raw:      `[{"name":"A"},{"name":"B"}]`,
			want:     `[{"name":"A"},{"name":"B"}]`,
			strategy: StrategyStrict,
		},
		{
			name:     "json fence",
			raw:      "Here you go:\n```json\n{\"name\":\"Sigiriya\"}\n```\nEnjoy!",
			want:     `{"name":"Sigiriya"}`,
			strategy: StrategyFenced,
		},
		{
			name:     "plain fence",
			raw:      "```\n[1,2,3]\n```",
			want:     `[1,2,3]`,
			strategy: StrategyFenced,
		},
		{
			name:     "second fence when first is prose",
			raw:      "```text\nnot json\n```\n```json\n{\"ok\":true}\n```",
			want:     `{"ok":true}`,
			strategy: StrategyFenced,
		},
		{
			name:     "prose around object",
			raw:      `Sure! The result is {"name":"Ella","tags":["hike","tea"]} as requested.`,
			want:     `{"name":"Ella","tags":["hike","tea"]}`,
			strategy: StrategyBracket,
		},
		{
			name:     "brackets inside strings",
			raw:      `Result: {"name":"Odd } name [x]","note":"quote \" and brace {"} done`,
			want:     `{"name":"Odd } name [x]","note":"quote \" and brace {"}`,
			strategy: StrategyBracket,
		},
		{
			name:     "skips invalid span",
			raw:      `{not json} then {"valid":1}`,
			want:     `{"valid":1}`,
			strategy: StrategyBracket,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, strategy, err := ExtractJSON(tt.raw)
			if err != nil {
				t.Fatalf("ExtractJSON() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
			if strategy != tt.strategy {
				t.Errorf("strategy = %s, want %s", strategy, tt.strategy)
			}
		})
	}
}

func TestExtractJSON_Failure(t *testing.T) {
	raw := "I'm sorry, I can't help with that. " + strings.Repeat("x", 300)
	_, _, err := ExtractJSON(raw)

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if len(pe.Attempts) != 3 {
		t.Errorf("Attempts = %d, want 3", len(pe.Attempts))
	}
	if got := len([]rune(pe.Raw)); got != maxRawInError+3 {
		t.Errorf("Raw length = %d, want %d", got, maxRawInError+3)
	}
	if !strings.HasPrefix(pe.Raw, "I'm sorry") {
		t.Errorf("Raw = %q", pe.Raw)
	}
}

func TestExtractJSON_Unbalanced(t *testing.T) {
	_, _, err := ExtractJSON(`{"name": "cut off`)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestParseInto(t *testing.T) {
	raw := "```json\n[{\"name\":\"Mirissa Beach\",\"rating\":4.7,\"category\":\"beach\"}]\n```"

	var places []testPlace
	strategy, err := ParseInto(raw, &places)
	if err != nil {
		t.Fatalf("ParseInto() error = %v", err)
	}
	if strategy != StrategyFenced {
		t.Errorf("strategy = %s, want fenced", strategy)
	}
	if len(places) != 1 || places[0].Name != "Mirissa Beach" || places[0].Rating != 4.7 {
		t.Errorf("places = %+v", places)
	}
}

func TestParseInto_SkipsCandidatesOfWrongShape(t *testing.T) {
	// The first balanced span is an array of numbers; the object after it
	// is the one that fits.
	raw := `Scores [1, 2] and details {"name":"Kandy","rating":4.5}`

	var p testPlace
	if _, err := ParseInto(raw, &p); err != nil {
		t.Fatalf("ParseInto() error = %v", err)
	}
	if p.Name != "Kandy" {
		t.Errorf("Name = %q, want Kandy", p.Name)
	}
}

func TestParseInto_NoPartialData(t *testing.T) {
	p := testPlace{Name: "unchanged"}
	_, err := ParseInto(`{"name": 42, "rating": "high"}`, &p)
	if err == nil {
		t.Fatal("expected error for mismatched types")
	}
	if p.Name != "unchanged" {
		t.Errorf("target was modified: %+v", p)
	}
}

func TestParseInto_RequiresPointer(t *testing.T) {
	var p testPlace
	if _, err := ParseInto(`{}`, p); err == nil {
		t.Error("expected error for non-pointer target")
	}
	var nilPtr *testPlace
	if _, err := ParseInto(`{}`, nilPtr); err == nil {
		t.Error("expected error for nil pointer target")
	}
}

func TestMatchBracket(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{`{}`, 2},
		{`{"a":[1,{"b":2}]}tail`, 17},
		{`{"a":"\\"}`, 10},
		{`{]`, -1},
		{`{"a":1`, -1},
	}
	for _, tt := range tests {
		if got := matchBracket(tt.in, 0); got != tt.want {
			t.Errorf("matchBracket(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
