// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package llm

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
)

// Strategy names the extraction step that found the JSON.
type Strategy string

const (
	StrategyStrict  Strategy = "strict"
	StrategyFenced  Strategy = "fenced"
	StrategyBracket Strategy = "bracket"
)

// maxRawInError bounds the model output quoted in a ParseError.
const maxRawInError = 200

var (
	errNoFence   = errors.New("no fenced block")
	errNoBracket = errors.New("no balanced object or array")
	errNotJSON   = errors.New("not an object or array")
)

// ParseError reports that no strategy produced usable JSON.
type ParseError struct {
	// Raw is the start of the model output, truncated to 200 characters.
	Raw string
	// Attempts holds one error per strategy, in order.
	Attempts []error
}

func (e *ParseError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = a.Error()
	}
	return fmt.Sprintf("no valid JSON in model output (%s): %q", strings.Join(parts, "; "), e.Raw)
}

// ExtractJSON returns the first JSON object or array found in raw, trying
// strict, fenced and bracket extraction in that order.
func ExtractJSON(raw string) (string, Strategy, error) {
	return extract(raw, nil)
}

// ParseInto decodes the first JSON candidate in raw that fits out, which
// must be a non-nil pointer. out is only written on success.
func ParseInto(raw string, out interface{}) (Strategy, error) {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return "", fmt.Errorf("llm: ParseInto needs a non-nil pointer, got %T", out)
	}

	var decoded reflect.Value
	_, strategy, err := extract(raw, func(candidate string) error {
		tmp := reflect.New(rv.Elem().Type())
		if err := json.Unmarshal([]byte(candidate), tmp.Interface()); err != nil {
			return err
		}
		decoded = tmp
		return nil
	})
	if err != nil {
		return "", err
	}
	rv.Elem().Set(decoded.Elem())
	return strategy, nil
}

// extract walks the strategies and returns the first syntactically valid
// candidate that accept (when non-nil) also takes.
func extract(raw string, accept func(string) error) (string, Strategy, error) {
	type step struct {
		strategy Strategy
		next     func(string) []string
	}
	steps := []step{
		{StrategyStrict, strictCandidates},
		{StrategyFenced, fencedCandidates},
		{StrategyBracket, bracketCandidates},
	}

	attempts := make([]error, 0, len(steps))
	for _, s := range steps {
		var lastErr error
		for _, candidate := range s.next(raw) {
			if !json.Valid([]byte(candidate)) {
				lastErr = fmt.Errorf("%s: invalid JSON", s.strategy)
				continue
			}
			if accept != nil {
				if err := accept(candidate); err != nil {
					lastErr = fmt.Errorf("%s: %w", s.strategy, err)
					continue
				}
			}
			return candidate, s.strategy, nil
		}
		if lastErr == nil {
			lastErr = fmt.Errorf("%s: %w", s.strategy, noCandidateErr(s.strategy))
		}
		attempts = append(attempts, lastErr)
	}

	return "", "", &ParseError{Raw: truncate(raw, maxRawInError), Attempts: attempts}
}

func noCandidateErr(s Strategy) error {
	switch s {
	case StrategyFenced:
		return errNoFence
	case StrategyBracket:
		return errNoBracket
	default:
		return errNotJSON
	}
}

// strictCandidates yields the whole trimmed text if it looks like an object or array.
func strictCandidates(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" || (s[0] != '{' && s[0] != '[') {
		return nil
	}
	return []string{s}
}

// fencedCandidates yields the body of every ``` block, language tag removed.
func fencedCandidates(raw string) []string {
	const fence = "```"
	var out []string
	rest := raw
	for {
		start := strings.Index(rest, fence)
		if start < 0 {
			return out
		}
		rest = rest[start+len(fence):]

		// Skip an info string such as "json" up to the end of the line.
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 && !strings.ContainsAny(rest[:nl], "{[") {
			rest = rest[nl+1:]
		}

		end := strings.Index(rest, fence)
		if end < 0 {
			return out
		}
		out = append(out, strings.TrimSpace(rest[:end]))
		rest = rest[end+len(fence):]
	}
}

// bracketCandidates yields every balanced {...} or [...] span, in order of
// its opening bracket. The scan skips brackets inside string literals.
func bracketCandidates(raw string) []string {
	var out []string
	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' && raw[i] != '[' {
			continue
		}
		if end := matchBracket(raw, i); end > 0 {
			out = append(out, raw[i:end])
		}
	}
	return out
}

// matchBracket returns the index just past the bracket that closes raw[start],
// or -1 if the span is unbalanced.
func matchBracket(raw string, start int) int {
	stack := make([]byte, 0, 8)
	inString := false
	escaped := false

	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != ch {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
