// TravelBuddy - Travel Planning Places and Cache Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travelbuddy

package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// CoordPrecision is the number of decimal places kept for coordinates in
// cache keys. Four places is roughly 11 m at the equator.
const CoordPrecision = 4

var coordScale = math.Pow10(CoordPrecision)

// keyEscaper keeps the "_" separator unambiguous inside key parts.
var keyEscaper = strings.NewReplacer("%", "%25", "_", "%5F")

// RoundCoord rounds v to CoordPrecision decimal places. Negative zero is
// normalized so that -0.00001 and 0.00001 produce the same key.
func RoundCoord(v float64) float64 {
	r := math.Round(v*coordScale) / coordScale
	if r == 0 {
		return 0
	}
	return r
}

// FormatCoord renders a rounded coordinate with exactly CoordPrecision decimals.
func FormatCoord(v float64) string {
	return strconv.FormatFloat(RoundCoord(v), 'f', CoordPrecision, 64)
}

// KeyBuilder derives cache keys purely from request parameters.
//
//	key := cache.NewKey("geo").Coord(6.92712, 79.86118).String()
//	// geo_6.9271_79.8612
//
// Parts are joined with "_" in the order they are added.
type KeyBuilder struct {
	prefix string
	parts  []string
	err    error
}

// NewKey starts a key with the given prefix.
func NewKey(prefix string) *KeyBuilder {
	return &KeyBuilder{prefix: prefix}
}

// Coord appends a rounded latitude and longitude.
func (b *KeyBuilder) Coord(lat, lng float64) *KeyBuilder {
	b.parts = append(b.parts, FormatCoord(lat), FormatCoord(lng))
	return b
}

// Str appends a case-folded, trimmed string. Empty strings become "-".
func (b *KeyBuilder) Str(s string) *KeyBuilder {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		s = "-"
	}
	b.parts = append(b.parts, keyEscaper.Replace(s))
	return b
}

// Int appends an integer.
func (b *KeyBuilder) Int(n int) *KeyBuilder {
	b.parts = append(b.parts, strconv.Itoa(n))
	return b
}

// JSON appends the canonical JSON form of v. Maps with the same contents
// produce the same part regardless of key order. A nil value becomes "-".
func (b *KeyBuilder) JSON(v interface{}) *KeyBuilder {
	if v == nil {
		b.parts = append(b.parts, "-")
		return b
	}
	s, err := CanonicalJSON(v)
	if err != nil {
		b.err = err
		s = "!"
	}
	if s == "null" || s == "{}" {
		s = "-"
	}
	b.parts = append(b.parts, keyEscaper.Replace(s))
	return b
}

// Err returns the first error met while building, if any.
func (b *KeyBuilder) Err() error { return b.err }

// String returns the readable key.
func (b *KeyBuilder) String() string {
	if len(b.parts) == 0 {
		return b.prefix
	}
	return b.prefix + "_" + strings.Join(b.parts, "_")
}

// Hashed returns prefix + ":" + the first 16 bytes of the SHA-256 of the
// readable key, hex encoded. Use it when parts can be arbitrarily long.
func (b *KeyBuilder) Hashed() string {
	sum := sha256.Sum256([]byte(b.String()))
	return b.prefix + ":" + hex.EncodeToString(sum[:16])
}

// CanonicalJSON marshals v with object keys sorted at every depth.
func CanonicalJSON(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal key part: %w", err)
	}

	// Round-trip through interface{} so struct field order and map
	// iteration order both collapse to sorted map keys.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic interface{}
	if err := dec.Decode(&generic); err != nil {
		return "", fmt.Errorf("normalize key part: %w", err)
	}

	out, err := json.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("marshal normalized key part: %w", err)
	}
	return string(out), nil
}

// GenerateKey builds a hashed key from a method name and a parameter map.
// Equal maps produce equal keys irrespective of insertion order.
func GenerateKey(method string, params interface{}) string {
	canonical, err := CanonicalJSON(params)
	if err != nil {
		canonical = fmt.Sprintf("%v", params)
	}
	sum := sha256.Sum256([]byte(canonical))
	return fmt.Sprintf("%s:%x", method, sum[:16])
}
