// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package transform converts raw string fields scraped from a weather
// station page into typed readings.
package transform

import (
	"strconv"
	"strings"

	"github.com/absmach/weather-bridge/pkg/errors"
)

var (
	// ErrParseFloat indicates a non-empty field that is not a number.
	ErrParseFloat = errors.New("unable to parse float value")
	// ErrOutdated indicates that the device reported a stale reading time.
	ErrOutdated = errors.New("device time is outdated")
	// ErrParseTime indicates an absent or malformed time field.
	ErrParseTime = errors.New("unable to parse device time")
)

// RawValues maps a page field id to its extracted string. A missing key
// means the field could not be extracted.
type RawValues map[string]string

// Transformer maps raw fields to one typed value.
type Transformer interface {
	// Transform returns the typed value. A nil value with a nil error
	// means there is no reading.
	Transform(raw RawValues) (any, error)
}

var (
	_ Transformer = (*Float)(nil)
	_ Transformer = (*String)(nil)
	_ Transformer = (*Timestamp)(nil)
	_ Transformer = (*RelativePressure)(nil)
	_ Transformer = (*Gust)(nil)
)

// Float parses a numeric field.
type Float struct {
	Field string
}

func (f Float) Transform(raw RawValues) (any, error) {
	v, err := parseFloat(raw, f.Field)
	if err != nil || v == nil {
		return nil, err
	}
	return *v, nil
}

// String passes a field through, optionally trimming whitespace.
type String struct {
	Field string
	Trim  bool
}

func (s String) Transform(raw RawValues) (any, error) {
	v, ok := raw[s.Field]
	if !ok {
		return nil, nil
	}
	if s.Trim {
		v = strings.TrimSpace(v)
	}
	return v, nil
}

// parseFloat returns nil for absent, empty and placeholder ("--.-") fields.
func parseFloat(raw RawValues, field string) (*float64, error) {
	s, ok := raw[field]
	if !ok {
		return nil, nil
	}
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "--") {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.Wrap(ErrParseFloat, err)
	}
	return &v, nil
}

// ToFloat converts a transformed value into an optional float.
func ToFloat(v any) (*float64, bool) {
	switch n := v.(type) {
	case nil:
		return nil, true
	case float64:
		return &n, true
	case *float64:
		return n, true
	default:
		return nil, false
	}
}
