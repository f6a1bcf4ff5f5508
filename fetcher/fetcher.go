// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package fetcher loads a weather station page and turns it into a
// status-tagged map of typed readings.
package fetcher

import (
	"context"

	"github.com/absmach/weather-bridge/pkg/errors"
	"github.com/absmach/weather-bridge/timeseries"
	"github.com/absmach/weather-bridge/transform"
)

var (
	// ErrLoadPage indicates that the status page could not be retrieved.
	ErrLoadPage = errors.New("failed to load status page")

	// ErrParsePage indicates that the status page could not be parsed.
	ErrParsePage = errors.New("failed to parse status page")

	// ErrExtract indicates that a field could not be located on the page.
	ErrExtract = errors.New("failed to extract field")
)

// Status is the outcome of one fetch cycle.
type Status string

const (
	StatusOK      Status = "ok"
	StatusTimeout Status = "timeout"
	StatusError   Status = "error"
)

func (s Status) String() string {
	return string(s)
}

// Result is the outcome of one cycle. Fatal carries errors that must stop
// the process regardless of the resilience window.
type Result struct {
	Status Status
	Values map[string]any
	Fatal  error
}

// Normalize maps an empty status to StatusError and guarantees a non-nil
// value map.
func (r Result) Normalize() Result {
	if r.Status == "" {
		r.Status = StatusError
	}
	if r.Values == nil {
		r.Values = map[string]any{}
	}
	return r
}

// ErrorResult returns an empty result with StatusError.
func ErrorResult() Result {
	return Result{Status: StatusError, Values: map[string]any{}}
}

// TimeoutResult returns an empty result with StatusTimeout.
func TimeoutResult() Result {
	return Result{Status: StatusTimeout, Values: map[string]any{}}
}

// Item describes one field to extract or derive.
type Item struct {
	// Key is the name of the value in the result.
	Key string
	// Field is the name attribute of the page input element.
	Field string
	// Transformer converts raw fields to the value.
	Transformer transform.Transformer
	// Aggregator, when set, is registered per job kind and fed with the
	// transformed value.
	Aggregator timeseries.Aggregator
}

// Job is a static device definition.
type Job struct {
	Kind  string
	Items []Item
}

// Service specifies an API that must be fullfiled by the fetch pipeline
// and all of its decorators (e.g. logging, metrics & tracing).
//
//go:generate mockery --name Service --output=./mocks --filename service.go --quiet --note "Copyright (c) Abstract Machines"
type Service interface {
	// Fetch runs one cycle. It never fails: faults are reported through
	// the result status.
	Fetch(ctx context.Context) Result
}

// PageSource loads raw page bytes.
//
//go:generate mockery --name PageSource --output=./mocks --filename source.go --quiet --note "Copyright (c) Abstract Machines"
type PageSource interface {
	Load(ctx context.Context, url string) ([]byte, error)
}

// Parser builds a queryable document from page bytes.
type Parser interface {
	Parse(page []byte) (Document, error)
}

// Document answers element queries.
type Document interface {
	// FindAll returns all elements named tag whose attributes match attrs.
	FindAll(tag string, attrs map[string]string) []Element
}

// Element is a single markup element.
type Element interface {
	Attr(name string) (string, bool)
}
