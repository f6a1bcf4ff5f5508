// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package timeseries holds volatile, per-field aggregators that live for the
// lifetime of the process.
package timeseries

import (
	"sync"
	"time"
)

// Aggregator folds a stream of optional samples into a statistic.
type Aggregator interface {
	// CollectAndDeliver records value at now and returns the current
	// statistic, or nil when there are no samples.
	CollectAndDeliver(value *float64, now time.Time) *float64
}

var _ Aggregator = (*MaxSeries)(nil)

type sample struct {
	at    time.Time
	value float64
}

// MaxSeries reports the maximum over a trailing time window.
type MaxSeries struct {
	mu      sync.Mutex
	window  time.Duration
	samples []sample
}

// NewMaxSeries returns an empty series over window.
func NewMaxSeries(window time.Duration) *MaxSeries {
	return &MaxSeries{window: window}
}

// Window returns the span of the series.
func (ms *MaxSeries) Window() time.Duration {
	return ms.window
}

// CollectAndDeliver purges samples older than now minus the window, appends
// value if it is not nil and returns the maximum of what remains.
func (ms *MaxSeries) CollectAndDeliver(value *float64, now time.Time) *float64 {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	limit := now.Add(-ms.window)
	i := 0
	for i < len(ms.samples) && ms.samples[i].at.Before(limit) {
		i++
	}
	ms.samples = ms.samples[i:]

	if value != nil {
		ms.samples = append(ms.samples, sample{at: now, value: *value})
	}

	if len(ms.samples) == 0 {
		return nil
	}
	peak := ms.samples[0].value
	for _, s := range ms.samples[1:] {
		if s.value > peak {
			peak = s.value
		}
	}
	return &peak
}

// Len returns the number of samples currently held.
func (ms *MaxSeries) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.samples)
}
