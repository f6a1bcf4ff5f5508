// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package timeseries

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/absmach/weather-bridge/pkg/errors"
)

// ErrAggregatorKind indicates that a field was requested with a different
// aggregator type than the one already registered for it.
var ErrAggregatorKind = errors.New("aggregator kind mismatch")

// Registry owns the live aggregators keyed by job kind and field.
type Registry struct {
	mu          sync.Mutex
	aggregators map[string]Aggregator
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{aggregators: make(map[string]Aggregator)}
}

func key(jobKind, field string) string {
	return jobKind + "." + field
}

// GetOrCreate returns the aggregator stored for the key, storing blueprint
// on first use. A nil blueprint means the field is not aggregated.
func (r *Registry) GetOrCreate(jobKind, field string, blueprint Aggregator) (Aggregator, error) {
	if blueprint == nil {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := key(jobKind, field)
	agg, ok := r.aggregators[k]
	if !ok {
		r.aggregators[k] = blueprint
		return blueprint, nil
	}
	if have, want := reflect.TypeOf(agg), reflect.TypeOf(blueprint); have != want {
		return nil, errors.Wrap(ErrAggregatorKind, fmt.Errorf("%s is %s, requested %s", k, have, want))
	}
	return agg, nil
}

// Len returns the number of registered aggregators.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.aggregators)
}
