// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"time"

	"github.com/absmach/weather-bridge/fetcher"
	"github.com/go-kit/kit/metrics"
)

var _ fetcher.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     fetcher.Service
}

// MetricsMiddleware instruments the fetch pipeline by tracking request count
// and latency per outcome.
func MetricsMiddleware(svc fetcher.Service, counter metrics.Counter, latency metrics.Histogram) fetcher.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) Fetch(ctx context.Context) (res fetcher.Result) {
	defer func(begin time.Time) {
		status := res.Normalize().Status.String()
		mm.counter.With("method", "fetch", "status", status).Add(1)
		mm.latency.With("method", "fetch", "status", status).Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Fetch(ctx)
}
