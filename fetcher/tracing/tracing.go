// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"context"

	"github.com/absmach/weather-bridge/fetcher"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const fetchOP = "fetch"

var _ fetcher.Service = (*tracingMiddleware)(nil)

type tracingMiddleware struct {
	tracer trace.Tracer
	svc    fetcher.Service
	kind   string
	url    string
}

// New returns a new fetch pipeline with tracing capabilities.
func New(svc fetcher.Service, tracer trace.Tracer, kind, url string) fetcher.Service {
	return &tracingMiddleware{
		tracer: tracer,
		svc:    svc,
		kind:   kind,
		url:    url,
	}
}

func (tm *tracingMiddleware) Fetch(ctx context.Context) fetcher.Result {
	ctx, span := tm.tracer.Start(ctx, fetchOP, trace.WithAttributes(
		attribute.String("job.kind", tm.kind),
		attribute.String("url.full", tm.url),
	), trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	res := tm.svc.Fetch(ctx)
	span.SetAttributes(
		attribute.String("fetch.status", res.Status.String()),
		attribute.Int("fetch.values", len(res.Values)),
	)
	switch {
	case res.Fatal != nil:
		span.RecordError(res.Fatal)
		span.SetStatus(codes.Error, res.Fatal.Error())
	case res.Status != fetcher.StatusOK:
		span.SetStatus(codes.Error, res.Status.String())
	}

	return res
}
