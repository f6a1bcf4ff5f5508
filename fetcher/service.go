// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package fetcher

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/absmach/weather-bridge/pkg/clock"
	"github.com/absmach/weather-bridge/pkg/errors"
	"github.com/absmach/weather-bridge/timeseries"
	"github.com/absmach/weather-bridge/transform"
)

const inputTag = "input"

var _ Service = (*fetchService)(nil)

type fetchService struct {
	url      string
	job      Job
	fields   []string
	source   PageSource
	parser   Parser
	registry *timeseries.Registry
	clock    clock.Clock
	logger   *slog.Logger
}

// New instantiates the fetch pipeline for job. Aggregators of the job are
// registered immediately so that kind conflicts surface at startup.
func New(url string, job Job, source PageSource, parser Parser, registry *timeseries.Registry, clk clock.Clock, logger *slog.Logger) (Service, error) {
	seen := make(map[string]bool)
	var fields []string
	for _, item := range job.Items {
		if item.Aggregator != nil {
			if _, err := registry.GetOrCreate(job.Kind, item.Key, item.Aggregator); err != nil {
				return nil, err
			}
		}
		if item.Field != "" && !seen[item.Field] {
			seen[item.Field] = true
			fields = append(fields, item.Field)
		}
	}

	return &fetchService{
		url:      url,
		job:      job,
		fields:   fields,
		source:   source,
		parser:   parser,
		registry: registry,
		clock:    clk,
		logger:   logger,
	}, nil
}

func (svc *fetchService) Fetch(ctx context.Context) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			svc.logger.Error("Fetch cycle panicked", slog.String("job", svc.job.Kind), slog.Any("panic", r))
			res = ErrorResult()
		}
	}()

	page, err := svc.source.Load(ctx, svc.url)
	if err != nil {
		svc.logger.Error("Failed to load status page", slog.String("url", svc.url), slog.String("error", err.Error()))
		return ErrorResult()
	}

	doc, err := svc.parser.Parse(page)
	if err != nil {
		svc.logger.Error("Failed to parse status page", slog.String("url", svc.url), slog.String("error", errors.Wrap(ErrParsePage, err).Error()))
		return ErrorResult()
	}

	raw := svc.extract(doc)
	values := svc.transform(raw)
	if err := svc.aggregate(values); err != nil {
		return Result{Status: StatusError, Values: map[string]any{}, Fatal: err}
	}

	return Result{Status: StatusOK, Values: values}
}

func (svc *fetchService) extract(doc Document) transform.RawValues {
	raw := make(transform.RawValues, len(svc.fields))
	for _, field := range svc.fields {
		v, err := lookup(doc, field)
		if err != nil {
			svc.logger.Error("Failed to extract field", slog.String("field", field), slog.String("error", err.Error()))
			continue
		}
		raw[field] = v
	}
	return raw
}

func lookup(doc Document, field string) (string, error) {
	elems := doc.FindAll(inputTag, map[string]string{"name": field})
	if len(elems) != 1 {
		return "", errors.Wrap(ErrExtract, fmt.Errorf("expected one %s element named %s, got %d", inputTag, field, len(elems)))
	}
	v, ok := elems[0].Attr("value")
	if !ok {
		return "", errors.Wrap(ErrExtract, fmt.Errorf("element %s has no value", field))
	}
	return v, nil
}

func (svc *fetchService) transform(raw transform.RawValues) map[string]any {
	values := make(map[string]any, len(svc.job.Items))
	for _, item := range svc.job.Items {
		if item.Transformer == nil {
			continue
		}
		v, err := item.Transformer.Transform(raw)
		if err != nil {
			svc.logger.Warn("Failed to transform field", slog.String("key", item.Key), slog.String("field", item.Field), slog.String("error", err.Error()))
			v = nil
		}
		// A later item sharing the key only overrides with a reading.
		if prev, ok := values[item.Key]; ok && prev != nil && v == nil {
			continue
		}
		values[item.Key] = v
	}
	return values
}

func (svc *fetchService) aggregate(values map[string]any) error {
	now := svc.clock.Now()
	for _, item := range svc.job.Items {
		if item.Aggregator == nil {
			continue
		}
		agg, err := svc.registry.GetOrCreate(svc.job.Kind, item.Key, item.Aggregator)
		if err != nil {
			svc.logger.Error("Aggregator registry rejected field", slog.String("key", item.Key), slog.String("error", err.Error()))
			return err
		}
		f, ok := transform.ToFloat(values[item.Key])
		if !ok {
			svc.logger.Warn("Cannot aggregate non-numeric value", slog.String("key", item.Key))
		}
		if v := agg.CollectAndDeliver(f, now); v != nil {
			values[item.Key] = *v
			continue
		}
		values[item.Key] = nil
	}
	return nil
}
