// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package tracing

import (
	"context"
	"fmt"

	"github.com/absmach/weather-bridge/pkg/messaging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const publishOP = "publish"

var defaultAttributes = []attribute.KeyValue{
	attribute.String("messaging.system", "mqtt"),
	attribute.Bool("messaging.destination.anonymous", false),
	attribute.String("network.protocol.name", "mqtt"),
	attribute.String("network.transport", "tcp"),
}

var _ messaging.Bus = (*busMiddleware)(nil)

type busMiddleware struct {
	bus    messaging.Bus
	tracer trace.Tracer
	host   string
}

// New creates new message bus tracing middleware. Only publishing is
// traced; connection management passes through.
func New(tracer trace.Tracer, bus messaging.Bus, host string) messaging.Bus {
	return &busMiddleware{
		bus:    bus,
		tracer: tracer,
		host:   host,
	}
}

func (bm *busMiddleware) Publish(ctx context.Context, topic string, payload []byte) error {
	kvOpts := []attribute.KeyValue{
		attribute.String("messaging.operation", publishOP),
		attribute.String("messaging.destination.name", topic),
		attribute.String("server.address", bm.host),
		attribute.Int("messaging.message.payload_size_bytes", len(payload)),
	}
	kvOpts = append(kvOpts, defaultAttributes...)

	ctx, span := bm.tracer.Start(ctx, fmt.Sprintf("%s %s", topic, publishOP), trace.WithAttributes(kvOpts...), trace.WithSpanKind(trace.SpanKindProducer))
	defer span.End()

	err := bm.bus.Publish(ctx, topic, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (bm *busMiddleware) SetLastWill(topic string, payload []byte) error {
	return bm.bus.SetLastWill(topic, payload)
}

func (bm *busMiddleware) Connect() error {
	return bm.bus.Connect()
}

func (bm *busMiddleware) IsConnected() bool {
	return bm.bus.IsConnected()
}

func (bm *busMiddleware) Close() error {
	return bm.bus.Close()
}
