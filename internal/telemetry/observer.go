// Package telemetry records OpenTelemetry spans and metrics for remote calls.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/riza-io/riza-mcp"

// Observer records one span, one counter increment and one latency sample per
// observed operation. A nil Observer is valid and records nothing.
type Observer struct {
	tracer   trace.Tracer
	calls    metric.Int64Counter
	failures metric.Int64Counter
	latency  metric.Float64Histogram
}

// New creates an observer bound to the provided meter/tracer.
func New(meter metric.Meter, tracer trace.Tracer) (*Observer, error) {
	calls, err := meter.Int64Counter(
		"riza.remote.calls",
		metric.WithDescription("Number of remote service calls"),
	)
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter(
		"riza.remote.failures",
		metric.WithDescription("Number of failed remote service calls"),
	)
	if err != nil {
		return nil, err
	}
	latency, err := meter.Float64Histogram(
		"riza.remote.latency",
		metric.WithDescription("Remote call latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	return &Observer{tracer: tracer, calls: calls, failures: failures, latency: latency}, nil
}

// Default returns an observer backed by the global providers. It falls back to
// nil (no-op) when instruments cannot be created.
func Default() *Observer {
	ret, err := New(otel.Meter(instrumentationName), otel.Tracer(instrumentationName))
	if err != nil {
		return nil
	}
	return ret
}

// Start begins observing op and returns the span context together with a
// finish function that must be called with the operation outcome.
func (o *Observer) Start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	if o == nil {
		return ctx, func(error) {}
	}
	started := time.Now()
	attrs = append([]attribute.KeyValue{attribute.String("operation", op)}, attrs...)
	var span trace.Span
	if o.tracer != nil {
		ctx, span = o.tracer.Start(ctx, "riza."+op, trace.WithAttributes(attrs...))
	}
	return ctx, func(err error) {
		success := err == nil
		options := metric.WithAttributes(append(attrs, attribute.Bool("success", success))...)
		o.calls.Add(ctx, 1, options)
		if !success {
			o.failures.Add(ctx, 1, options)
		}
		o.latency.Record(ctx, time.Since(started).Seconds(), options)
		if span == nil {
			return
		}
		if success {
			span.SetStatus(codes.Ok, "")
		} else {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
