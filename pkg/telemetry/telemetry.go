// Package telemetry wires the bare OpenTelemetry SDK (no OTLP
// exporter — ambient observability only, per this project's scope):
// span helpers for Agent.Decide, evaluator invocations and enrichment
// fetches, and a small set of counters for decision outcomes. No other
// package in this module calls these helpers.
//
// Grounded on the teacher's pkg/observability provider shape
// (trace+metric provider construction, RED-style counters), trimmed to
// the bare SDK since this project carries no metrics/OTLP backend
// (spec.md explicitly treats "monitoring/metrics storage" as an
// external collaborator).
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Provider holds the process-wide tracer and the decision-path
// counters. The zero value is not usable; construct with New.
type Provider struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	tracer         trace.Tracer
	meter          metric.Meter

	decisionsTotal  metric.Int64Counter
	decisionsFailed metric.Int64Counter
	decisionLatency metric.Float64Histogram
}

// New constructs a Provider and registers it as the process-wide
// default. New configures no span or metric exporter and accepts none,
// so spans and metrics are computed but not shipped anywhere.
func New(serviceName string) (*Provider, error) {
	tp := sdktrace.NewTracerProvider()
	mp := sdkmetric.NewMeterProvider()

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	tracer := tp.Tracer(serviceName)
	meter := mp.Meter(serviceName)

	decisionsTotal, err := meter.Int64Counter("decide.total",
		metric.WithDescription("decisions produced by Agent.Decide"))
	if err != nil {
		return nil, err
	}
	decisionsFailed, err := meter.Int64Counter("decide.failed",
		metric.WithDescription("Agent.Decide calls that returned an error"))
	if err != nil {
		return nil, err
	}
	decisionLatency, err := meter.Float64Histogram("decide.duration_seconds",
		metric.WithDescription("wall-clock duration of Agent.Decide"))
	if err != nil {
		return nil, err
	}

	return &Provider{
		tracerProvider:  tp,
		meterProvider:   mp,
		tracer:          tracer,
		meter:           meter,
		decisionsTotal:  decisionsTotal,
		decisionsFailed: decisionsFailed,
		decisionLatency: decisionLatency,
	}, nil
}

// Tracer exposes the process tracer for span creation outside this package.
func (p *Provider) Tracer() trace.Tracer { return p.tracer }

// StartDecide opens the top-level span around one Agent.Decide call.
func (p *Provider) StartDecide(ctx context.Context, rulesetName string) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, "agent.decide", trace.WithAttributes())
}

// StartEvaluator opens a span around one evaluator invocation.
func (p *Provider) StartEvaluator(ctx context.Context, evaluatorName string) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, "evaluator.evaluate")
}

// StartFetch opens a span around one enrichment HTTP fetch.
func (p *Provider) StartFetch(ctx context.Context, endpoint string) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, "enrich.fetch")
}

// RecordDecide records the outcome and duration of one Decide call.
func (p *Provider) RecordDecide(ctx context.Context, durationSeconds float64, failed bool) {
	p.decisionsTotal.Add(ctx, 1)
	if failed {
		p.decisionsFailed.Add(ctx, 1)
	}
	p.decisionLatency.Record(ctx, durationSeconds)
}

// Shutdown flushes and stops both providers. Call once at process exit.
func (p *Provider) Shutdown(ctx context.Context) error {
	if err := p.tracerProvider.Shutdown(ctx); err != nil {
		return err
	}
	return p.meterProvider.Shutdown(ctx)
}
