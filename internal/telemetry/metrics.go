// Package telemetry holds the OpenTelemetry instruments for the gate.
//
// Only the otel API is used here; without an SDK installed the instruments
// are noops, so instrumentation costs nothing when observability is not
// wired up.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// GateMetrics holds metric instruments for the access-control gate.
// Initialize once at server startup and reuse throughout the application lifecycle.
type GateMetrics struct {
	RequestCounter  metric.Int64Counter     // Requests classified by the gate
	RejectCounter   metric.Int64Counter     // Requests rejected before the handler
	RequestDuration metric.Float64Histogram // End-to-end request latency
}

// NewGateMetrics creates a GateMetrics instance with pre-configured instruments.
func NewGateMetrics() (*GateMetrics, error) {
	meter := otel.Meter("authgate/gate")

	requestCounter, err := meter.Int64Counter(
		"gate.request.count",
		metric.WithDescription("Total number of requests classified by the gate"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	rejectCounter, err := meter.Int64Counter(
		"gate.reject.count",
		metric.WithDescription("Total number of requests rejected by the gate"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"gate.request.duration",
		metric.WithDescription("End-to-end request latency"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &GateMetrics{
		RequestCounter:  requestCounter,
		RejectCounter:   rejectCounter,
		RequestDuration: requestDuration,
	}, nil
}

// RecordRequest counts one classified request.
func (m *GateMetrics) RecordRequest(ctx context.Context, method, path string) {
	m.RequestCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", path),
		))
}

// RecordReject counts one gate rejection by outcome.
func (m *GateMetrics) RecordReject(ctx context.Context, method, path, outcome string) {
	m.RejectCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", path),
			attribute.String("gate.outcome", outcome),
		))
}

// RecordDuration records one request's latency in milliseconds.
func (m *GateMetrics) RecordDuration(ctx context.Context, method string, ms float64) {
	m.RequestDuration.Record(ctx, ms,
		metric.WithAttributes(
			attribute.String("http.method", method),
		))
}
