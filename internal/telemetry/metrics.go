package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcomes recorded for tool calls.
const (
	ToolCallOutcomeSuccess = "success"
	ToolCallOutcomeError   = "error"
)

// CustomMetrics records mcpdeck-specific measurements.
type CustomMetrics interface {
	// RecordToolCall records one tool invocation with its outcome and duration.
	RecordToolCall(ctx context.Context, tool, outcome string, duration time.Duration)

	// RecordProbeFailure records one failed liveness probe.
	RecordProbeFailure(ctx context.Context)
}

type noopMetrics struct{}

// NewNoopCustomMetrics returns a CustomMetrics that discards everything.
func NewNoopCustomMetrics() CustomMetrics { return noopMetrics{} }

func (noopMetrics) RecordToolCall(context.Context, string, string, time.Duration) {}
func (noopMetrics) RecordProbeFailure(context.Context)                            {}

type otelMetrics struct {
	toolCalls     metric.Int64Counter
	toolCallTime  metric.Float64Histogram
	probeFailures metric.Int64Counter
}

// NewOtelCustomMetrics creates the real CustomMetrics on the given meter.
func NewOtelCustomMetrics(meter metric.Meter) (CustomMetrics, error) {
	toolCalls, err := meter.Int64Counter(
		"mcpdeck.tool.calls",
		metric.WithDescription("Number of tool invocations, by tool and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool call counter: %w", err)
	}
	toolCallTime, err := meter.Float64Histogram(
		"mcpdeck.tool.call.duration",
		metric.WithDescription("Tool invocation duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool call duration histogram: %w", err)
	}
	probeFailures, err := meter.Int64Counter(
		"mcpdeck.probe.failures",
		metric.WithDescription("Number of failed health probes"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create probe failure counter: %w", err)
	}
	return &otelMetrics{
		toolCalls:     toolCalls,
		toolCallTime:  toolCallTime,
		probeFailures: probeFailures,
	}, nil
}

func (m *otelMetrics) RecordToolCall(ctx context.Context, tool, outcome string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("outcome", outcome),
	)
	m.toolCalls.Add(ctx, 1, attrs)
	m.toolCallTime.Record(ctx, duration.Seconds(), attrs)
}

func (m *otelMetrics) RecordProbeFailure(ctx context.Context) {
	m.probeFailures.Add(ctx, 1)
}
