package session

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/ugaemi/citycourier-server/internal/session"

// runMetrics counts run lifecycle and mission events.
type runMetrics struct {
	started    metric.Int64Counter
	ended      metric.Int64Counter
	deliveries metric.Int64Counter
	expiries   metric.Int64Counter
	score      metric.Int64Histogram
}

// defaultMeter returns the meter from the global provider, which is a no-op
// until one is installed.
func defaultMeter() metric.Meter {
	return otel.Meter(meterName)
}

func newRunMetrics(meter metric.Meter) *runMetrics {
	if meter == nil {
		meter = noop.Meter{}
	}

	m := &runMetrics{}
	var err error
	if m.started, err = meter.Int64Counter("citycourier.runs.started",
		metric.WithDescription("Runs started")); err != nil {
		slog.Warn("failed to create metric", "metric", "citycourier.runs.started", "error", err)
	}
	if m.ended, err = meter.Int64Counter("citycourier.runs.ended",
		metric.WithDescription("Runs finished, by reason")); err != nil {
		slog.Warn("failed to create metric", "metric", "citycourier.runs.ended", "error", err)
	}
	if m.deliveries, err = meter.Int64Counter("citycourier.deliveries",
		metric.WithDescription("Deliveries completed")); err != nil {
		slog.Warn("failed to create metric", "metric", "citycourier.deliveries", "error", err)
	}
	if m.expiries, err = meter.Int64Counter("citycourier.missions.expired",
		metric.WithDescription("Missions that ran out of time")); err != nil {
		slog.Warn("failed to create metric", "metric", "citycourier.missions.expired", "error", err)
	}
	if m.score, err = meter.Int64Histogram("citycourier.runs.score",
		metric.WithDescription("Final score per run")); err != nil {
		slog.Warn("failed to create metric", "metric", "citycourier.runs.score", "error", err)
	}
	return m
}

func (m *runMetrics) runStarted(mode string) {
	if m.started != nil {
		m.started.Add(context.Background(), 1, metric.WithAttributes(attribute.String("mode", mode)))
	}
}

func (m *runMetrics) runEnded(reason string, score int) {
	attrs := metric.WithAttributes(attribute.String("reason", reason))
	if m.ended != nil {
		m.ended.Add(context.Background(), 1, attrs)
	}
	if m.score != nil {
		m.score.Record(context.Background(), int64(score), attrs)
	}
}

func (m *runMetrics) delivered() {
	if m.deliveries != nil {
		m.deliveries.Add(context.Background(), 1)
	}
}

func (m *runMetrics) expired() {
	if m.expiries != nil {
		m.expiries.Add(context.Background(), 1)
	}
}
