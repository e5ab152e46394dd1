package gridlock

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"pkt.systems/pslog"
)

// gridMetrics carries the OpenTelemetry instruments for grid operations. The
// global meter provider defaults to a no-op, so embedders that never wire an
// exporter pay close to nothing.
type gridMetrics struct {
	opCount    metric.Int64Counter
	opDuration metric.Int64Histogram
}

func newGridMetrics(logger pslog.Logger) *gridMetrics {
	meter := otel.Meter("pkt.systems/gridlock")
	m := &gridMetrics{}
	var err error

	m.opCount, err = meter.Int64Counter(
		"gridlock.op",
		metric.WithDescription("Grid operations by kind"),
	)
	logMetricInitError(logger, "gridlock.op", err)

	m.opDuration, err = meter.Int64Histogram(
		"gridlock.op.duration_us",
		metric.WithDescription("Grid operation duration"),
		metric.WithUnit("us"),
	)
	logMetricInitError(logger, "gridlock.op.duration_us", err)

	return m
}

func logMetricInitError(logger pslog.Logger, name string, err error) {
	if err == nil {
		return
	}
	if logger != nil {
		logger.Warn("metrics.init_failure", "instrument", name, "error", err)
	}
}

func (m *gridMetrics) observe(op string, start time.Time) {
	if m == nil {
		return
	}
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("op", op))
	if m.opCount != nil {
		m.opCount.Add(ctx, 1, attrs)
	}
	if m.opDuration != nil {
		m.opDuration.Record(ctx, time.Since(start).Microseconds(), attrs)
	}
}
