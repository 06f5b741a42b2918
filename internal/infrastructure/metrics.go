package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "github.com/ferdiansakti/proyek-analisis-data/internal/errors"
)

// PipelineMetrics holds the instruments of the dataset and derivation layer.
type PipelineMetrics struct {
	DerivationsTotal    metric.Int64Counter
	DerivationDuration  metric.Float64Histogram
	DerivedRecords      metric.Int64Histogram
	DatasetRecords      metric.Int64Gauge
	DatasetLoadDuration metric.Float64Histogram
	DatasetStale        metric.Int64Gauge
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
}

// NewPipelineMetrics creates the instruments on meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	m := &PipelineMetrics{}
	var err error

	if m.DerivationsTotal, err = meter.Int64Counter(
		"bikepulse_derivations_total",
		metric.WithDescription("Derivation passes by operation and status"),
	); err != nil {
		return nil, err
	}

	if m.DerivationDuration, err = meter.Float64Histogram(
		"bikepulse_derivation_duration",
		metric.WithDescription("Derivation pass duration"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.DerivedRecords, err = meter.Int64Histogram(
		"bikepulse_view_records",
		metric.WithDescription("Records retained by a filter pass"),
	); err != nil {
		return nil, err
	}

	if m.DatasetRecords, err = meter.Int64Gauge(
		"bikepulse_dataset_records",
		metric.WithDescription("Records in the cached dataset"),
	); err != nil {
		return nil, err
	}

	if m.DatasetLoadDuration, err = meter.Float64Histogram(
		"bikepulse_dataset_load_duration",
		metric.WithDescription("Time spent reading and parsing the dataset"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.DatasetStale, err = meter.Int64Gauge(
		"bikepulse_dataset_stale",
		metric.WithDescription("1 when the dataset file changed after it was loaded"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordDerivation counts one derivation pass of operation.
func (m *PipelineMetrics) RecordDerivation(ctx context.Context, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", statusOf(err)),
	)
	m.DerivationsTotal.Add(ctx, 1, attrs)
	m.DerivationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordView records how many rows a filter pass retained.
func (m *PipelineMetrics) RecordView(ctx context.Context, records int) {
	if m == nil {
		return
	}
	m.DerivedRecords.Record(ctx, int64(records))
}

// RecordLoad records the outcome of the one-time dataset load.
func (m *PipelineMetrics) RecordLoad(ctx context.Context, records int, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DatasetLoadDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.String("status", statusOf(err))))
	if err == nil {
		m.DatasetRecords.Record(ctx, int64(records))
	}
}

// RecordStale flags the cached dataset as outdated.
func (m *PipelineMetrics) RecordStale(ctx context.Context, stale bool) {
	if m == nil {
		return
	}
	var v int64
	if stale {
		v = 1
	}
	m.DatasetStale.Record(ctx, v)
}

// RecordHTTP counts one served request.
func (m *PipelineMetrics) RecordHTTP(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case apperrors.IsDerivation(err):
		return "derivation_error"
	case apperrors.IsDataUnavailable(err):
		return "data_unavailable"
	default:
		return "error"
	}
}
